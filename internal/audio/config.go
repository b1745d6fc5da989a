// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package audio

import "fmt"

// Config describes the shape of the audio pipeline for a single recording
// session. InputSampleRate is overwritten by whatever the device reports on
// open; everything else is fixed per session.
type Config struct {
	InputSampleRate  uint32
	TargetSampleRate uint32
	Channels         uint16
	BufferSize       uint32
	ChunkDurationMs  uint32
}

// DefaultConfig mirrors the defaults of the original capture pipeline.
func DefaultConfig() Config {
	return Config{
		InputSampleRate:  48000,
		TargetSampleRate: 16000,
		Channels:         1,
		BufferSize:       480,
		ChunkDurationMs:  100,
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.Channels == 0 {
		return fmt.Errorf("%w: channels must be non-zero", ErrInvalidConfig)
	}
	if c.BufferSize == 0 {
		return fmt.Errorf("%w: buffer size must be non-zero", ErrInvalidConfig)
	}
	if c.TargetSampleRate == 0 {
		return fmt.Errorf("%w: target sample rate must be non-zero", ErrInvalidConfig)
	}
	return nil
}

// TargetSamplesPerChunk is the number of device-rate input samples that make
// up one chunk_duration_ms worth of audio.
func (c Config) TargetSamplesPerChunk() int {
	n := (int(c.InputSampleRate) * int(c.ChunkDurationMs)) / 1000
	if n < 1 {
		n = 1
	}
	return n
}

// RingCapacity is max(64, 2 * input_rate / buffer_size).
func (c Config) RingCapacity() int {
	cap := (2 * int(c.InputSampleRate)) / int(c.BufferSize)
	if cap < 64 {
		cap = 64
	}
	return cap
}
