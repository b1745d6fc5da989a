// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package audio

import (
	"fmt"
	"time"

	"github.com/rapidaai/pkg/commons"
)

// Capturer is the abstract boundary to a host audio input device. The real
// OS binding (device enumeration, callback registration) is out of scope;
// this module only needs something that feeds raw mono/multi-channel
// samples into the ring buffer's single producer side.
type Capturer interface {
	// Open requests the default input device and returns the Config the
	// device actually reports (input sample rate and channel count may
	// differ from what was requested).
	Open(cfg Config, onSamples func(frame []float32)) (Config, error)
	// Close stops the stream. Safe to call multiple times.
	Close() error
}

// SyntheticCapturer is a reference Capturer used for tests and for running
// the pipeline without a real audio device: it replays a fixed set of
// frames (or silence) at roughly the configured buffer cadence.
type SyntheticCapturer struct {
	logger  commons.Logger
	frames  [][]float32
	stopCh  chan struct{}
	closed  bool
}

// NewSyntheticCapturer builds a capturer that will emit frames in order,
// then repeat silence frames of BufferSize*Channels samples thereafter.
func NewSyntheticCapturer(logger commons.Logger, frames [][]float32) *SyntheticCapturer {
	return &SyntheticCapturer{logger: logger, frames: frames, stopCh: make(chan struct{})}
}

func (s *SyntheticCapturer) Open(cfg Config, onSamples func(frame []float32)) (Config, error) {
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	period := time.Duration(cfg.BufferSize) * time.Second / time.Duration(cfg.InputSampleRate)
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		idx := 0
		silence := make([]float32, int(cfg.BufferSize)*int(cfg.Channels))
		for {
			select {
			case <-s.stopCh:
				return
			case <-ticker.C:
				var frame []float32
				if idx < len(s.frames) {
					frame = s.frames[idx]
					idx++
				} else {
					frame = silence
				}
				onSamples(frame)
			}
		}
	}()
	return cfg, nil
}

func (s *SyntheticCapturer) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.stopCh)
	return nil
}

// DeviceConfigError wraps a failure to open/configure the capture device.
func DeviceConfigError(reason string) error {
	return fmt.Errorf("%w: %s", ErrNoInputDevice, reason)
}
