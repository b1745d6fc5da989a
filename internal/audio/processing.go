// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package audio

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rapidaai/pkg/commons"
)

const backpressureWarnEvery = 50

// ProcessedChunk is mono 16kHz PCM ready for batching, typically 1600
// samples (100ms).
type ProcessedChunk struct {
	Samples          []int16
	ProcessingTimeMs uint64
}

// ProcessingTask drains the ring buffer, denoises (when active) and
// resamples each fixed-size window, and emits ProcessedChunk values on out
// via a non-blocking send. It runs until ctx is cancelled (returning nil) or
// the resampler reports an error (returning it); a consumer that stops
// reading from out only shows up as dropped chunks.
func ProcessingTask(ctx context.Context, logger commons.Logger, ring *RingBuffer, cfg Config, out chan<- ProcessedChunk, dropped *atomic.Uint64) error {
	denoiser := NewDenoiserForSampleRate(cfg.InputSampleRate)
	if denoiser == nil {
		logger.Warnf("denoiser bypassed: input sample rate %d is not 48kHz", cfg.InputSampleRate)
	}

	resampler, err := NewResampler(cfg.InputSampleRate, cfg.TargetSampleRate, int(cfg.Channels))
	if err != nil {
		return err
	}

	targetSamples := cfg.TargetSamplesPerChunk()
	accumulator := make([]float32, 0, targetSamples*2)

	var backpressure uint64

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		consumedAny := false
		for {
			chunk, ok := ring.Pop()
			if !ok {
				break
			}
			consumedAny = true
			accumulator = append(accumulator, chunk...)

			for len(accumulator) >= targetSamples {
				toProcess := make([]float32, targetSamples)
				copy(toProcess, accumulator[:targetSamples])
				accumulator = accumulator[targetSamples:]

				if denoiser != nil {
					denoiser.ProcessChunkInPlace(toProcess)
				}

				start := time.Now()
				resampled, err := resampler.Process(toProcess)
				if err != nil {
					return err
				}
				if len(resampled) == 0 {
					continue
				}
				processingMs := uint64(time.Since(start).Milliseconds())

				chunkOut := ProcessedChunk{Samples: resampled, ProcessingTimeMs: processingMs}
				select {
				case out <- chunkOut:
				default:
					backpressure++
					if dropped != nil {
						dropped.Add(1)
					}
					if backpressure%backpressureWarnEvery == 0 {
						logger.Warnf("dropping processed chunks because sender is saturated (%d so far)", backpressure)
					}
				}
			}
		}

		if !consumedAny {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(10 * time.Millisecond):
			}
		}
	}
}
