// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package audio

import "math"

const (
	rnnoiseSampleRate = 48000
	i16Scale          = 32767.0
	// DenoiserFrameSize is the fixed frame size the suppressor operates on.
	DenoiserFrameSize = 480
)

// Denoiser is a fixed-frame-size (480 samples), single-frame-latency noise
// suppressor. It is only meaningful at 48kHz — construct via
// NewDenoiserForSampleRate, which returns nil when the rate doesn't match.
//
// Internally it runs a spectral noise gate: it tracks a slowly-adapting
// per-bin noise floor from quiet frames and attenuates bins that sit close
// to that floor, leaving speech-dominant bins untouched. This keeps the
// external contract (process a 480-sample i16-scaled frame in place, one
// frame of startup latency) identical to the original suppressor it
// replaces without requiring a native RNNoise binding.
type Denoiser struct {
	noiseFloor  [DenoiserFrameSize/2 + 1]float64
	inputFrame  [DenoiserFrameSize]float64
	outputFrame [DenoiserFrameSize]float64
	firstFrame  bool
}

// NewDenoiserForSampleRate returns a Denoiser when sampleRate is exactly
// 48000, otherwise nil — callers are expected to bypass denoising with a
// warn log in that case (see Processing task).
func NewDenoiserForSampleRate(sampleRate uint32) *Denoiser {
	if sampleRate != rnnoiseSampleRate {
		return nil
	}
	return &Denoiser{firstFrame: true}
}

// ProcessChunkInPlace denoises samples (which must be a multiple of
// DenoiserFrameSize long) frame by frame. The first frame ever processed by
// a Denoiser instance is left untouched (its pre-denoise values are kept,
// not removed from the stream) because the suppressor's internal state has
// a one-frame startup transient.
func (d *Denoiser) ProcessChunkInPlace(samples []float32) {
	for start := 0; start+DenoiserFrameSize <= len(samples); start += DenoiserFrameSize {
		frame := samples[start : start+DenoiserFrameSize]

		for i, s := range frame {
			v := float64(s) * i16Scale
			if v > 32767 {
				v = 32767
			} else if v < -32768 {
				v = -32768
			}
			d.inputFrame[i] = v
		}

		d.denoiseFrame()

		if d.firstFrame {
			d.firstFrame = false
			continue
		}

		for i := range frame {
			v := d.outputFrame[i] / i16Scale
			if v > 1 {
				v = 1
			} else if v < -1 {
				v = -1
			}
			frame[i] = float32(v)
		}
	}
}

// denoiseFrame runs a minimal-statistics noise gate over the frame's
// magnitude spectrum computed via a direct (non-FFT) DFT — the frame size
// is small and fixed, so the O(n^2) cost is bounded and predictable.
func (d *Denoiser) denoiseFrame() {
	const bins = DenoiserFrameSize/2 + 1
	var real, imag [bins]float64

	for k := 0; k < bins; k++ {
		var sumR, sumI float64
		w := -2 * math.Pi * float64(k) / float64(DenoiserFrameSize)
		for n := 0; n < DenoiserFrameSize; n++ {
			angle := w * float64(n)
			sumR += d.inputFrame[n] * math.Cos(angle)
			sumI += d.inputFrame[n] * math.Sin(angle)
		}
		real[k] = sumR
		imag[k] = sumI
	}

	const noiseAdapt = 0.05
	const floorMargin = 1.5
	var gain [bins]float64
	for k := 0; k < bins; k++ {
		mag := math.Hypot(real[k], imag[k])
		if mag < d.noiseFloor[k] || d.noiseFloor[k] == 0 {
			d.noiseFloor[k] += (mag - d.noiseFloor[k]) * noiseAdapt
		} else {
			d.noiseFloor[k] += (mag - d.noiseFloor[k]) * (noiseAdapt / 4)
		}
		threshold := d.noiseFloor[k] * floorMargin
		if mag <= threshold || mag == 0 {
			gain[k] = 0
		} else {
			gain[k] = (mag - threshold) / mag
		}
		real[k] *= gain[k]
		imag[k] *= gain[k]
	}

	for n := 0; n < DenoiserFrameSize; n++ {
		var sum float64
		for k := 0; k < bins; k++ {
			angle := 2 * math.Pi * float64(k) * float64(n) / float64(DenoiserFrameSize)
			weight := 2.0
			if k == 0 || k == bins-1 {
				weight = 1.0
			}
			sum += weight * (real[k]*math.Cos(angle) - imag[k]*math.Sin(angle))
		}
		d.outputFrame[n] = sum / float64(DenoiserFrameSize)
	}
}
