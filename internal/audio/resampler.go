// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package audio

import (
	"fmt"
	"math"
)

const (
	sincLength        = 256
	sincCutoff        = 0.95
	sincOversampling  = 256
	sincHalf          = sincLength / 2
)

// Resampler converts multi-channel f32 audio at an arbitrary device rate
// down to mono i16 PCM at the target rate using fixed-parameter sinc
// interpolation: a 256-tap windowed sinc kernel (Blackman-Harris window),
// linearly interpolated between 256 oversampled phase tables.
//
// Channels are averaged into one mono signal before resampling, so a single
// buffer and a single read position serve interleaved input of any channel
// count.
type Resampler struct {
	inputRate  uint32
	targetRate uint32
	channels   int

	ratio float64 // targetRate / inputRate

	table [][]float64 // [phase][tap], phase in [0, sincOversampling]

	// buffered holds mono samples not yet fully consumed
	// by the sinc window (kept so windows can look back/ahead across calls).
	buffered []float64
	// pos is the current fractional read position in input-sample units
	// relative to buffered[0].
	pos float64
}

// NewResampler builds a resampler for the given rates and channel count.
// channels must be >= 1.
func NewResampler(inputRate, targetRate uint32, channels int) (*Resampler, error) {
	if channels < 1 {
		return nil, fmt.Errorf("%w: channels must be >= 1", ErrInvalidConfig)
	}
	if inputRate == 0 || targetRate == 0 {
		return nil, fmt.Errorf("%w: sample rates must be non-zero", ErrInvalidConfig)
	}

	r := &Resampler{
		inputRate:  inputRate,
		targetRate: targetRate,
		channels:   channels,
		ratio:      float64(targetRate) / float64(inputRate),
	}
	r.table = buildSincTable(inputRate, targetRate)
	return r, nil
}

// InputFramesNext is the nominal fixed input chunk size the resampler is
// tuned for: 100ms of device-rate audio.
func (r *Resampler) InputFramesNext() int {
	n := int(r.inputRate) / 10
	if n < 1 {
		n = 1
	}
	return n
}

// Process accepts one chunk of interleaved f32 samples (channels ==
// r.channels) and returns zero or more resampled i16 mono samples. An empty
// result is normal when insufficient input has accumulated yet to satisfy
// the sinc kernel's look-ahead requirement — it is not an error.
func (r *Resampler) Process(interleaved []float32) ([]int16, error) {
	if len(interleaved)%r.channels != 0 {
		return nil, fmt.Errorf("%w: interleaved length %d not a multiple of %d channels", ErrInvalidInput, len(interleaved), r.channels)
	}

	mono := InterleavedF32ToMono(interleaved, r.channels)
	for _, s := range mono {
		r.buffered = append(r.buffered, float64(s))
	}

	var out []int16
	for int(r.pos)+sincHalf < len(r.buffered) {
		sample := r.interpolateAt(r.pos)
		if sample > 1 {
			sample = 1
		} else if sample < -1 {
			sample = -1
		}
		out = append(out, ConvertF32ToI16(float32(sample)))
		r.pos += 1.0 / r.ratio
	}

	// Trim samples that no longer fall within any future kernel window.
	consumed := int(r.pos) - sincHalf
	if consumed > 0 {
		if consumed > len(r.buffered) {
			consumed = len(r.buffered)
		}
		r.buffered = r.buffered[consumed:]
		r.pos -= float64(consumed)
	}

	return out, nil
}

func (r *Resampler) interpolateAt(pos float64) float64 {
	base := int(math.Floor(pos))
	frac := pos - float64(base)

	phase := frac * float64(sincOversampling)
	p0 := int(phase)
	if p0 > sincOversampling {
		p0 = sincOversampling
	}
	p1 := p0 + 1
	if p1 > sincOversampling {
		p1 = sincOversampling
	}
	w := phase - float64(p0)

	var sum float64
	row0 := r.table[p0]
	row1 := r.table[p1]
	for j := 0; j < sincLength; j++ {
		idx := base - sincHalf + j
		if idx < 0 || idx >= len(r.buffered) {
			continue
		}
		tap := row0[j]*(1-w) + row1[j]*w
		sum += r.buffered[idx] * tap
	}
	return sum
}

// buildSincTable precomputes sincOversampling+1 rows of a windowed,
// cutoff-scaled sinc kernel. The cutoff is relative to the lower of the two
// Nyquist frequencies so downsampling remains anti-aliased.
func buildSincTable(inputRate, targetRate uint32) [][]float64 {
	scale := 1.0
	if targetRate < inputRate {
		scale = float64(targetRate) / float64(inputRate)
	}
	cutoff := sincCutoff * scale

	table := make([][]float64, sincOversampling+1)
	for p := 0; p <= sincOversampling; p++ {
		fracOffset := float64(p) / float64(sincOversampling)
		row := make([]float64, sincLength)
		for j := 0; j < sincLength; j++ {
			x := float64(j-sincHalf) - fracOffset
			row[j] = cutoff * sincFunc(cutoff*x) * blackmanHarris2(j, sincLength)
		}
		table[p] = row
	}
	return table
}

func sincFunc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// blackmanHarris2 is a 4-term Blackman-Harris window evaluated at tap i of n.
func blackmanHarris2(i, n int) float64 {
	const (
		a0 = 0.35875
		a1 = 0.48829
		a2 = 0.14128
		a3 = 0.01168
	)
	x := 2 * math.Pi * float64(i) / float64(n-1)
	return a0 - a1*math.Cos(x) + a2*math.Cos(2*x) - a3*math.Cos(3*x)
}

// ConvertF32ToI16 clamps x to [-1, 1] and scales it to the i16 range,
// truncating toward zero (matching Go's float->int conversion semantics and
// the original `as i16` cast this mirrors), matching the PCM encoding the
// network layer expects.
func ConvertF32ToI16(x float32) int16 {
	v := float64(x)
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int16(v * 32767)
}
