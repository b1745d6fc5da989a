// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package audio

import "testing"

func TestConvertF32ToI16(t *testing.T) {
	cases := []struct {
		in   float32
		want int16
	}{
		{0.0, 0},
		{0.5, 16383},
		{-0.5, -16383},
		{1.2, 32767},
		{-1.3, -32767},
	}
	for _, c := range cases {
		if got := ConvertF32ToI16(c.in); got != c.want {
			t.Errorf("ConvertF32ToI16(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestInterleavedF32ToMonoSingleChannel(t *testing.T) {
	in := []float32{0.1, 0.2, 0.3}
	out := InterleavedF32ToMono(in, 1)
	if len(out) != len(in) {
		t.Fatalf("expected %d samples, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("sample %d: got %v want %v", i, out[i], in[i])
		}
	}
}

func TestInterleavedF32ToMonoStereoAverages(t *testing.T) {
	in := []float32{1.0, -1.0, 0.5, 0.5}
	out := InterleavedF32ToMono(in, 2)
	if len(out) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(out))
	}
	if out[0] != 0 {
		t.Errorf("frame 0: got %v want 0", out[0])
	}
	if out[1] != 0.5 {
		t.Errorf("frame 1: got %v want 0.5", out[1])
	}
}

func TestInterleavedI16ToMono(t *testing.T) {
	in := []int16{32767, -32767}
	out := InterleavedI16ToMono(in, 1)
	if len(out) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(out))
	}
	if out[0] <= 0.99 || out[0] > 1 {
		t.Errorf("sample 0: got %v, want ~1.0", out[0])
	}
}

func TestInterleavedU16ToMono(t *testing.T) {
	in := []uint16{0, 65535, 32767}
	out := InterleavedU16ToMono(in, 1)
	if out[0] != -1 {
		t.Errorf("zero sample should map to -1, got %v", out[0])
	}
	if out[1] != 1 {
		t.Errorf("max sample should map to 1, got %v", out[1])
	}
}
