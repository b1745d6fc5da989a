// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package audio

import "testing"

func TestDetectVoiceActivityLoudChunk(t *testing.T) {
	loud := make([]int16, 480)
	for i := range loud {
		loud[i] = 5000
	}
	if !DetectVoiceActivity(loud) {
		t.Fatal("expected loud chunk to register voice activity")
	}
}

func TestDetectVoiceActivitySilentChunk(t *testing.T) {
	silence := make([]int16, 480)
	if DetectVoiceActivity(silence) {
		t.Fatal("expected all-zero chunk to report no voice activity")
	}
}

func TestIsSilentChunkThresholds(t *testing.T) {
	silence := make([]int16, 480)
	if !IsSilentChunk(silence) {
		t.Fatal("expected all-zero chunk to be silent")
	}

	loud := make([]int16, 480)
	for i := range loud {
		loud[i] = 5000
	}
	if IsSilentChunk(loud) {
		t.Fatal("expected loud chunk not to be silent")
	}
}

func TestMaxAbsSample(t *testing.T) {
	samples := []int16{-10, 5, -9000, 100}
	if got := MaxAbsSample(samples); got != 9000 {
		t.Fatalf("expected 9000, got %d", got)
	}
}
