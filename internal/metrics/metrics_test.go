// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package metrics

import "testing"

func TestRollingWindowSummaryEmpty(t *testing.T) {
	w := newRollingWindow()
	s := w.Summary()
	if s.Samples != 0 || s.AverageMs != 0 || s.P95Ms != 0 || s.MaxMs != 0 {
		t.Fatalf("expected zero-value summary for an empty window, got %+v", s)
	}
}

func TestRollingWindowSummaryComputesAverageAndMax(t *testing.T) {
	w := newRollingWindow()
	for _, v := range []float64{10, 20, 30, 40} {
		w.Record(v)
	}
	s := w.Summary()
	if s.Samples != 4 {
		t.Fatalf("expected 4 samples, got %d", s.Samples)
	}
	if s.AverageMs != 25 {
		t.Fatalf("expected average 25, got %v", s.AverageMs)
	}
	if s.MaxMs != 40 {
		t.Fatalf("expected max 40, got %v", s.MaxMs)
	}
}

func TestRollingWindowP95OfTwentySamples(t *testing.T) {
	w := newRollingWindow()
	for i := 1; i <= 20; i++ {
		w.Record(float64(i))
	}
	s := w.Summary()
	// ceil(20*0.95) - 1 = 18 -> sorted[18] = 19.
	if s.P95Ms != 19 {
		t.Fatalf("expected p95 19, got %v", s.P95Ms)
	}
}

func TestRollingWindowEvictsOldestPastCapacity(t *testing.T) {
	w := newRollingWindow()
	for i := 0; i < rollingWindowCapacity+1; i++ {
		w.Record(float64(i))
	}
	s := w.Summary()
	if s.Samples != rollingWindowCapacity {
		t.Fatalf("expected capacity-capped sample count, got %d", s.Samples)
	}
}

func TestReportWarnsOnNonzeroDropsAndHighP95(t *testing.T) {
	r := NewRuntime()
	r.DroppedAudioChunks.Store(3)
	r.DroppedCommittedTranscripts.Store(1)
	r.EndToEnd.Record(600)

	rep := r.Report()
	if len(rep.Warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %v", rep.Warnings)
	}
}

func TestReportIsClean(t *testing.T) {
	r := NewRuntime()
	r.EndToEnd.Record(50)

	rep := r.Report()
	if len(rep.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", rep.Warnings)
	}
}
