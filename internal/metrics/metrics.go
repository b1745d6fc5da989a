// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package metrics

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
)

const rollingWindowCapacity = 256

// e2ePercentileTargetMs is the end-to-end P95 threshold above which the
// report carries a warning.
const e2ePercentileTargetMs = 500

// RollingWindow is a fixed-capacity FIFO of millisecond samples.
type RollingWindow struct {
	mu      sync.Mutex
	samples []float64
}

func newRollingWindow() *RollingWindow {
	return &RollingWindow{samples: make([]float64, 0, rollingWindowCapacity)}
}

// Record appends a sample, evicting the oldest one once the window is full.
func (w *RollingWindow) Record(ms float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.samples) >= rollingWindowCapacity {
		w.samples = w.samples[1:]
	}
	w.samples = append(w.samples, ms)
}

// WindowSummary is the reported shape of a RollingWindow.
type WindowSummary struct {
	Samples    int
	AverageMs  float64
	P95Ms      float64
	MaxMs      float64
}

// Summary computes average/p95/max over the current window contents.
func (w *RollingWindow) Summary() WindowSummary {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := len(w.samples)
	if n == 0 {
		return WindowSummary{}
	}

	sorted := make([]float64, n)
	copy(sorted, w.samples)
	sort.Float64s(sorted)

	var sum, max float64
	for _, v := range w.samples {
		sum += v
		if v > max {
			max = v
		}
	}

	p95Idx := int(math.Ceil(float64(n)*0.95)) - 1
	if p95Idx < 0 {
		p95Idx = 0
	}
	if p95Idx >= n {
		p95Idx = n - 1
	}

	return WindowSummary{
		Samples:   n,
		AverageMs: sum / float64(n),
		P95Ms:     sorted[p95Idx],
		MaxMs:     max,
	}
}

// Runtime holds the four rolling latency windows and the monotonic drop/send
// counters described by the core's metrics contract.
type Runtime struct {
	AudioProcessing *RollingWindow
	NetworkSend     *RollingWindow
	Injection       *RollingWindow
	EndToEnd        *RollingWindow

	DroppedAudioChunks      atomic.Uint64
	DroppedCommittedTranscripts atomic.Uint64
	SentAudioChunks         atomic.Uint64
	SentAudioBatches        atomic.Uint64
}

// NewRuntime constructs a Runtime with fresh empty windows.
func NewRuntime() *Runtime {
	return &Runtime{
		AudioProcessing: newRollingWindow(),
		NetworkSend:     newRollingWindow(),
		Injection:       newRollingWindow(),
		EndToEnd:        newRollingWindow(),
	}
}

// Report is the point-in-time rendering of Runtime suitable for exposing to
// the host.
type Report struct {
	AudioProcessing WindowSummary
	NetworkSend     WindowSummary
	Injection       WindowSummary
	EndToEnd        WindowSummary

	DroppedAudioChunks          uint64
	DroppedCommittedTranscripts uint64
	SentAudioChunks             uint64
	SentAudioBatches            uint64

	Warnings []string
}

// Report snapshots the current metrics and synthesizes warnings for nonzero
// drop counters or an end-to-end P95 above target.
func (r *Runtime) Report() Report {
	rep := Report{
		AudioProcessing:             r.AudioProcessing.Summary(),
		NetworkSend:                 r.NetworkSend.Summary(),
		Injection:                   r.Injection.Summary(),
		EndToEnd:                    r.EndToEnd.Summary(),
		DroppedAudioChunks:          r.DroppedAudioChunks.Load(),
		DroppedCommittedTranscripts: r.DroppedCommittedTranscripts.Load(),
		SentAudioChunks:             r.SentAudioChunks.Load(),
		SentAudioBatches:            r.SentAudioBatches.Load(),
	}

	if rep.DroppedAudioChunks > 0 {
		rep.Warnings = append(rep.Warnings, "audio chunks have been dropped")
	}
	if rep.DroppedCommittedTranscripts > 0 {
		rep.Warnings = append(rep.Warnings, "committed transcripts have been dropped")
	}
	if rep.EndToEnd.P95Ms > e2ePercentileTargetMs {
		rep.Warnings = append(rep.Warnings, "end-to-end p95 latency exceeds target")
	}
	return rep
}
