// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package inject

import (
	"context"
	"time"

	"github.com/rapidaai/internal/hostevent"
	"github.com/rapidaai/internal/metrics"
	"github.com/rapidaai/internal/reconcile"
	"github.com/rapidaai/pkg/commons"
)

// plausibleEpochMs is the threshold above which a CreatedAtMs value is
// treated as a real epoch timestamp (rather than zero/uninitialized),
// mirroring the original worker's end-to-end latency gate.
const plausibleEpochMs = 1_000_000_000_000

// Factory constructs a fresh TextInjector per injection, so no
// cross-goroutine interior state is shared between operations (I6: at most
// one injection operation in flight at a time; this worker is the single
// consumer that guarantees that serialization).
type Factory func() TextInjector

// Worker is the single consumer of the committed-transcript queue (C11). It
// must not be invoked concurrently from more than one goroutine — Run owns
// that invariant by looping alone.
type Worker struct {
	logger  commons.Logger
	queue   *reconcile.CommittedQueue
	notify  <-chan struct{}
	factory Factory
	metrics *metrics.Runtime
	emitter hostevent.Emitter
}

func NewWorker(logger commons.Logger, queue *reconcile.CommittedQueue, notify <-chan struct{}, factory Factory, m *metrics.Runtime, emitter hostevent.Emitter) *Worker {
	return &Worker{logger: logger, queue: queue, notify: notify, factory: factory, metrics: m, emitter: emitter}
}

// Run drains the queue every time notify fires, until ctx is cancelled.
func (w *Worker) Run(ctx context.Context, nowMs func() uint64) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.notify:
			w.drain(nowMs)
		}
	}
}

func (w *Worker) drain(nowMs func() uint64) {
	for _, item := range w.queue.DrainAll() {
		w.injectOne(item, nowMs)
	}
}

func (w *Worker) injectOne(item reconcile.CommittedTranscript, nowMs func() uint64) {
	w.emitter.EmitRecordingState(hostevent.StateInjecting)

	injector := w.factory()
	start := time.Now()
	err := injector.InjectText(item.Text)
	elapsed := time.Since(start)

	w.metrics.Injection.Record(float64(elapsed.Milliseconds()))
	if item.CreatedAtMs > plausibleEpochMs {
		w.metrics.EndToEnd.Record(float64(nowMs() - item.CreatedAtMs))
	}

	if err != nil {
		w.logger.Warnf("injection failed: %v", err)
		w.emitter.EmitRecordingError(err.Error())
		w.emitter.EmitRecordingState(hostevent.StateError)
		return
	}
	w.emitter.EmitRecordingState(hostevent.StateIdle)
}
