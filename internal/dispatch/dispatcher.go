// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package dispatch

import (
	"context"
	"math"
	"sync"

	"github.com/rapidaai/internal/hostevent"
	"github.com/rapidaai/internal/inject"
	"github.com/rapidaai/internal/reconcile"
	"github.com/rapidaai/internal/scribe"
	"github.com/rapidaai/pkg/commons"
)

const (
	partialStalenessMs = 2000
	commitStalenessMs  = 6000
	minCommitConfidence = 0.10
)

// VoiceActivityClock is the minimal read surface the dispatcher needs over
// the last-observed-speech timestamp the batcher maintains.
type VoiceActivityClock interface {
	Load() uint64
}

// TextCursor reports whether a realtime text cursor is currently available
// to receive partial rewrites; when false, the dispatcher commits the
// session to clipboard-only mode.
type TextCursor interface {
	Available() bool
}

// AlwaysAvailableCursor is the default TextCursor used when the host hasn't
// wired in its own focus-tracking signal.
type AlwaysAvailableCursor struct{}

func (AlwaysAvailableCursor) Available() bool { return true }

// Config mirrors the host-tunable partial-rewrite settings plus the active
// language code.
type Config struct {
	LanguageCode  string
	Rewrite       reconcile.RewriteConfig
}

// Dispatcher subscribes to a scribe.Client's network events and routes them
// per the C8 gating rules, driving C9 (partial reconciler) directly and C10
// (commit resolver) into the committed queue for the injection worker.
type Dispatcher struct {
	logger commons.Logger
	cfg    Config

	mu      sync.Mutex
	tracker *reconcile.Tracker

	vac           VoiceActivityClock
	cursor        TextCursor
	queue         *reconcile.CommittedQueue
	notify        chan<- struct{}
	emitter       hostevent.Emitter
	injectorMaker func() inject.TextInjector
	clipboard     reconcile.ClipboardWriter

	sessionID string
}

func New(
	logger commons.Logger,
	cfg Config,
	tracker *reconcile.Tracker,
	vac VoiceActivityClock,
	cursor TextCursor,
	queue *reconcile.CommittedQueue,
	notify chan<- struct{},
	emitter hostevent.Emitter,
	injectorMaker func() inject.TextInjector,
	clipboard reconcile.ClipboardWriter,
) *Dispatcher {
	return &Dispatcher{
		logger: logger, cfg: cfg, tracker: tracker, vac: vac, cursor: cursor,
		queue: queue, notify: notify, emitter: emitter, injectorMaker: injectorMaker,
		clipboard: clipboard,
	}
}

// Run consumes events until ctx is cancelled or events closes.
func (d *Dispatcher) Run(ctx context.Context, events <-chan scribe.NetworkEvent, nowMs func() uint64) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			d.handle(ev, nowMs())
		}
	}
}

func (d *Dispatcher) handle(ev scribe.NetworkEvent, nowMs uint64) {
	if ev.Kind == scribe.NetworkEventTransportError {
		d.logger.Warnf("transport error: %s", ev.Err)
		d.emitter.EmitRecordingState(hostevent.StateError)
		d.emitter.EmitRecordingError(ev.Err)
		return
	}

	switch ev.Scribe.Type {
	case scribe.EventSessionStarted:
		d.sessionID = ev.Scribe.SessionID
		d.emitter.EmitRecordingState(hostevent.StateListening)
		d.emitter.EmitSessionStarted(ev.Scribe.SessionID)

	case scribe.EventPartialTranscript:
		d.handlePartial(ev.Scribe, nowMs)

	case scribe.EventCommittedTranscript:
		d.handleCommitted(ev.Scribe, nowMs)

	case scribe.EventInputError, scribe.EventError, scribe.EventAuthError:
		d.emitter.EmitRecordingState(hostevent.StateError)
		d.emitter.EmitRecordingError(ev.Scribe.Message)

	case scribe.EventUnknown:
		d.logger.Debugf("unknown scribe event: %s", string(ev.Scribe.Raw))
	}
}

func (d *Dispatcher) handlePartial(ev scribe.Event, nowMs uint64) {
	text := reconcile.Normalize(ev.Text, d.cfg.LanguageCode)

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.cursor.Available() {
		d.tracker.Mode = reconcile.ClipboardOnly
		return
	}

	if last := d.vac.Load(); last == 0 || nowMs-last > partialStalenessMs {
		return
	}

	d.emitter.EmitPartialTranscript(text)
	reconcile.ReconcilePartial(d.tracker, d.injectorMaker(), text, d.cfg.Rewrite, nowMs)
}

func (d *Dispatcher) handleCommitted(ev scribe.Event, nowMs uint64) {
	last := d.vac.Load()
	if last == 0 || nowMs-last > commitStalenessMs {
		d.logger.Debugf("dropping stale committed transcript")
		return
	}

	if math.IsNaN(float64(ev.Confidence)) || math.IsInf(float64(ev.Confidence), 0) {
		return
	}

	if ev.Confidence > 0 && ev.Confidence < minCommitConfidence {
		d.logger.Debugf("dropping low-confidence committed transcript: %f", ev.Confidence)
		return
	}

	text := reconcile.Normalize(ev.Text, d.cfg.LanguageCode)
	text = reconcile.AppendTerminalPunctuation(text)
	if text == "" {
		return
	}

	d.emitter.EmitCommittedTranscript(text)

	d.mu.Lock()
	delta := reconcile.ResolveCommit(d.tracker, d.clipboard, text)
	d.mu.Unlock()

	if !delta.HasText {
		return
	}

	d.queue.Enqueue(reconcile.CommittedTranscript{
		Text:        delta.Text,
		Confidence:  ev.Confidence,
		CreatedAtMs: ev.CreatedAtMs,
	})
	select {
	case d.notify <- struct{}{}:
	default:
	}
}

// ResetForSession resets the tracker at the start of a new recording.
func (d *Dispatcher) ResetForSession() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tracker.ResetForSession()
}
