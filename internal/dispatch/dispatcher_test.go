// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package dispatch

import (
	"math"
	"testing"
	"time"

	"github.com/rapidaai/internal/hostevent"
	"github.com/rapidaai/internal/inject"
	"github.com/rapidaai/internal/reconcile"
	"github.com/rapidaai/internal/scribe"
	"github.com/rapidaai/pkg/commons"
)

type noopLogger struct{}

func (noopLogger) Debug(args ...interface{})              {}
func (noopLogger) Debugf(string, ...interface{})           {}
func (noopLogger) Debugw(string, ...interface{})           {}
func (noopLogger) Info(args ...interface{})                {}
func (noopLogger) Infof(string, ...interface{})             {}
func (noopLogger) Infow(string, ...interface{})             {}
func (noopLogger) Warn(args ...interface{})                {}
func (noopLogger) Warnf(string, ...interface{})             {}
func (noopLogger) Warnw(string, ...interface{})             {}
func (noopLogger) Error(args ...interface{})                {}
func (noopLogger) Errorf(string, ...interface{})            {}
func (noopLogger) Errorw(string, ...interface{})            {}
func (noopLogger) Fatalf(string, ...interface{})            {}
func (noopLogger) Benchmark(string, time.Time)              {}

var _ commons.Logger = noopLogger{}

type fixedVAC uint64

func (f fixedVAC) Load() uint64 { return uint64(f) }

type fakeClipboard struct{}

func (fakeClipboard) WriteClipboardOnly(string) error { return nil }

func newTestDispatcher(vac VoiceActivityClock) (*Dispatcher, *reconcile.CommittedQueue, chan struct{}) {
	queue := reconcile.NewCommittedQueue()
	notify := make(chan struct{}, 1)
	tracker := &reconcile.Tracker{InjectedText: "hello", Mode: reconcile.RealtimeCursor}
	d := New(
		noopLoggerInstance,
		Config{LanguageCode: "eng"},
		tracker,
		vac,
		AlwaysAvailableCursor{},
		queue,
		notify,
		hostevent.NoopEmitter{},
		func() inject.TextInjector { return inject.NewDefaultTextInjector(inject.NoopKeystrokeBackend{}, &inject.InMemoryClipboard{}) },
		fakeClipboard{},
	)
	return d, queue, notify
}

var noopLoggerInstance = noopLogger{}

func TestHandleCommittedDropsStaleTranscript(t *testing.T) {
	d, queue, _ := newTestDispatcher(fixedVAC(1000))
	d.handleCommitted(scribe.Event{Text: "hello world", Confidence: 0.9}, 1000+commitStalenessMs+1)
	if queue.Len() != 0 {
		t.Fatalf("expected a stale committed transcript to be dropped, got queue length %d", queue.Len())
	}
}

func TestHandleCommittedDropsNaNConfidence(t *testing.T) {
	d, queue, _ := newTestDispatcher(fixedVAC(1000))
	d.handleCommitted(scribe.Event{Text: "hello world", Confidence: float32(math.NaN())}, 1000)
	if queue.Len() != 0 {
		t.Fatalf("expected NaN confidence to be dropped, got queue length %d", queue.Len())
	}
}

func TestHandleCommittedDropsLowConfidence(t *testing.T) {
	d, queue, _ := newTestDispatcher(fixedVAC(1000))
	d.handleCommitted(scribe.Event{Text: "hello world", Confidence: 0.01}, 1000)
	if queue.Len() != 0 {
		t.Fatalf("expected low-confidence transcript to be dropped, got queue length %d", queue.Len())
	}
}

func TestHandleCommittedEnqueuesValidTranscript(t *testing.T) {
	d, queue, notify := newTestDispatcher(fixedVAC(1000))
	d.handleCommitted(scribe.Event{Text: "hello world again", Confidence: 0.9}, 1000)
	if queue.Len() != 1 {
		t.Fatalf("expected 1 queued transcript, got %d", queue.Len())
	}
	select {
	case <-notify:
	default:
		t.Fatal("expected a non-blocking notify after enqueueing")
	}
}

func TestHandleCommittedZeroConfidenceIsNotTreatedAsLow(t *testing.T) {
	d, queue, _ := newTestDispatcher(fixedVAC(1000))
	// confidence 0 means "not reported" per the wire contract, not "reject".
	d.handleCommitted(scribe.Event{Text: "hello world again", Confidence: 0}, 1000)
	if queue.Len() != 1 {
		t.Fatalf("expected transcript with unset confidence to still enqueue, got %d", queue.Len())
	}
}

func TestHandlePartialDropsWhenNoRecentVoiceActivity(t *testing.T) {
	d, _, _ := newTestDispatcher(fixedVAC(0))
	d.handlePartial(scribe.Event{Text: "hello there"}, 1000)
	// vac==0 means "never observed speech" -> dropped, tracker untouched from
	// its initial seeded value rather than advanced to "hello there".
	if d.tracker.InjectedText != "hello" {
		t.Fatalf("expected partial to be dropped when voice activity was never observed, tracker = %q", d.tracker.InjectedText)
	}
}
