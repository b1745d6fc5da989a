// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package runtime

import (
	"sync"

	"github.com/rapidaai/internal/batch"
	"github.com/rapidaai/internal/hostevent"
	"github.com/rapidaai/internal/metrics"
	"github.com/rapidaai/internal/reconcile"
	"github.com/rapidaai/internal/scribe"
	"github.com/rapidaai/pkg/commons"
)

// ClientBinding keys the shared scribe client by the credentials it was
// opened with, so a settings change that alters the API key or language
// transparently opens a fresh connection instead of reusing a stale one.
type ClientBinding struct {
	APIKey       string
	LanguageCode string
	Client       *scribe.Client
}

// State is the process-wide (but not global) runtime root: constructed once
// at startup and passed explicitly to every goroutine.
type State struct {
	Logger commons.Logger

	mu              sync.RWMutex
	isRecording     bool
	currentHotkey   string
	clientBinding   *ClientBinding

	Tracker         *reconcile.Tracker
	trackerMu       sync.Mutex
	VoiceActivity   *batch.VoiceActivityClock
	CommittedQueue  *reconcile.CommittedQueue
	InjectionNotify chan struct{}
	Metrics         *metrics.Runtime
	Emitter         hostevent.Emitter
}

// NewState constructs a fresh runtime root with empty tracker/queue/metrics.
func NewState(logger commons.Logger, emitter hostevent.Emitter) *State {
	if emitter == nil {
		emitter = hostevent.NoopEmitter{}
	}
	return &State{
		Logger:          logger,
		currentHotkey:   "Ctrl+N",
		Tracker:         &reconcile.Tracker{},
		VoiceActivity:   batch.NewVoiceActivityClock(),
		CommittedQueue:  reconcile.NewCommittedQueue(),
		InjectionNotify: make(chan struct{}, 1),
		Metrics:         metrics.NewRuntime(),
		Emitter:         emitter,
	}
}

func (s *State) IsRecording() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRecording
}

func (s *State) setRecording(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isRecording = v
}

func (s *State) Hotkey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentHotkey
}

func (s *State) SetHotkey(hotkey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentHotkey = hotkey
}

// ClientFor returns the currently bound scribe client if it matches
// apiKey/languageCode, constructing and binding a new one (closing any
// stale binding) otherwise.
func (s *State) ClientFor(apiKey, languageCode string) *scribe.Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.clientBinding != nil && s.clientBinding.APIKey == apiKey && s.clientBinding.LanguageCode == languageCode {
		return s.clientBinding.Client
	}

	if s.clientBinding != nil {
		_ = s.clientBinding.Client.Disconnect()
	}

	client := scribe.NewClient(s.Logger, scribe.Options{APIKey: apiKey, LanguageCode: languageCode})
	s.clientBinding = &ClientBinding{APIKey: apiKey, LanguageCode: languageCode, Client: client}
	return client
}

// NotifyInjection signals the injection worker without blocking if a signal
// is already pending.
func (s *State) NotifyInjection() {
	select {
	case s.InjectionNotify <- struct{}{}:
	default:
	}
}

// WithTracker runs fn while holding the tracker's mutex, matching the
// resource policy that the tracker must not be held across any channel
// send on the network or injection paths.
func (s *State) WithTracker(fn func(t *reconcile.Tracker)) {
	s.trackerMu.Lock()
	defer s.trackerMu.Unlock()
	fn(s.Tracker)
}
