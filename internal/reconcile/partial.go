// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package reconcile

import "strings"

// RewriteConfig carries the host-tunable knobs for partial rewrite
// behaviour.
type RewriteConfig struct {
	RewriteEnabled bool
	MaxBackspace   int    // 0..=64
	WindowMs       uint64 // 0..=2000
}

// Injector is the subset of the text-injection capability the partial
// reconciler needs. A fresh Injector is expected per call (see the
// injection worker design notes) so no cross-call state leaks.
type Injector interface {
	InjectText(text string) error
	RewriteTail(backspaces int, insert string) error
}

// ReconcilePartial applies the C9 decision table to tracker in place,
// invoking injector directly (partial edits are realtime and bypass the
// committed-transcript queue). now is an injected clock for deterministic
// tests.
func ReconcilePartial(tracker *Tracker, injector Injector, p string, cfg RewriteConfig, nowMs uint64) {
	if tracker.Mode == ClipboardOnly || tracker.DisabledUntilCommit {
		return
	}

	t := tracker.InjectedText

	if t == "" {
		tracker.emit(injector.InjectText(p), func() { tracker.InjectedText = p })
		return
	}

	if strings.HasPrefix(p, t) {
		appended := p[len(t):]
		tracker.emit(injector.InjectText(appended), func() { tracker.InjectedText = p })
		return
	}

	if !cfg.RewriteEnabled {
		tracker.DisabledUntilCommit = true
		return
	}

	k := commonPrefixRuneCount(t, p)
	tRunes := []rune(t)
	b := len(tRunes) - k

	if b > cfg.MaxBackspace {
		tracker.DisabledUntilCommit = true
		return
	}

	if cfg.WindowMs > 0 && nowMs-tracker.LastRewriteAtMs < cfg.WindowMs {
		return
	}

	pRunes := []rune(p)
	insert := string(pRunes[k:])
	tracker.emit(injector.RewriteTail(b, insert), func() {
		tracker.InjectedText = p
		tracker.LastRewriteAtMs = nowMs
	})
}

// emit applies onSuccess and marks RealtimeCursor when err is nil; on error
// it disables further partial edits until the next commit, and falls back
// to clipboard mode if no mode had been determined yet.
func (t *Tracker) emit(err error, onSuccess func()) {
	if err != nil {
		t.DisabledUntilCommit = true
		if t.Mode == Undetermined {
			t.Mode = ClipboardOnly
		}
		return
	}
	onSuccess()
	t.Mode = RealtimeCursor
}

// commonPrefixRuneCount returns the number of leading runes a and b share.
func commonPrefixRuneCount(a, b string) int {
	ar, br := []rune(a), []rune(b)
	n := len(ar)
	if len(br) < n {
		n = len(br)
	}
	i := 0
	for i < n && ar[i] == br[i] {
		i++
	}
	return i
}
