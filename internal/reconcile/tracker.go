// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package reconcile

// Mode is the tagged injection-mode variant for a recording session.
type Mode int

const (
	Undetermined Mode = iota
	RealtimeCursor
	ClipboardOnly
)

// Tracker is the per-session state for the partial/commit reconciliation
// state machine (I2: InjectedText is always a prefix of what the OS has
// actually received from this component).
type Tracker struct {
	InjectedText         string
	DisabledUntilCommit  bool
	Mode                 Mode
	PendingClipboardText string
	LastRewriteAtMs      uint64
}

// ResetForSession clears per-utterance state and the injection mode at the
// start of a new recording. PendingClipboardText is left as it is.
func (t *Tracker) ResetForSession() {
	t.InjectedText = ""
	t.DisabledUntilCommit = false
	t.Mode = Undetermined
	t.LastRewriteAtMs = 0
}

// ResetAfterCommit clears per-utterance state but preserves Mode and
// PendingClipboardText across commits within the same session.
func (t *Tracker) ResetAfterCommit() {
	t.InjectedText = ""
	t.DisabledUntilCommit = false
	t.LastRewriteAtMs = 0
}
