// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package reconcile

import "strings"

// ClipboardWriter is the subset of the injection capability the commit
// resolver needs for the clipboard-only path.
type ClipboardWriter interface {
	WriteClipboardOnly(text string) error
}

// CommittedDelta is the outcome of resolving one committed transcript
// against the tracker: either nothing to inject, or a transcript fragment
// to enqueue for the injection worker.
type CommittedDelta struct {
	Text    string
	HasText bool
}

// ResolveCommit implements C10: given the normalized committed text c and
// the tracker's current state, it decides what (if anything) should be
// enqueued for injection, updates the clipboard path as a side effect, and
// always calls ResetAfterCommit.
func ResolveCommit(tracker *Tracker, clipboard ClipboardWriter, c string) CommittedDelta {
	defer tracker.ResetAfterCommit()

	if tracker.Mode == ClipboardOnly || tracker.InjectedText == "" {
		tracker.PendingClipboardText = AppendToPendingClipboard(tracker.PendingClipboardText, c)
		_ = clipboard.WriteClipboardOnly(tracker.PendingClipboardText)
		return CommittedDelta{}
	}

	injected := strings.TrimSpace(tracker.InjectedText)
	trimmedC := strings.TrimSpace(c)

	if trimmedC == injected {
		return CommittedDelta{}
	}

	if strings.HasPrefix(c, tracker.InjectedText) {
		remainder := c[len(tracker.InjectedText):]
		if isOnlyTerminalPunctuationAndWrappers(remainder) {
			return CommittedDelta{Text: remainder, HasText: true}
		}
	}

	if hasTerminalPunctuation(injected) {
		return CommittedDelta{}
	}

	suffix := terminalPunctuationSuffix(c)
	if suffix == "" {
		return CommittedDelta{}
	}
	return CommittedDelta{Text: suffix, HasText: true}
}

func isOnlyTerminalPunctuationAndWrappers(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if strings.ContainsRune(terminalPunctuation, r) || strings.ContainsRune(closingWrappers, r) {
			continue
		}
		return false
	}
	return true
}

// terminalPunctuationSuffix returns the trailing run of terminal
// punctuation/closing-wrapper characters in c, or "" if c doesn't end in
// one.
func terminalPunctuationSuffix(c string) string {
	runes := []rune(c)
	end := len(runes)
	start := end
	for start > 0 {
		r := runes[start-1]
		if strings.ContainsRune(terminalPunctuation, r) || strings.ContainsRune(closingWrappers, r) {
			start--
			continue
		}
		break
	}
	if start == end {
		return ""
	}
	return string(runes[start:end])
}
