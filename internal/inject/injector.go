// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package inject

import (
	"errors"
	"runtime"
	"time"

	"github.com/rapidaai/internal/reconcile"
)

const (
	DefaultInjectionThreshold = 10
	interCharDelay            = 5 * time.Millisecond
	backspaceDelay            = 4 * time.Millisecond
	pasteSettleDelay          = 100 * time.Millisecond
)

var ErrClipboardUnavailable = errors.New("clipboard operation failed")

// TextInjector is the abstract OS-level keystroke/clipboard capability. The
// core depends only on this interface; real keystroke synthesis and
// clipboard access are out of scope (host-provided).
type TextInjector interface {
	InjectText(text string) error
	WriteClipboardOnly(text string) error
	RewriteTail(backspaces int, insert string) error
}

// KeystrokeBackend is the narrow OS capability a concrete TextInjector
// drives: type one character, press backspace, or issue a paste chord. A
// real implementation binds these to platform keyboard-simulation APIs;
// this module only ships a clipboard-only reference backend for testing.
type KeystrokeBackend interface {
	TypeChar(r rune) error
	Backspace() error
	Paste() error
}

// Clipboard is the abstract system clipboard capability.
type Clipboard interface {
	Write(text string) error
}

// InMemoryClipboard is a reference Clipboard used by tests and by the
// default injector when no host clipboard is wired in.
type InMemoryClipboard struct {
	Text string
}

func (c *InMemoryClipboard) Write(text string) error {
	c.Text = text
	return nil
}

// NoopKeystrokeBackend accepts every keystroke call without doing anything;
// it is the default backend until a host binds a real one.
type NoopKeystrokeBackend struct{}

func (NoopKeystrokeBackend) TypeChar(r rune) error { return nil }
func (NoopKeystrokeBackend) Backspace() error      { return nil }
func (NoopKeystrokeBackend) Paste() error          { return nil }

// DefaultTextInjector implements TextInjector on top of a KeystrokeBackend
// and a Clipboard. A fresh one should be constructed per injection (see
// design notes: the capability is not shared across calls).
type DefaultTextInjector struct {
	Backend   KeystrokeBackend
	Clipboard Clipboard
}

func NewDefaultTextInjector(backend KeystrokeBackend, clipboard Clipboard) *DefaultTextInjector {
	return &DefaultTextInjector{Backend: backend, Clipboard: clipboard}
}

// InjectText types short ASCII text character-by-character with a 5ms
// inter-character delay, or pastes via the clipboard for longer/non-ASCII
// text, then always mirrors the final text to the clipboard.
func (d *DefaultTextInjector) InjectText(text string) error {
	clean, err := reconcile.ValidateTranscript(text)
	if err != nil {
		return err
	}
	if clean == "" {
		return nil
	}

	if isShortASCII(clean) {
		for _, r := range clean {
			if err := d.Backend.TypeChar(r); err != nil {
				return err
			}
			time.Sleep(interCharDelay)
		}
	} else {
		if err := d.Clipboard.Write(clean); err != nil {
			return err
		}
		if err := d.Backend.Paste(); err != nil {
			return err
		}
		time.Sleep(pasteSettleDelay)
	}

	if err := d.Clipboard.Write(clean); err != nil {
		return errors.Join(ErrClipboardUnavailable, err)
	}
	return nil
}

// WriteClipboardOnly validates and writes text to the clipboard without
// synthesizing any keystrokes.
func (d *DefaultTextInjector) WriteClipboardOnly(text string) error {
	clean, err := reconcile.ValidateTranscript(text)
	if err != nil {
		return err
	}
	return d.Clipboard.Write(clean)
}

// RewriteTail issues `backspaces` backspace keystrokes followed by
// InjectText(insert); a blank insert is a no-op after the backspaces.
func (d *DefaultTextInjector) RewriteTail(backspaces int, insert string) error {
	for i := 0; i < backspaces; i++ {
		if err := d.Backend.Backspace(); err != nil {
			return err
		}
		time.Sleep(backspaceDelay)
	}
	if isBlank(insert) {
		return nil
	}
	return d.InjectText(insert)
}

func isShortASCII(s string) bool {
	if len([]rune(s)) >= DefaultInjectionThreshold {
		return false
	}
	for _, r := range s {
		if r > 127 {
			return false
		}
	}
	return true
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

// PasteChordForOS names the platform paste shortcut, mirroring the
// Cmd+V/Ctrl+V split the keystroke backend needs to know about.
func PasteChordForOS() string {
	if runtime.GOOS == "darwin" {
		return "Cmd+V"
	}
	return "Ctrl+V"
}
