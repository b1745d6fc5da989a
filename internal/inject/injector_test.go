// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package inject

import "testing"

type recordingBackend struct {
	typed      []rune
	backspaces int
	pastes     int
}

func (b *recordingBackend) TypeChar(r rune) error {
	b.typed = append(b.typed, r)
	return nil
}

func (b *recordingBackend) Backspace() error {
	b.backspaces++
	return nil
}

func (b *recordingBackend) Paste() error {
	b.pastes++
	return nil
}

func TestInjectTextShortASCIITypesCharacterByCharacter(t *testing.T) {
	backend := &recordingBackend{}
	clipboard := &InMemoryClipboard{}
	injector := NewDefaultTextInjector(backend, clipboard)

	if err := injector.InjectText("hi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(backend.typed) != 2 {
		t.Fatalf("expected 2 typed characters, got %d", len(backend.typed))
	}
	if backend.pastes != 0 {
		t.Fatalf("expected no paste for short ASCII text, got %d", backend.pastes)
	}
	if clipboard.Text != "hi" {
		t.Fatalf("expected clipboard mirrored with final text, got %q", clipboard.Text)
	}
}

func TestInjectTextLongTextPastesViaClipboard(t *testing.T) {
	backend := &recordingBackend{}
	clipboard := &InMemoryClipboard{}
	injector := NewDefaultTextInjector(backend, clipboard)

	long := "this sentence is long enough to exceed the typing threshold"
	if err := injector.InjectText(long); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(backend.typed) != 0 {
		t.Fatalf("expected no per-character typing for long text, got %d chars", len(backend.typed))
	}
	if backend.pastes != 1 {
		t.Fatalf("expected exactly one paste, got %d", backend.pastes)
	}
	if clipboard.Text != long {
		t.Fatalf("expected clipboard holding the injected text, got %q", clipboard.Text)
	}
}

func TestInjectTextNonASCIIAlwaysPastes(t *testing.T) {
	backend := &recordingBackend{}
	clipboard := &InMemoryClipboard{}
	injector := NewDefaultTextInjector(backend, clipboard)

	if err := injector.InjectText("你好"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(backend.typed) != 0 {
		t.Fatalf("expected clipboard paste path for non-ASCII text, got %d typed chars", len(backend.typed))
	}
	if backend.pastes != 1 {
		t.Fatalf("expected exactly one paste, got %d", backend.pastes)
	}
}

func TestRewriteTailIssuesBackspacesThenInserts(t *testing.T) {
	backend := &recordingBackend{}
	clipboard := &InMemoryClipboard{}
	injector := NewDefaultTextInjector(backend, clipboard)

	if err := injector.RewriteTail(3, "abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.backspaces != 3 {
		t.Fatalf("expected 3 backspaces, got %d", backend.backspaces)
	}
	if len(backend.typed) != 3 {
		t.Fatalf("expected the insert typed back, got %d chars", len(backend.typed))
	}
}

func TestRewriteTailBlankInsertIsNoOpAfterBackspaces(t *testing.T) {
	backend := &recordingBackend{}
	clipboard := &InMemoryClipboard{}
	injector := NewDefaultTextInjector(backend, clipboard)

	if err := injector.RewriteTail(2, "  "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.backspaces != 2 {
		t.Fatalf("expected 2 backspaces, got %d", backend.backspaces)
	}
	if len(backend.typed) != 0 {
		t.Fatalf("expected no typing for a blank insert, got %d", len(backend.typed))
	}
}

func TestWriteClipboardOnlyDoesNotTouchKeystrokeBackend(t *testing.T) {
	backend := &recordingBackend{}
	clipboard := &InMemoryClipboard{}
	injector := NewDefaultTextInjector(backend, clipboard)

	if err := injector.WriteClipboardOnly("hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(backend.typed) != 0 || backend.pastes != 0 {
		t.Fatal("expected no keystroke activity from WriteClipboardOnly")
	}
	if clipboard.Text != "hello" {
		t.Fatalf("expected clipboard set, got %q", clipboard.Text)
	}
}
