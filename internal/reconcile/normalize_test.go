// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package reconcile

import "testing"

func TestNormalizeTrimsWhitespace(t *testing.T) {
	if got := Normalize("  hello world  ", "eng"); got != "hello world" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeConvertsTraditionalChineseWhenLanguageIsZho(t *testing.T) {
	got := Normalize("國語", "zho")
	if got != "国语" {
		t.Fatalf("expected traditional-to-simplified conversion, got %q", got)
	}
}

func TestNormalizeLeavesTraditionalAloneForOtherLanguages(t *testing.T) {
	got := Normalize("國語", "eng")
	if got != "國語" {
		t.Fatalf("expected no conversion outside zho, got %q", got)
	}
}

func TestAppendTerminalPunctuationAddsPeriod(t *testing.T) {
	if got := AppendTerminalPunctuation("hello world"); got != "hello world." {
		t.Fatalf("got %q", got)
	}
}

func TestAppendTerminalPunctuationSkipsAlreadyTerminated(t *testing.T) {
	if got := AppendTerminalPunctuation("hello world!"); got != "hello world!" {
		t.Fatalf("got %q", got)
	}
}

func TestAppendTerminalPunctuationSkipsThroughClosingWrapper(t *testing.T) {
	if got := AppendTerminalPunctuation("she said \"hi!\""); got != "she said \"hi!\"" {
		t.Fatalf("got %q", got)
	}
}

func TestAppendTerminalPunctuationUsesCJKCommaForCJKText(t *testing.T) {
	if got := AppendTerminalPunctuation("你好世界"); got != "你好世界，" {
		t.Fatalf("got %q", got)
	}
}

func TestAppendTerminalPunctuationBlankInputIsEmpty(t *testing.T) {
	if got := AppendTerminalPunctuation("   "); got != "" {
		t.Fatalf("got %q", got)
	}
}

// S10/S11: clipboard join-boundary spacing.
func TestAppendToPendingClipboardAddsSpaceBetweenPlainWords(t *testing.T) {
	got := AppendToPendingClipboard("hello", "world")
	if got != "hello world" {
		t.Fatalf("got %q", got)
	}
}

func TestAppendToPendingClipboardNoSpaceAfterPunctuation(t *testing.T) {
	got := AppendToPendingClipboard("hello.", "world")
	if got != "hello.world" {
		t.Fatalf("got %q", got)
	}
}

func TestAppendToPendingClipboardNoSpaceAroundCJK(t *testing.T) {
	got := AppendToPendingClipboard("你好", "世界")
	if got != "你好世界" {
		t.Fatalf("got %q", got)
	}
}

func TestAppendToPendingClipboardEmptyExistingReturnsAddition(t *testing.T) {
	if got := AppendToPendingClipboard("", "hello"); got != "hello" {
		t.Fatalf("got %q", got)
	}
}
