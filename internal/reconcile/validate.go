// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package reconcile

import (
	"errors"
	"strings"
	"unicode"
)

const MaxTranscriptLength = 10000

var (
	ErrTranscriptTooLong       = errors.New("text exceeds maximum transcript length")
	ErrTranscriptMaliciousContent = errors.New("text contains suspicious shell-like tokens")
)

var dangerousPatterns = []string{"$(", "`", ";", "&&", "||", "|", ">", "<"}

// ValidateTranscript is the shared text-validation contract consumed by the
// commit resolver and the injection worker: reject overlong text, strip
// non-whitespace control characters, and reject shell metacharacters.
func ValidateTranscript(text string) (string, error) {
	if len([]rune(text)) > MaxTranscriptLength {
		return "", ErrTranscriptTooLong
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if !unicode.IsControl(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	if containsMaliciousPattern(cleaned) {
		return "", ErrTranscriptMaliciousContent
	}
	return cleaned, nil
}

func containsMaliciousPattern(text string) bool {
	for _, pattern := range dangerousPatterns {
		if strings.Contains(text, pattern) {
			return true
		}
	}
	return false
}
