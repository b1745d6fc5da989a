// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package reconcile

import "strings"

// terminalPunctuation are the characters (Latin and CJK) that count as a
// sentence already being terminated.
const terminalPunctuation = ".,!?;:，。！？；：、"

// closingWrappers are skipped when scanning backwards for terminal
// punctuation — a trailing quote or bracket doesn't itself terminate a
// sentence.
const closingWrappers = "\"'”’)]}"

// Normalize trims the text and, for the Chinese language code, rewrites
// traditional characters to simplified.
func Normalize(text string, languageCode string) string {
	trimmed := strings.TrimSpace(text)
	if languageCode == "zho" {
		trimmed = traditionalToSimplified(trimmed)
	}
	return trimmed
}

// AppendTerminalPunctuation appends a period (or a CJK comma, if the text
// contains CJK characters) when the text doesn't already end in terminal
// punctuation. Returns "" for blank input.
func AppendTerminalPunctuation(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	if hasTerminalPunctuation(trimmed) {
		return trimmed
	}
	if containsCJK(trimmed) {
		return trimmed + "，"
	}
	return trimmed + "."
}

func hasTerminalPunctuation(text string) bool {
	runes := []rune(text)
	for i := len(runes) - 1; i >= 0; i-- {
		r := runes[i]
		if strings.ContainsRune(closingWrappers, r) {
			continue
		}
		return strings.ContainsRune(terminalPunctuation, r)
	}
	return false
}

func containsCJK(text string) bool {
	for _, r := range text {
		if isCJK(r) {
			return true
		}
	}
	return false
}

func isCJK(r rune) bool {
	switch {
	case r >= 0x3400 && r <= 0x4DBF:
	case r >= 0x4E00 && r <= 0x9FFF:
	case r >= 0xF900 && r <= 0xFAFF:
	case r >= 0x20000 && r <= 0x2A6DF:
	case r >= 0x2A700 && r <= 0x2B73F:
	case r >= 0x2B740 && r <= 0x2B81F:
	case r >= 0x2B820 && r <= 0x2CEAF:
	case r >= 0x2CEB0 && r <= 0x2EBEF:
	case r >= 0x3000 && r <= 0x303F:
	default:
		return false
	}
	return true
}

// isPunctuationOrCJK reports whether r counts as "not needing a join space"
// on a clipboard-append boundary: terminal punctuation or any CJK rune.
func isPunctuationOrCJK(r rune) bool {
	return strings.ContainsRune(terminalPunctuation, r) || isCJK(r)
}

// traditionalToSimplified rewrites a small, hand-curated set of commonly
// dictated traditional Chinese characters to their simplified form. This is
// not an exhaustive OpenCC-class conversion table — no such library is
// available in this module's dependency surface — but covers the
// characters this component is expected to see in everyday dictation.
var traditionalToSimplifiedTable = map[rune]rune{
	'後': '后', '臺': '台', '開': '开', '發': '发', '國': '国', '學': '学',
	'說': '说', '這': '这', '們': '们', '來': '来', '個': '个', '會': '会',
	'對': '对', '時': '时', '實': '实', '現': '现', '為': '为', '與': '与',
	'從': '从', '還': '还', '長': '长', '點': '点', '見': '见', '樣': '样',
	'應': '应', '經': '经', '義': '义', '識': '识', '種': '种', '業': '业',
	'語': '语', '體': '体', '萬': '万', '員': '员', '聽': '听', '寫': '写',
	'讀': '读', '買': '买', '賣': '卖', '車': '车', '門': '门', '問': '问',
	'電': '电', '話': '话', '號': '号', '網': '网', '頁': '页', '內': '内',
	'動': '动', '務': '务', '處': '处', '術': '术', '數': '数', '總': '总',
}

func traditionalToSimplified(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if mapped, ok := traditionalToSimplifiedTable[r]; ok {
			b.WriteRune(mapped)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// AppendToPendingClipboard joins existing + addition with the clipboard
// join-boundary spacing rule: no space if either neighbouring rune is
// punctuation or CJK, otherwise a single space.
func AppendToPendingClipboard(existing, addition string) string {
	if existing == "" {
		return addition
	}
	if addition == "" {
		return existing
	}
	existingRunes := []rune(existing)
	additionRunes := []rune(addition)
	last := existingRunes[len(existingRunes)-1]
	first := additionRunes[0]
	if isPunctuationOrCJK(last) || isPunctuationOrCJK(first) {
		return existing + addition
	}
	return existing + " " + addition
}
