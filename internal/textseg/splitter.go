// Package textseg implements sentence splitting and word-boundary-aware
// tokenization for ingested lesson text.
package textseg

import "strings"

// sentenceTerminals are the punctuation marks that close a sentence.
// Covers full-width and half-width period/exclamation/question/semicolon.
const sentenceTerminals = "。！？!?；;‽"

// SplitSentences splits raw text into trimmed, non-empty sentences at
// terminal punctuation. The terminal mark stays attached to its sentence.
// Trailing text without a terminal becomes a final sentence. O(n), no
// grammar, no backtracking.
func SplitSentences(text string) []string {
	var (
		parts []string
		buf   strings.Builder
	)

	for _, r := range strings.TrimSpace(text) {
		buf.WriteRune(r)
		if strings.ContainsRune(sentenceTerminals, r) {
			if s := strings.TrimSpace(buf.String()); s != "" {
				parts = append(parts, s)
			}
			buf.Reset()
		}
	}

	if tail := strings.TrimSpace(buf.String()); tail != "" {
		parts = append(parts, tail)
	}

	return parts
}
