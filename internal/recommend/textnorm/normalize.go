// Package textnorm prepares raw book text for vectorization and title matching.
// It provides the two normalization forms used by the recommendation engine:
// full normalization for corpus text and light normalization for titles.
package textnorm

import (
	"strings"
	"unicode"
)

// MaxTextLength is the maximum number of characters of book text kept
// for vectorization. Longer descriptions are truncated before any other
// processing, matching the ingestion contract of the corpus.
const MaxTextLength = 1000

// Normalize prepares raw text for vectorization: truncate to
// MaxTextLength runes, lowercase, and strip punctuation (everything that
// is not a letter, digit, underscore, or whitespace). Empty or missing
// input yields an empty string.
//
// Normalize is a pure function and must be applied identically to every
// corpus text at build time. It is intentionally NOT applied to queries
// in the title-matching path, which uses NormalizeTitle instead.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	truncated := Truncate(raw, MaxTextLength)

	var b strings.Builder
	b.Grow(len(truncated))
	for _, r := range strings.ToLower(truncated) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeTitle prepares a title or title query for fuzzy matching:
// trim surrounding whitespace and lowercase. Punctuation is preserved,
// unlike Normalize.
func NormalizeTitle(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Truncate returns at most max runes of s without splitting a UTF-8 rune.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}
