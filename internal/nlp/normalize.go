// Package nlp implements the text-understanding primitives of the enrollment
// assistant: canonical normalization, keyword intent classification, roster
// entity resolution and contact-data extraction. Everything here is
// deterministic keyword/regex matching - no model calls, no state.
package nlp

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and removes combining diacritical marks,
// so "matrícula" and "matricula" normalize identically.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize folds text to the canonical comparable form: lower-case, no
// diacritics, and only [a-z0-9 ] characters. Whitespace runs are kept as-is;
// callers tokenize with strings.Fields. Total and idempotent - empty input
// yields empty output.
func Normalize(text string) string {
	lower := strings.ToLower(text)

	folded, _, err := transform.String(stripMarks, lower)
	if err != nil {
		folded = lower
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		}
	}
	return b.String()
}
