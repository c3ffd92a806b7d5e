package grading

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes text into comparable word tokens: NFKC folding,
// lower-casing, and dropping every rune that is neither a letter, a digit,
// nor whitespace ("don't" becomes "dont"). Whitespace runs separate tokens.
// Empty or blank input yields an empty slice. Tokens are folded again after
// filtering since dropped runes can leave composable runs (Hangul jamo).
func Normalize(text string) []string {
	folded := norm.NFKC.String(text)
	out := make([]string, 0, len(folded)/5+1)
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			out = append(out, norm.NFKC.String(b.String()))
			b.Reset()
		}
	}
	for _, r := range folded {
		switch {
		case unicode.IsSpace(r):
			flush()
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			// punctuation, symbols, marks: removed without substitution
		}
	}
	flush()
	return out
}
