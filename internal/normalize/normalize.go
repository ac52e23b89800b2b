package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes free text so search and deduplication behave the
// same across input method variants: NFKC folds full-width/half-width forms
// and combining-mark variants, control characters are stripped, whitespace
// runs collapse to a single space, and ASCII letters are lower-cased. Case
// folding is ASCII-only so non-Latin scripts are left intact.
//
// Normalize is total and idempotent; it never fails and is safe to call
// concurrently.
func Normalize(text string) string {
	folded := norm.NFKC.String(text)

	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, r := range folded {
		switch {
		case unicode.IsSpace(r):
			if b.Len() > 0 {
				pendingSpace = true
			}
		case unicode.IsControl(r):
			// stripped
		default:
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			if r >= 'A' && r <= 'Z' {
				r += 'a' - 'A'
			}
			b.WriteRune(r)
		}
	}

	// stripping a control character can leave a base letter and a combining
	// mark adjacent, so the result must be folded once more to compose them
	return norm.NFKC.String(b.String())
}
