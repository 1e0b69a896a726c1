package housing

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText trims surrounding space and applies NFKC so that
// full-width digits and compatibility forms compare equal to their plain forms.
func NormalizeText(s string) string {
	return norm.NFKC.String(strings.TrimSpace(s))
}

// FoldKey returns the normalized, case-folded form of s used for
// case-insensitive uniqueness and substring search.
func FoldKey(s string) string {
	// a Caser keeps state, so each call gets its own
	return cases.Fold().String(NormalizeText(s))
}
