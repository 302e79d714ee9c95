// Package matching pairs payments read from payment proofs with the coupons
// expected for a tranche.
package matching

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	honorificPattern = regexp.MustCompile(`\b(?:mme|mlle|mrs|mr|ms|dr|prof|m)\b\.?`)
	suffixPattern    = regexp.MustCompile(`\b(?:sarl|sas|sa|eurl|sci|scop|gie|snc|sca|sem)\b`)
)

// NormalizeName returns the comparable form of a person or company name:
// lowercase, without accents, honorifics or legal-form suffixes, single-spaced.
func NormalizeName(raw string) string {
	if raw == "" {
		return ""
	}

	name := stripAccents(strings.ToLower(raw))
	name = honorificPattern.ReplaceAllString(name, " ")
	name = suffixPattern.ReplaceAllString(name, " ")

	return strings.Join(strings.Fields(name), " ")
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
