package domain

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reWhitespace = regexp.MustCompile(`\s+`)
	reNotSlug    = regexp.MustCompile(`[^a-z0-9-]`)
)

// ClientID derives the document id of a client from its company name:
// accents folded, lowercased, whitespace runs joined with "-", and anything
// outside [a-z0-9-] dropped.
func ClientID(companyName string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, companyName)
	if err != nil {
		folded = companyName
	}
	s := strings.ToLower(folded)
	s = reWhitespace.ReplaceAllString(s, "-")
	return reNotSlug.ReplaceAllString(s, "")
}
