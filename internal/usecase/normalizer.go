package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes and drops combining marks, so "ação" becomes "acao".
var stripAccents = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Normalize lowercases text, strips accents and collapses whitespace runs
// to a single space. Pure and idempotent; used on keywords, qualifiers and
// item descriptions so that all matching happens in one canonical form.
func Normalize(text string) string {
	text = strings.ToLower(text)
	if stripped, _, err := transform.String(stripAccents, text); err == nil {
		text = stripped
	}
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
