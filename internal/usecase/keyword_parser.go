package usecase

import (
	"regexp"
	"strings"

	"github.com/pncpbot/backend/internal/domain"
)

// Package-level compiled regex patterns for keyword parsing
var (
	qualifierGroupRegex = regexp.MustCompile(`\[([^\]]+)\]`)
	bracketGroupRegex   = regexp.MustCompile(`\[[^\]]*\]`)
)

// ParseKeywords parses a comma-separated keyword string with optional
// bracketed qualifiers into structured keywords.
//
//	"cabo [vermelho], tomada [20a]"  ->  cabo [vermelho] | tomada [20a]
//	"cabo [vermelho, grosso]"        ->  cabo [vermelho] [grosso]
//	"cabo, tomada"                   ->  cabo | tomada
//
// Commas inside brackets never split top-level keywords. A segment whose base
// term normalizes to empty is dropped entirely, qualifiers included. Keyword
// and qualifier order is preserved; duplicates are kept.
func ParseKeywords(raw string) []domain.ParsedKeyword {
	var keywords []domain.ParsedKeyword

	for _, part := range splitOutsideBrackets(raw) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		var qualifiers []string
		for _, group := range qualifierGroupRegex.FindAllStringSubmatch(part, -1) {
			for _, q := range strings.Split(group[1], ",") {
				if q = Normalize(q); q != "" {
					qualifiers = append(qualifiers, q)
				}
			}
		}

		// base term = everything outside brackets
		base := Normalize(bracketGroupRegex.ReplaceAllString(part, ""))
		if base == "" {
			continue
		}

		keywords = append(keywords, domain.ParsedKeyword{
			Term:       base,
			Qualifiers: qualifiers,
		})
	}

	return keywords
}

// splitOutsideBrackets splits s on commas that are not enclosed in a bracket
// pair. RE2 has no lookahead, so this is a plain depth scan.
func splitOutsideBrackets(s string) []string {
	var parts []string
	var buf strings.Builder
	depth := 0

	for _, r := range s {
		switch r {
		case '[':
			depth++
			buf.WriteRune(r)
		case ']':
			if depth > 0 {
				depth--
			}
			buf.WriteRune(r)
		case ',':
			if depth == 0 {
				parts = append(parts, buf.String())
				buf.Reset()
			} else {
				buf.WriteRune(r)
			}
		default:
			buf.WriteRune(r)
		}
	}
	parts = append(parts, buf.String())

	return parts
}
