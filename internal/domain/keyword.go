package domain

import (
	"fmt"
	"strings"
)

// ParsedKeyword is one search keyword with its optional qualifiers,
// e.g. "cabo [vermelho]" has term "cabo" and qualifier "vermelho".
// Term and qualifiers are stored normalized.
type ParsedKeyword struct {
	Term       string
	Qualifiers []string
}

// String renders the keyword back in its bracketed input form.
func (k ParsedKeyword) String() string {
	if len(k.Qualifiers) == 0 {
		return k.Term
	}
	parts := make([]string, 0, len(k.Qualifiers)+1)
	parts = append(parts, k.Term)
	for _, q := range k.Qualifiers {
		parts = append(parts, fmt.Sprintf("[%s]", q))
	}
	return strings.Join(parts, " ")
}

// MatchResult records how one keyword matched an item description,
// partitioning its qualifiers into met and unmet.
type MatchResult struct {
	Keyword         ParsedKeyword
	QualifiersMet   []string
	QualifiersUnmet []string
}

// IsExact reports whether all qualifiers were met (trivially true without qualifiers).
func (m MatchResult) IsExact() bool {
	if len(m.Keyword.Qualifiers) == 0 {
		return true
	}
	return len(m.QualifiersUnmet) == 0
}

// IsCompound reports whether at least one qualifier matched but not all.
func (m MatchResult) IsCompound() bool {
	if len(m.Keyword.Qualifiers) == 0 {
		return false
	}
	return len(m.QualifiersMet) > 0 && len(m.QualifiersUnmet) > 0
}
