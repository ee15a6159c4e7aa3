package usecase

import (
	"math"
	"strings"

	"github.com/pncpbot/backend/internal/domain"
)

// MatchDescription matches one item description against the parsed keywords.
// The description matches overall iff the returned list is non-empty (OR
// across keywords).
//
// Per keyword:
//  1. The base term must appear in the normalized description as a substring;
//     failing that, a fuzzy partial-ratio score >= fuzzyThreshold accepts it.
//     A threshold of 100 disables the fallback.
//  2. Qualifiers are partitioned into met/unmet with a standalone-token test.
//  3. A keyword that declares qualifiers but meets none of them is discarded,
//     so a bare base-term hit cannot fire without its qualifying context
//     (e.g. "aparelho com cabo" must not match "cabo [vermelho]").
func MatchDescription(description string, keywords []domain.ParsedKeyword, fuzzyThreshold int) []domain.MatchResult {
	normDesc := Normalize(description)

	var matched []domain.MatchResult
	for _, kw := range keywords {
		baseOK := strings.Contains(normDesc, kw.Term)
		if !baseOK && fuzzyThreshold < 100 {
			baseOK = partialRatio(kw.Term, normDesc) >= fuzzyThreshold
		}
		if !baseOK {
			continue
		}

		var met, unmet []string
		for _, q := range kw.Qualifiers {
			if wordBoundaryMatch(q, normDesc) {
				met = append(met, q)
			} else {
				unmet = append(unmet, q)
			}
		}

		// strict policy: qualifiers declared but none met -> no match
		if len(kw.Qualifiers) > 0 && len(met) == 0 {
			continue
		}

		matched = append(matched, domain.MatchResult{
			Keyword:         kw,
			QualifiersMet:   met,
			QualifiersUnmet: unmet,
		})
	}

	return matched
}

// partialRatio computes a 0-100 best-local-alignment similarity: the term is
// slid over every window of its own length in text, each window scored with a
// normalized Levenshtein ratio, and the best window wins. When text is shorter
// than the term the two strings are compared whole.
func partialRatio(term, text string) int {
	t := []rune(term)
	s := []rune(text)

	if len(t) == 0 || len(s) == 0 {
		return 0
	}
	if len(s) <= len(t) {
		return similarityRatio(t, s)
	}

	best := 0
	for i := 0; i+len(t) <= len(s); i++ {
		if score := similarityRatio(t, s[i:i+len(t)]); score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

// similarityRatio converts an edit distance into a 0-100 similarity score.
func similarityRatio(a, b []rune) int {
	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	if longer == 0 {
		return 100
	}
	dist := levenshteinDistance(a, b)
	return int(math.Round(100 * (1 - float64(dist)/float64(longer))))
}

// levenshteinDistance calculates the edit distance between two rune slices
// using two rows instead of the full matrix.
func levenshteinDistance(r1, r2 []rune) int {
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	m := len(r1)
	n := len(r2)

	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}

// wordBoundaryMatch reports whether term occurs in text as a standalone token,
// bounded by non-alphanumeric characters on both sides.
func wordBoundaryMatch(term, text string) bool {
	if term == "" {
		return false
	}
	for start := 0; ; {
		idx := strings.Index(text[start:], term)
		if idx < 0 {
			return false
		}
		idx += start

		beforeOK := idx == 0 || !isAlnum(text[idx-1])
		end := idx + len(term)
		afterOK := end == len(text) || !isAlnum(text[end])
		if beforeOK && afterOK {
			return true
		}
		start = idx + 1
	}
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
