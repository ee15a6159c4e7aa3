package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pncpbot/backend/internal/domain"
)

func TestParseKeywords(t *testing.T) {
	t.Run("two keywords with one qualifier each", func(t *testing.T) {
		parsed := ParseKeywords("cabo [vermelho], tomada [20a]")

		require.Len(t, parsed, 2)
		assert.Equal(t, domain.ParsedKeyword{Term: "cabo", Qualifiers: []string{"vermelho"}}, parsed[0])
		assert.Equal(t, domain.ParsedKeyword{Term: "tomada", Qualifiers: []string{"20a"}}, parsed[1])
	})

	t.Run("comma inside brackets does not split keywords", func(t *testing.T) {
		parsed := ParseKeywords("cabo [vermelho, grosso]")

		require.Len(t, parsed, 1)
		assert.Equal(t, "cabo", parsed[0].Term)
		assert.Equal(t, []string{"vermelho", "grosso"}, parsed[0].Qualifiers)
	})

	t.Run("multiple bracket groups on one keyword", func(t *testing.T) {
		parsed := ParseKeywords("cabo [vermelho] [grosso]")

		require.Len(t, parsed, 1)
		assert.Equal(t, "cabo", parsed[0].Term)
		assert.Equal(t, []string{"vermelho", "grosso"}, parsed[0].Qualifiers)
	})

	t.Run("keywords without qualifiers", func(t *testing.T) {
		parsed := ParseKeywords("cabo, tomada")

		require.Len(t, parsed, 2)
		assert.Equal(t, "cabo", parsed[0].Term)
		assert.Empty(t, parsed[0].Qualifiers)
		assert.Equal(t, "tomada", parsed[1].Term)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, ParseKeywords(""))
	})

	t.Run("segment with empty base term is dropped with its qualifiers", func(t *testing.T) {
		parsed := ParseKeywords("[vermelho], tomada")

		require.Len(t, parsed, 1)
		assert.Equal(t, "tomada", parsed[0].Term)
	})

	t.Run("terms and qualifiers are normalized", func(t *testing.T) {
		parsed := ParseKeywords("CABO  Elétrico [Vermelho Têxtil]")

		require.Len(t, parsed, 1)
		assert.Equal(t, "cabo eletrico", parsed[0].Term)
		assert.Equal(t, []string{"vermelho textil"}, parsed[0].Qualifiers)
	})

	t.Run("order and duplicates are preserved", func(t *testing.T) {
		parsed := ParseKeywords("cabo, tomada, cabo")

		require.Len(t, parsed, 3)
		assert.Equal(t, "cabo", parsed[0].Term)
		assert.Equal(t, "tomada", parsed[1].Term)
		assert.Equal(t, "cabo", parsed[2].Term)
	})

	t.Run("blank segments contribute nothing", func(t *testing.T) {
		parsed := ParseKeywords("cabo, , tomada,")

		require.Len(t, parsed, 2)
	})
}

func TestSplitOutsideBrackets(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"a, b", []string{"a", " b"}},
		{"a [x, y], b", []string{"a [x, y]", " b"}},
		{"a", []string{"a"}},
		{"", []string{""}},
		{"a [x], b [y, z]", []string{"a [x]", " b [y, z]"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, splitOutsideBrackets(tt.input), "input: %q", tt.input)
	}
}
