package search

import (
	"regexp"
	"strings"
)

// Typo tolerance scales with term length the way a searcher's tolerance
// does: short terms must match exactly, mid-length terms forgive one wrong
// character, long terms forgive two.
func editBudget(runeLen int) int {
	switch {
	case runeLen < 4:
		return 0
	case runeLen < 8:
		return 1
	default:
		return 2
	}
}

// termPattern builds a case-insensitive substring pattern for one query
// term. Typos are modeled as character substitutions: each allowed edit
// replaces one position with '.', and the alternation covers every position
// choice. A dotted position still matches the original character, so the
// looser variants subsume the exact form.
func termPattern(term string) string {
	runes := []rune(term)
	switch editBudget(len(runes)) {
	case 0:
		return regexp.QuoteMeta(term)
	case 1:
		return strings.Join(oneDotVariants(runes), "|")
	default:
		return strings.Join(twoDotVariants(runes), "|")
	}
}

func oneDotVariants(runes []rune) []string {
	out := make([]string, 0, len(runes))
	for i := range runes {
		out = append(out, dotted(runes, i, -1))
	}
	return out
}

func twoDotVariants(runes []rune) []string {
	var out []string
	for i := 0; i < len(runes); i++ {
		for j := i + 1; j < len(runes); j++ {
			out = append(out, dotted(runes, i, j))
		}
	}
	return out
}

// dotted renders runes with positions i (and j, when >= 0) replaced by '.',
// quoting everything else.
func dotted(runes []rune, i, j int) string {
	var b strings.Builder
	for k, r := range runes {
		if k == i || k == j {
			b.WriteByte('.')
			continue
		}
		b.WriteString(regexp.QuoteMeta(string(r)))
	}
	return b.String()
}

// queryTerms splits a free-text query into scoring terms.
func queryTerms(q string) []string {
	return strings.Fields(strings.TrimSpace(q))
}
