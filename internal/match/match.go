// Package match normalizes and fuzzily compares free-text guesses against
// canonical answers.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Similarity of a substring relation between the normalized strings. Fixed by
// policy, not computed.
const substringSimilarity = 0.8

var leadingArticles = []string{"the ", "a ", "an "}

// Normalize lowercases, collapses whitespace, applies Unicode compatibility
// decomposition, strips punctuation and a leading English article.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), " ")
	for _, art := range leadingArticles {
		if strings.HasPrefix(s, art) {
			s = strings.TrimPrefix(s, art)
			break
		}
	}
	return strings.TrimSpace(s)
}

// Similarity scores how close a guess is to the answer, in [0,1].
// Identical normalized strings score 1.0, a substring relation scores 0.8,
// anything else falls back to Jaccard similarity over word sets.
func Similarity(guess, answer string) float64 {
	g := Normalize(guess)
	a := Normalize(answer)
	if g == "" || a == "" {
		return 0.0
	}
	if g == a {
		return 1.0
	}
	if strings.Contains(a, g) || strings.Contains(g, a) {
		return substringSimilarity
	}

	gw := tokenSet(g)
	aw := tokenSet(a)
	if len(gw) == 0 || len(aw) == 0 {
		return 0.0
	}
	inter := 0
	for w := range gw {
		if _, ok := aw[w]; ok {
			inter++
		}
	}
	union := len(gw) + len(aw) - inter
	if union == 0 {
		return 0.0
	}
	return float64(inter) / float64(union)
}

// IsMatch reports whether the guess clears the win threshold.
func IsMatch(guess, answer string, threshold float64) bool {
	return Similarity(guess, answer) >= threshold
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}
