// Package fuzzy finds the best-matching known title for a free-text
// query using approximate string matching. Scores are on a 0–100 scale;
// matches below a minimum-confidence threshold are rejected so weak
// guesses never masquerade as title hits.
package fuzzy

import (
	"math"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"bookrec/internal/recommend/textnorm"
)

// DefaultThreshold is the minimum 0–100 score a candidate must reach to
// count as a title match. Policy constant; best scores strictly below it
// produce a no-match result.
const DefaultThreshold = 60

// Match describes the winning candidate of a BestMatch scan.
type Match struct {
	// Title is the matched candidate title in normalized form.
	Title string
	// Score is the 0–100 match confidence.
	Score int
	// Index is the first corpus row whose normalized title equals Title.
	Index int
}

// Matcher scores queries against candidate titles. The zero value is not
// usable; construct with NewMatcher.
type Matcher struct {
	threshold int
}

// NewMatcher creates a matcher with the given minimum-confidence
// threshold. Non-positive thresholds fall back to DefaultThreshold.
func NewMatcher(threshold int) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Matcher{threshold: threshold}
}

// BestMatch scores query against every candidate title and returns the
// single highest-scoring one. Query and candidates are normalized with
// trim + lowercase only; punctuation is kept, unlike corpus text
// normalization. Returns false when the best score is strictly below the
// threshold. Ties and duplicate titles resolve to the first corpus
// occurrence. The scan is O(N) string comparisons.
func (m *Matcher) BestMatch(query string, titles []string) (Match, bool) {
	q := textnorm.NormalizeTitle(query)
	if q == "" || len(titles) == 0 {
		return Match{}, false
	}

	best := Match{Index: -1, Score: -1}
	for i, title := range titles {
		candidate := textnorm.NormalizeTitle(title)
		score := Score(q, candidate)
		if score > best.Score {
			best = Match{Title: candidate, Score: score, Index: i}
		}
	}

	if best.Score < m.threshold {
		return Match{}, false
	}

	// Duplicate titles resolve to the first row carrying the matched string.
	for i, title := range titles {
		if textnorm.NormalizeTitle(title) == best.Title {
			best.Index = i
			break
		}
	}
	return best, true
}

// Score computes a 0–100 similarity between two already-normalized
// strings as the better of a plain edit-distance ratio and a token-sort
// ratio. The token-sort pass makes the score robust to word order
// ("herbert dune" vs "dune herbert").
func Score(a, b string) int {
	plain := ratio(a, b)
	sorted := ratio(sortTokens(a), sortTokens(b))
	if sorted > plain {
		return sorted
	}
	return plain
}

// ratio is the normalized Levenshtein similarity on a 0–100 scale.
func ratio(a, b string) int {
	if a == b {
		return 100
	}
	longest := len([]rune(a))
	if lb := len([]rune(b)); lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(dist)/float64(longest))))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
