// Package fuzzy picks the closest string from a candidate list under a
// similarity threshold.
package fuzzy

import (
	"fmt"
	"unicode/utf8"

	fuzzysearch "github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/spherical-ai/hoidap/internal/textnorm"
)

// Algorithm names a similarity metric.
type Algorithm string

const (
	// AlgorithmSequence scores 2*M/T where M is the total size of the
	// longest matching blocks.
	AlgorithmSequence Algorithm = "sequence"
	// AlgorithmLevenshtein scores 1 - distance/max(len).
	AlgorithmLevenshtein Algorithm = "levenshtein"
)

// DefaultThreshold is the acceptance cutoff used throughout hoidap.
const DefaultThreshold = 0.6

// Matcher scores candidates against a query. It holds no mutable state and
// is safe for concurrent use.
type Matcher struct {
	algorithm Algorithm
}

// NewMatcher creates a matcher for the named algorithm. An empty name
// selects AlgorithmSequence.
func NewMatcher(algorithm Algorithm) (*Matcher, error) {
	switch algorithm {
	case "":
		algorithm = AlgorithmSequence
	case AlgorithmSequence, AlgorithmLevenshtein:
	default:
		return nil, fmt.Errorf("unknown similarity algorithm %q", algorithm)
	}
	return &Matcher{algorithm: algorithm}, nil
}

// Algorithm returns the metric in use.
func (m *Matcher) Algorithm() Algorithm {
	return m.algorithm
}

// Ratio returns the similarity of a and b in [0,1] after normalization.
func (m *Matcher) Ratio(a, b string) float64 {
	return m.ratio(textnorm.Fold(a), textnorm.Fold(b))
}

func (m *Matcher) ratio(a, b string) float64 {
	if m.algorithm == AlgorithmLevenshtein {
		return levenshteinRatio(a, b)
	}
	return SequenceRatio([]rune(a), []rune(b))
}

// Match returns the candidate most similar to query whose score is at least
// threshold. Ties go to the earliest candidate.
func (m *Matcher) Match(query string, candidates []string, threshold float64) (string, bool) {
	idx, _, ok := m.MatchIndex(query, candidates, threshold)
	if !ok {
		return "", false
	}
	return candidates[idx], true
}

// MatchIndex is Match returning the winning position and its score.
func (m *Matcher) MatchIndex(query string, candidates []string, threshold float64) (int, float64, bool) {
	q := textnorm.Fold(query)
	qr := []rune(q)

	best, bestScore := -1, 0.0
	for i, c := range candidates {
		cf := textnorm.Fold(c)

		if m.algorithm == AlgorithmSequence {
			cr := []rune(cf)
			// Upper bounds first; they can only reject candidates that
			// would fail the threshold anyway.
			if realQuickRatio(qr, cr) < threshold || quickRatio(qr, cr) < threshold {
				continue
			}
		}

		score := m.ratio(q, cf)
		if score >= threshold && (best < 0 || score > bestScore) {
			best, bestScore = i, score
		}
	}

	if best < 0 {
		return -1, 0, false
	}
	return best, bestScore, true
}

// Match runs the default sequence matcher.
func Match(query string, candidates []string, threshold float64) (string, bool) {
	return defaultMatcher.Match(query, candidates, threshold)
}

var defaultMatcher = &Matcher{algorithm: AlgorithmSequence}

// SequenceRatio computes 2*M/T over the matching blocks of a and b.
// Two empty inputs are identical.
func SequenceRatio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchingSize(a, b)) / float64(total)
}

// matchingSize sums the sizes of the matching blocks found by repeatedly
// taking the longest common run and recursing on both sides of it.
func matchingSize(a, b []rune) int {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	total := 0
	queue := [][4]int{{0, len(a), 0, len(b)}}
	for len(queue) > 0 {
		q := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		alo, ahi, blo, bhi := q[0], q[1], q[2], q[3]

		i, j, k := longestMatch(a, b2j, alo, ahi, blo, bhi)
		if k == 0 {
			continue
		}
		total += k
		if alo < i && blo < j {
			queue = append(queue, [4]int{alo, i, blo, j})
		}
		if i+k < ahi && j+k < bhi {
			queue = append(queue, [4]int{i + k, ahi, j + k, bhi})
		}
	}
	return total
}

// longestMatch finds the longest block a[i:i+k] == b[j:j+k] inside the given
// bounds. Among equal lengths it returns the one starting earliest in a,
// then earliest in b.
func longestMatch(a []rune, b2j map[rune][]int, alo, ahi, blo, bhi int) (int, int, int) {
	besti, bestj, bestk := alo, blo, 0
	j2len := map[int]int{}
	for i := alo; i < ahi; i++ {
		next := map[int]int{}
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestk {
				besti, bestj, bestk = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return besti, bestj, bestk
}

// quickRatio bounds SequenceRatio from above using multiset intersection.
func quickRatio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}
	avail := make(map[rune]int, len(b))
	for _, r := range b {
		avail[r]++
	}
	matches := 0
	for _, r := range a {
		if avail[r] > 0 {
			avail[r]--
			matches++
		}
	}
	return 2 * float64(matches) / float64(total)
}

// realQuickRatio bounds SequenceRatio from above using lengths alone.
func realQuickRatio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}
	return 2 * float64(min(len(a), len(b))) / float64(total)
}

func levenshteinRatio(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(fuzzysearch.LevenshteinDistance(a, b))/float64(longest)
}
