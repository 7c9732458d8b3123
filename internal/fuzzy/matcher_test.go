package fuzzy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"abcd", "bcde", 0.75},
		{"appel", "apple", 0.8},
		{"appel", "ape", 0.75},
		{"giờ làm việc", "giờ làm việc là gì", 0.8},
		{"", "", 1},
		{"abc", "", 0},
		{"abc", "xyz", 0},
		{"same", "same", 1},
	}

	for _, tc := range tests {
		t.Run(tc.a+"|"+tc.b, func(t *testing.T) {
			assert.InDelta(t, tc.want, SequenceRatio([]rune(tc.a), []rune(tc.b)), 1e-9)
		})
	}
}

func TestQuickRatiosBoundSequenceRatio(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 0; n < 500; n++ {
		a := []rune(randomWord(rng))
		b := []rune(randomWord(rng))
		exact := SequenceRatio(a, b)
		assert.GreaterOrEqual(t, quickRatio(a, b)+1e-12, exact)
		assert.GreaterOrEqual(t, realQuickRatio(a, b)+1e-12, quickRatio(a, b))
	}
}

func TestMatcher_Match(t *testing.T) {
	m, err := NewMatcher(AlgorithmSequence)
	require.NoError(t, err)

	tests := []struct {
		name       string
		query      string
		candidates []string
		want       string
		found      bool
	}{
		{"closest wins", "appel", []string{"ape", "apple", "peach", "puppy"}, "apple", true},
		{"case and spacing ignored", "  GIỜ LÀM VIỆC là gì ", []string{"giờ làm việc"}, "giờ làm việc", true},
		{"tie goes to earliest", "abc", []string{"abcx", "abcy"}, "abcx", true},
		{"nothing above threshold", "wxyz", []string{"ape", "apple"}, "", false},
		{"empty candidates", "apple", nil, "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := m.Match(tc.query, tc.candidates, DefaultThreshold)
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMatcher_MatchIndexReturnsFirstDuplicate(t *testing.T) {
	m, _ := NewMatcher("")
	idx, score, ok := m.MatchIndex("giờ làm việc", []string{"khác hẳn", "giờ làm việc", "giờ làm việc"}, 0.6)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestMatcher_NeverReturnsBelowThreshold(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, alg := range []Algorithm{AlgorithmSequence, AlgorithmLevenshtein} {
		m, err := NewMatcher(alg)
		require.NoError(t, err)

		for n := 0; n < 300; n++ {
			query := randomWord(rng)
			candidates := make([]string, rng.Intn(6))
			for i := range candidates {
				candidates[i] = randomWord(rng)
			}
			threshold := 0.3 + rng.Float64()*0.6

			idx, score, ok := m.MatchIndex(query, candidates, threshold)
			if !ok {
				for _, c := range candidates {
					assert.Less(t, m.Ratio(query, c), threshold, "%s: %q vs %q", alg, query, c)
				}
				continue
			}

			assert.GreaterOrEqual(t, score, threshold)
			assert.InDelta(t, m.Ratio(query, candidates[idx]), score, 1e-12)
			for i, c := range candidates {
				r := m.Ratio(query, c)
				if i < idx {
					assert.Less(t, r, score, "earlier candidate must score strictly lower")
				} else {
					assert.LessOrEqual(t, r, score)
				}
			}
		}
	}
}

func TestMatcher_Deterministic(t *testing.T) {
	m, _ := NewMatcher(AlgorithmSequence)
	candidates := []string{"lãnh đạo xã định hóa", "giờ làm việc", "TBA trên đường dây 471E6.22"}
	snapshot := append([]string(nil), candidates...)

	first, ok1 := m.Match("giờ làm việc là gì", candidates, 0.6)
	for i := 0; i < 10; i++ {
		again, ok := m.Match("giờ làm việc là gì", candidates, 0.6)
		assert.Equal(t, first, again)
		assert.Equal(t, ok1, ok)
	}
	assert.Equal(t, snapshot, candidates, "candidates must not be mutated")
}

func TestLevenshteinRatio(t *testing.T) {
	m, err := NewMatcher(AlgorithmLevenshtein)
	require.NoError(t, err)
	assert.Equal(t, AlgorithmLevenshtein, m.Algorithm())

	assert.InDelta(t, 1-3.0/7.0, m.Ratio("kitten", "sitting"), 1e-9)
	assert.InDelta(t, 1.0, m.Ratio("Định Hóa", "định hóa"), 1e-9)
	assert.InDelta(t, 1.0, m.Ratio("", ""), 1e-9)
}

func TestNewMatcher_Unknown(t *testing.T) {
	_, err := NewMatcher("soundex")
	require.Error(t, err)
}

func TestPackageMatch(t *testing.T) {
	got, ok := Match("appel", []string{"ape", "apple"}, DefaultThreshold)
	require.True(t, ok)
	assert.Equal(t, "apple", got)
}

func randomWord(rng *rand.Rand) string {
	alphabet := []rune("abcdeđờệ ")
	n := rng.Intn(9)
	out := make([]rune, n)
	for i := range out {
		out[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(out)
}
