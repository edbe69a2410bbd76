package vectorizer

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var corpus = []string{
	"dragon fire dragon",
	"dragon castle",
	"wizard castle",
}

func TestFit_BuildsAlphabeticalVocabulary(t *testing.T) {
	v, err := Fit(corpus, Config{})
	require.NoError(t, err)

	assert.Equal(t, []string{"castle", "dragon", "fire", "wizard"}, v.Vocabulary())
	assert.Equal(t, 4, v.NumFeatures())
}

func TestFit_EmptyCorpus(t *testing.T) {
	_, err := Fit(nil, Config{})
	assert.ErrorIs(t, err, ErrEmptyVocabulary)

	_, err = Fit([]string{}, Config{})
	assert.ErrorIs(t, err, ErrEmptyVocabulary)
}

func TestFit_StopWordsOnlyCorpus(t *testing.T) {
	_, err := Fit([]string{"the and of", "the and"}, Config{FilterStopWords: true})
	assert.ErrorIs(t, err, ErrEmptyVocabulary)
}

func TestFit_MinDocFreqPrunesRareTerms(t *testing.T) {
	v, err := Fit(corpus, Config{MinDocFreq: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{"castle", "dragon"}, v.Vocabulary())
}

func TestFit_MaxDocFreqRatioPrunesUbiquitousTerms(t *testing.T) {
	texts := []string{
		"common dragon",
		"common castle",
		"common wizard",
		"common dragon castle",
	}
	// "common" appears in 100% of documents and is pruned at 0.95.
	v, err := Fit(texts, Config{MaxDocFreqRatio: 0.95})
	require.NoError(t, err)

	assert.NotContains(t, v.Vocabulary(), "common")
	assert.Contains(t, v.Vocabulary(), "dragon")
}

func TestFit_MaxFeaturesKeepsMostFrequentTerms(t *testing.T) {
	// Total frequencies: dragon=3, castle=2, fire=1, wizard=1.
	v, err := Fit(corpus, Config{MaxFeatures: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{"castle", "dragon"}, v.Vocabulary())
}

func TestFit_Bigrams(t *testing.T) {
	v, err := Fit([]string{"dark tower rises", "dark tower falls"}, Config{UseBigrams: true})
	require.NoError(t, err)

	assert.Contains(t, v.Vocabulary(), "dark tower")
	assert.Contains(t, v.Vocabulary(), "tower rises")
	assert.Contains(t, v.Vocabulary(), "dark")
}

func TestTransform_L2Normalized(t *testing.T) {
	v, err := Fit(corpus, Config{})
	require.NoError(t, err)

	vec := v.Transform("dragon fire dragon")
	require.Len(t, vec, v.NumFeatures())

	var sumSq float64
	for _, x := range vec {
		sumSq += x * x
	}
	assert.InDelta(t, 1.0, sumSq, 1e-12)
}

func TestTransform_UnknownTermsYieldZeroVector(t *testing.T) {
	v, err := Fit(corpus, Config{})
	require.NoError(t, err)

	vec := v.Transform("spaceship laser")
	for i, x := range vec {
		assert.Zerof(t, x, "dimension %d", i)
	}
}

func TestTransform_AdHocQueryOutsideCorpus(t *testing.T) {
	v, err := Fit(corpus, Config{})
	require.NoError(t, err)

	// Query mixing known and unknown terms projects onto the known dimensions.
	vec := v.Transform("dragon spaceship")
	dragonIdx := indexOf(t, v.Vocabulary(), "dragon")
	assert.InDelta(t, 1.0, vec[dragonIdx], 1e-12)
}

func TestFit_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	v1, err := Fit(corpus, cfg)
	require.NoError(t, err)
	v2, err := Fit(corpus, cfg)
	require.NoError(t, err)

	if diff := cmp.Diff(v1.Vocabulary(), v2.Vocabulary()); diff != "" {
		t.Errorf("vocabulary mismatch (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(v1.Transform("dragon castle"), v2.Transform("dragon castle")); diff != "" {
		t.Errorf("vector mismatch (-first +second):\n%s", diff)
	}
}

func TestTransform_RarerTermsWeighMore(t *testing.T) {
	v, err := Fit(corpus, Config{})
	require.NoError(t, err)

	// "fire" (df=1) must outweigh "dragon" (df=2) at equal term frequency.
	vec := v.Transform("dragon fire")
	dragonIdx := indexOf(t, v.Vocabulary(), "dragon")
	fireIdx := indexOf(t, v.Vocabulary(), "fire")
	assert.Greater(t, vec[fireIdx], vec[dragonIdx])
	assert.False(t, math.IsNaN(vec[fireIdx]))
}

func indexOf(t *testing.T, terms []string, term string) int {
	t.Helper()
	for i, s := range terms {
		if s == term {
			return i
		}
	}
	t.Fatalf("term %q not in vocabulary %v", term, terms)
	return -1
}
