package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEngineEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENGINE_MAX_FEATURES", "ENGINE_USE_BIGRAMS", "ENGINE_MIN_DOC_FREQ",
		"ENGINE_MAX_DOC_FREQ_RATIO", "ENGINE_FILTER_STOP_WORDS",
		"ENGINE_FUZZY_THRESHOLD", "ENGINE_SIMILARITY_THRESHOLD",
		"ENGINE_TOP_N", "ENGINE_WITH_RATING_FEATURE",
		"CORPUS_SOURCE", "CORPUS_PATH", "CORPUS_MAX_ROWS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadEngineConfig_Defaults(t *testing.T) {
	clearEngineEnvVars(t)

	cfg, err := LoadEngineConfig("")
	require.NoError(t, err)

	assert.Equal(t, 2000, cfg.Vectorizer.MaxFeatures)
	assert.True(t, cfg.Vectorizer.UseBigrams)
	assert.Equal(t, 2, cfg.Vectorizer.MinDocFreq)
	assert.Equal(t, 0.95, cfg.Vectorizer.MaxDocFreqRatio)
	assert.True(t, cfg.Vectorizer.FilterStopWords)

	assert.Equal(t, 60, cfg.Matching.FuzzyThreshold)
	assert.Equal(t, 0.1, cfg.Matching.SimilarityThreshold)
	assert.Equal(t, 10, cfg.Matching.TopN)
	assert.False(t, cfg.Matching.WithRatingFeature)

	assert.Equal(t, "csv", cfg.Corpus.Source)
	assert.Equal(t, 10000, cfg.Corpus.MaxRows)
}

func TestLoadEngineConfig_FromYAML(t *testing.T) {
	clearEngineEnvVars(t)

	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
vectorizer:
  max_features: 500
  use_bigrams: false
  min_doc_freq: 3
  max_doc_freq_ratio: 0.8
  filter_stop_words: true
matching:
  fuzzy_threshold: 75
  similarity_threshold: 0.2
  top_n: 5
corpus:
  source: postgres
`), 0o644))

	cfg, err := LoadEngineConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Vectorizer.MaxFeatures)
	assert.False(t, cfg.Vectorizer.UseBigrams)
	assert.Equal(t, 3, cfg.Vectorizer.MinDocFreq)
	assert.Equal(t, 0.8, cfg.Vectorizer.MaxDocFreqRatio)
	assert.Equal(t, 75, cfg.Matching.FuzzyThreshold)
	assert.Equal(t, 0.2, cfg.Matching.SimilarityThreshold)
	assert.Equal(t, 5, cfg.Matching.TopN)
	assert.Equal(t, "postgres", cfg.Corpus.Source)
}

func TestLoadEngineConfig_EnvOverridesYAML(t *testing.T) {
	clearEngineEnvVars(t)

	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
matching:
  top_n: 5
`), 0o644))

	t.Setenv("ENGINE_TOP_N", "20")
	t.Setenv("ENGINE_SIMILARITY_THRESHOLD", "0.3")

	cfg, err := LoadEngineConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Matching.TopN)
	assert.Equal(t, 0.3, cfg.Matching.SimilarityThreshold)
}

func TestLoadEngineConfig_FileNotFound(t *testing.T) {
	clearEngineEnvVars(t)

	_, err := LoadEngineConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadEngineConfig_InvalidYAML(t *testing.T) {
	clearEngineEnvVars(t)

	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vectorizer: ["), 0o644))

	_, err := LoadEngineConfig(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parse engine config")
}

func TestEngineConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EngineConfig)
		errMsg string
	}{
		{
			name:   "zero max features",
			mutate: func(c *EngineConfig) { c.Vectorizer.MaxFeatures = 0 },
			errMsg: "max_features",
		},
		{
			name:   "zero min doc freq",
			mutate: func(c *EngineConfig) { c.Vectorizer.MinDocFreq = 0 },
			errMsg: "min_doc_freq",
		},
		{
			name:   "ratio above one",
			mutate: func(c *EngineConfig) { c.Vectorizer.MaxDocFreqRatio = 1.5 },
			errMsg: "max_doc_freq_ratio",
		},
		{
			name:   "fuzzy threshold above 100",
			mutate: func(c *EngineConfig) { c.Matching.FuzzyThreshold = 150 },
			errMsg: "fuzzy_threshold",
		},
		{
			name:   "negative similarity threshold",
			mutate: func(c *EngineConfig) { c.Matching.SimilarityThreshold = -0.5 },
			errMsg: "similarity_threshold",
		},
		{
			name:   "zero top n",
			mutate: func(c *EngineConfig) { c.Matching.TopN = 0 },
			errMsg: "top_n",
		},
		{
			name:   "unknown corpus source",
			mutate: func(c *EngineConfig) { c.Corpus.Source = "redis" },
			errMsg: "corpus source",
		},
		{
			name:   "csv source without path",
			mutate: func(c *EngineConfig) { c.Corpus.Path = "" },
			errMsg: "corpus path",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultEngineConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "value")
	assert.Equal(t, "value", getEnvOrDefault("TEST_STR", "fallback"))
	assert.Equal(t, "fallback", getEnvOrDefault("TEST_STR_UNSET", "fallback"))

	t.Setenv("TEST_BOOL", "true")
	assert.True(t, getEnvBool("TEST_BOOL", false))
	t.Setenv("TEST_BOOL", "not-a-bool")
	assert.True(t, getEnvBool("TEST_BOOL", true))

	t.Setenv("TEST_INT", "42")
	assert.Equal(t, 42, getEnvInt("TEST_INT", 7))
	t.Setenv("TEST_INT", "4.5")
	assert.Equal(t, 7, getEnvInt("TEST_INT", 7))

	t.Setenv("TEST_FLOAT", "0.25")
	assert.Equal(t, 0.25, getEnvFloat("TEST_FLOAT", 0.5))

	t.Setenv("TEST_DUR", "90s")
	assert.Equal(t, 90*time.Second, getEnvDuration("TEST_DUR", time.Minute))
	t.Setenv("TEST_DUR", "soon")
	assert.Equal(t, time.Minute, getEnvDuration("TEST_DUR", time.Minute))
}
