package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EngineConfig holds recommendation engine configuration. Values load
// from an optional YAML file, then environment variables override
// individual fields.
type EngineConfig struct {
	Vectorizer VectorizerConfig `yaml:"vectorizer"`
	Matching   MatchingConfig   `yaml:"matching"`
	Corpus     CorpusConfig     `yaml:"corpus"`
}

// VectorizerConfig controls TF-IDF feature extraction.
type VectorizerConfig struct {
	// MaxFeatures caps the vocabulary size. Default: 2000
	MaxFeatures int `yaml:"max_features"`

	// UseBigrams adds adjacent word pairs to the vocabulary. Default: true
	UseBigrams bool `yaml:"use_bigrams"`

	// MinDocFreq drops terms appearing in fewer documents. Default: 2
	MinDocFreq int `yaml:"min_doc_freq"`

	// MaxDocFreqRatio drops terms appearing in more than this fraction
	// of documents. Default: 0.95
	MaxDocFreqRatio float64 `yaml:"max_doc_freq_ratio"`

	// FilterStopWords removes common English words. Default: true
	FilterStopWords bool `yaml:"filter_stop_words"`
}

// MatchingConfig controls title matching and result selection.
type MatchingConfig struct {
	// FuzzyThreshold is the minimum fuzzy title match score (0-100).
	// Default: 60
	FuzzyThreshold int `yaml:"fuzzy_threshold"`

	// SimilarityThreshold filters content search results by cosine
	// similarity. Default: 0.1
	SimilarityThreshold float64 `yaml:"similarity_threshold"`

	// TopN is the default number of recommendations. Default: 10
	TopN int `yaml:"top_n"`

	// WithRatingFeature appends the book rating as an extra vector
	// dimension. Default: false
	WithRatingFeature bool `yaml:"with_rating_feature"`
}

// CorpusConfig controls corpus ingestion.
type CorpusConfig struct {
	// Source selects the backend: "csv" or "postgres". Default: "csv"
	Source string `yaml:"source"`

	// Path is the CSV file location when Source is "csv".
	Path string `yaml:"path"`

	// MaxRows bounds ingestion. Non-positive disables the limit.
	// Default: 10000
	MaxRows int `yaml:"max_rows"`
}

// DefaultEngineConfig returns the engine defaults.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		Vectorizer: VectorizerConfig{
			MaxFeatures:     2000,
			UseBigrams:      true,
			MinDocFreq:      2,
			MaxDocFreqRatio: 0.95,
			FilterStopWords: true,
		},
		Matching: MatchingConfig{
			FuzzyThreshold:      60,
			SimilarityThreshold: 0.1,
			TopN:                10,
			WithRatingFeature:   false,
		},
		Corpus: CorpusConfig{
			Source:  "csv",
			Path:    "data/books.csv",
			MaxRows: 10000,
		},
	}
}

// LoadEngineConfig builds the engine configuration. An empty path skips
// the YAML file and uses defaults plus environment overrides.
func LoadEngineConfig(path string) (*EngineConfig, error) {
	config := DefaultEngineConfig()

	if path != "" {
		// #nosec G304 -- path comes from a CLI flag, not user input
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Missing file is not an error; defaults plus env
			// overrides keep the binaries runnable without one.
		case err != nil:
			return nil, fmt.Errorf("read engine config: %w", err)
		default:
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("parse engine config: %w", err)
			}
		}
	}

	config.applyEnvOverrides()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}
	return config, nil
}

func (c *EngineConfig) applyEnvOverrides() {
	c.Vectorizer.MaxFeatures = getEnvInt("ENGINE_MAX_FEATURES", c.Vectorizer.MaxFeatures)
	c.Vectorizer.UseBigrams = getEnvBool("ENGINE_USE_BIGRAMS", c.Vectorizer.UseBigrams)
	c.Vectorizer.MinDocFreq = getEnvInt("ENGINE_MIN_DOC_FREQ", c.Vectorizer.MinDocFreq)
	c.Vectorizer.MaxDocFreqRatio = getEnvFloat("ENGINE_MAX_DOC_FREQ_RATIO", c.Vectorizer.MaxDocFreqRatio)
	c.Vectorizer.FilterStopWords = getEnvBool("ENGINE_FILTER_STOP_WORDS", c.Vectorizer.FilterStopWords)

	c.Matching.FuzzyThreshold = getEnvInt("ENGINE_FUZZY_THRESHOLD", c.Matching.FuzzyThreshold)
	c.Matching.SimilarityThreshold = getEnvFloat("ENGINE_SIMILARITY_THRESHOLD", c.Matching.SimilarityThreshold)
	c.Matching.TopN = getEnvInt("ENGINE_TOP_N", c.Matching.TopN)
	c.Matching.WithRatingFeature = getEnvBool("ENGINE_WITH_RATING_FEATURE", c.Matching.WithRatingFeature)

	c.Corpus.Source = getEnvOrDefault("CORPUS_SOURCE", c.Corpus.Source)
	c.Corpus.Path = getEnvOrDefault("CORPUS_PATH", c.Corpus.Path)
	c.Corpus.MaxRows = getEnvInt("CORPUS_MAX_ROWS", c.Corpus.MaxRows)
}

// Validate checks configuration correctness.
func (c *EngineConfig) Validate() error {
	if c.Vectorizer.MaxFeatures <= 0 {
		return fmt.Errorf("vectorizer max_features must be positive, got %d", c.Vectorizer.MaxFeatures)
	}
	if c.Vectorizer.MinDocFreq < 1 {
		return fmt.Errorf("vectorizer min_doc_freq must be at least 1, got %d", c.Vectorizer.MinDocFreq)
	}
	if c.Vectorizer.MaxDocFreqRatio <= 0 || c.Vectorizer.MaxDocFreqRatio > 1 {
		return fmt.Errorf("vectorizer max_doc_freq_ratio must be in (0, 1], got %v", c.Vectorizer.MaxDocFreqRatio)
	}
	if c.Matching.FuzzyThreshold < 0 || c.Matching.FuzzyThreshold > 100 {
		return fmt.Errorf("matching fuzzy_threshold must be in [0, 100], got %d", c.Matching.FuzzyThreshold)
	}
	if c.Matching.SimilarityThreshold < 0 || c.Matching.SimilarityThreshold >= 1 {
		return fmt.Errorf("matching similarity_threshold must be in [0, 1), got %v", c.Matching.SimilarityThreshold)
	}
	if c.Matching.TopN <= 0 {
		return fmt.Errorf("matching top_n must be positive, got %d", c.Matching.TopN)
	}
	switch c.Corpus.Source {
	case "csv":
		if c.Corpus.Path == "" {
			return fmt.Errorf("corpus path is required for the csv source")
		}
	case "postgres":
	default:
		return fmt.Errorf("unknown corpus source %q, expected csv or postgres", c.Corpus.Source)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
