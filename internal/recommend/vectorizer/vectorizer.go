// Package vectorizer implements a TF-IDF vectorizer with a fixed,
// corpus-derived vocabulary. The vectorizer is fitted once over all book
// texts and is immutable afterwards; fitted instances are safe for
// concurrent use by any number of readers.
package vectorizer

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// ErrEmptyVocabulary is returned when fitting produces zero learnable
// terms, either because the corpus is empty or because every candidate
// term was pruned by the document-frequency bounds or stop-word list.
var ErrEmptyVocabulary = errors.New("empty vocabulary: no terms survived fitting")

// tokenPattern matches word tokens of two or more characters, mirroring
// the tokenization the corpus texts were vectorized with originally.
var tokenPattern = regexp.MustCompile(`\w\w+`)

// Config controls vocabulary construction.
type Config struct {
	// MaxFeatures caps the vocabulary size. Terms are ranked by total
	// corpus frequency; ties break alphabetically for determinism.
	// Zero means no cap.
	MaxFeatures int

	// UseBigrams extends the vocabulary with 2-word sequences alongside
	// single terms.
	UseBigrams bool

	// MinDocFreq drops terms appearing in fewer than this many documents.
	// Zero or one disables the lower bound.
	MinDocFreq int

	// MaxDocFreqRatio drops terms appearing in more than this fraction of
	// documents. Zero disables the upper bound.
	MaxDocFreqRatio float64

	// FilterStopWords removes common English words before n-gram
	// construction.
	FilterStopWords bool
}

// DefaultConfig returns the configuration the recommendation index is
// built with: capped bigram vocabulary with stop-word filtering and
// document-frequency pruning.
func DefaultConfig() Config {
	return Config{
		MaxFeatures:     2000,
		UseBigrams:      true,
		MinDocFreq:      2,
		MaxDocFreqRatio: 0.95,
		FilterStopWords: true,
	}
}

// Vectorizer maps texts to fixed-length TF-IDF vectors. A Vectorizer is
// created by Fit and never modified afterwards.
type Vectorizer struct {
	cfg   Config
	vocab map[string]int // term -> dimension index
	idf   []float64      // per-dimension inverse document frequency
	terms []string       // dimension index -> term, alphabetical
}

// Fit learns a vocabulary and IDF weights from the given corpus texts.
// Texts are expected to be pre-normalized book descriptions, but Fit
// lowercases defensively so ad-hoc corpora behave the same way.
func Fit(texts []string, cfg Config) (*Vectorizer, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyVocabulary
	}

	n := len(texts)
	totalFreq := make(map[string]int)
	docFreq := make(map[string]int)

	for _, text := range texts {
		terms := extractTerms(text, cfg)
		seen := make(map[string]struct{}, len(terms))
		for _, term := range terms {
			totalFreq[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				docFreq[term]++
			}
		}
	}

	// Document-frequency pruning.
	candidates := make([]string, 0, len(totalFreq))
	for term, df := range docFreq {
		if cfg.MinDocFreq > 1 && df < cfg.MinDocFreq {
			continue
		}
		if cfg.MaxDocFreqRatio > 0 && float64(df) > cfg.MaxDocFreqRatio*float64(n) {
			continue
		}
		candidates = append(candidates, term)
	}

	// Keep the most frequent terms up to MaxFeatures.
	if cfg.MaxFeatures > 0 && len(candidates) > cfg.MaxFeatures {
		sort.Slice(candidates, func(i, j int) bool {
			fi, fj := totalFreq[candidates[i]], totalFreq[candidates[j]]
			if fi != fj {
				return fi > fj
			}
			return candidates[i] < candidates[j]
		})
		candidates = candidates[:cfg.MaxFeatures]
	}

	if len(candidates) == 0 {
		return nil, ErrEmptyVocabulary
	}

	// Alphabetical dimension order keeps vectors deterministic across runs.
	sort.Strings(candidates)

	v := &Vectorizer{
		cfg:   cfg,
		vocab: make(map[string]int, len(candidates)),
		idf:   make([]float64, len(candidates)),
		terms: candidates,
	}
	for i, term := range candidates {
		v.vocab[term] = i
		// Smoothed IDF keeps weights finite for terms present in every document.
		v.idf[i] = math.Log(float64(1+n)/float64(1+docFreq[term])) + 1
	}
	return v, nil
}

// Transform maps a single text, in or out of the fitted corpus, to an
// L2-normalized TF-IDF vector in the fitted space. Texts with no known
// terms map to the zero vector.
func (v *Vectorizer) Transform(text string) []float64 {
	vec := make([]float64, len(v.terms))
	for _, term := range extractTerms(text, v.cfg) {
		if i, ok := v.vocab[term]; ok {
			vec[i]++
		}
	}

	var sumSq float64
	for i := range vec {
		vec[i] *= v.idf[i]
		sumSq += vec[i] * vec[i]
	}
	if sumSq > 0 {
		norm := math.Sqrt(sumSq)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// TransformAll maps every text to its vector in corpus order.
func (v *Vectorizer) TransformAll(texts []string) [][]float64 {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vectors[i] = v.Transform(text)
	}
	return vectors
}

// NumFeatures returns the dimensionality of the fitted vector space.
func (v *Vectorizer) NumFeatures() int {
	return len(v.terms)
}

// Vocabulary returns the fitted terms in dimension order.
// The returned slice must not be modified.
func (v *Vectorizer) Vocabulary() []string {
	return v.terms
}

// extractTerms tokenizes text and builds the configured n-grams.
// Stop words are removed before bigram construction, so bigrams span
// the remaining content words.
func extractTerms(text string, cfg Config) []string {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)

	if cfg.FilterStopWords {
		kept := tokens[:0]
		for _, tok := range tokens {
			if _, stop := stopWords[tok]; !stop {
				kept = append(kept, tok)
			}
		}
		tokens = kept
	}

	if !cfg.UseBigrams {
		return tokens
	}

	terms := make([]string, 0, 2*len(tokens))
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}
