// Package index assembles the immutable recommendation index: the
// filtered corpus, the fitted vectorizer, per-book vectors, the pairwise
// similarity matrix, and the fuzzy title matcher.
//
// An Index is built exactly once and never mutated; all query handlers
// share it read-only, so no locks are needed after the build. Rebuilds
// produce a fresh Index that a Holder swaps in atomically.
package index

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"bookrec/internal/domain/entity"
	"bookrec/internal/recommend/fuzzy"
	"bookrec/internal/recommend/similarity"
	"bookrec/internal/recommend/textnorm"
	"bookrec/internal/recommend/vectorizer"
)

// Config controls an index build.
type Config struct {
	// Vectorizer is the vocabulary construction configuration.
	Vectorizer vectorizer.Config

	// WithRatingFeature appends each book's rating to its text vector
	// before the similarity matrix is computed. This changes resulting
	// scores and is an explicit mode, off by default.
	WithRatingFeature bool

	// FuzzyThreshold is the minimum title-match confidence (0–100).
	// Non-positive values fall back to fuzzy.DefaultThreshold.
	FuzzyThreshold int
}

// DefaultConfig returns the configuration production indexes are built with.
func DefaultConfig() Config {
	return Config{
		Vectorizer:     vectorizer.DefaultConfig(),
		FuzzyThreshold: fuzzy.DefaultThreshold,
	}
}

// Index is an immutable snapshot of everything the recommendation engine
// reads at query time.
type Index struct {
	books     []entity.Book
	titles    []string
	normTexts []string
	vectors   [][]float64
	matrix    *similarity.Matrix
	vec       *vectorizer.Vectorizer
	matcher   *fuzzy.Matcher
	builtAt   time.Time
}

// Build filters the corpus, fits the vectorizer, and computes the
// similarity matrix. Books missing title, author, or text are dropped
// up front; the corpus is filtered once, not mutated incrementally.
//
// Build fails with entity.ErrEmptyCorpus when nothing survives filtering
// and with vectorizer.ErrEmptyVocabulary when the corpus is degenerate.
// Both are fatal at startup: the engine must never serve queries from a
// partially built index.
func Build(books []entity.Book, cfg Config) (*Index, error) {
	start := time.Now()

	kept := make([]entity.Book, 0, len(books))
	for _, b := range books {
		if b.HasRequiredFields() {
			kept = append(kept, b)
		}
	}
	if len(kept) == 0 {
		return nil, entity.ErrEmptyCorpus
	}

	titles := make([]string, len(kept))
	normTexts := make([]string, len(kept))
	for i, b := range kept {
		titles[i] = b.Title
		normTexts[i] = textnorm.Normalize(b.Text)
	}

	vec, err := vectorizer.Fit(normTexts, cfg.Vectorizer)
	if err != nil {
		return nil, fmt.Errorf("fit vectorizer: %w", err)
	}
	vectors := vec.TransformAll(normTexts)

	matrixVectors := vectors
	if cfg.WithRatingFeature {
		ratings := make([]float64, len(kept))
		for i, b := range kept {
			ratings[i] = b.Rating
		}
		matrixVectors = similarity.AppendFeature(vectors, ratings)
	}
	matrix := similarity.BuildMatrix(matrixVectors)

	idx := &Index{
		books:     kept,
		titles:    titles,
		normTexts: normTexts,
		vectors:   vectors,
		matrix:    matrix,
		vec:       vec,
		matcher:   fuzzy.NewMatcher(cfg.FuzzyThreshold),
		builtAt:   time.Now(),
	}

	slog.Info("recommendation index built",
		slog.Int("books", len(kept)),
		slog.Int("dropped", len(books)-len(kept)),
		slog.Int("features", vec.NumFeatures()),
		slog.Bool("rating_feature", cfg.WithRatingFeature),
		slog.Duration("duration", time.Since(start)))

	return idx, nil
}

// Size returns the number of indexed books.
func (idx *Index) Size() int {
	return len(idx.books)
}

// Book returns the book at corpus row i.
func (idx *Index) Book(i int) entity.Book {
	return idx.books[i]
}

// Books returns the filtered corpus in row order.
// The returned slice is shared read-only state and must not be modified.
func (idx *Index) Books() []entity.Book {
	return idx.books
}

// Titles returns the raw book titles in row order.
// The returned slice is shared read-only state and must not be modified.
func (idx *Index) Titles() []string {
	return idx.titles
}

// NormalizedText returns the normalized text of the book at row i.
func (idx *Index) NormalizedText(i int) string {
	return idx.normTexts[i]
}

// Vector returns the TF-IDF vector of the book at row i, without the
// optional rating feature.
func (idx *Index) Vector(i int) []float64 {
	return idx.vectors[i]
}

// Matrix returns the pairwise similarity matrix.
func (idx *Index) Matrix() *similarity.Matrix {
	return idx.matrix
}

// TransformQuery maps an ad-hoc query string into the fitted vector
// space, for the content-fallback path.
func (idx *Index) TransformQuery(query string) []float64 {
	return idx.vec.Transform(textnorm.Normalize(query))
}

// MatchTitle runs the fuzzy title matcher against the corpus titles.
func (idx *Index) MatchTitle(query string) (fuzzy.Match, bool) {
	return idx.matcher.BestMatch(query, idx.titles)
}

// NumFeatures returns the dimensionality of the fitted vector space.
func (idx *Index) NumFeatures() int {
	return idx.vec.NumFeatures()
}

// BuiltAt returns when the snapshot was built.
func (idx *Index) BuiltAt() time.Time {
	return idx.builtAt
}

// Holder hands an immutable Index snapshot to concurrent readers and
// lets an out-of-band rebuild replace it atomically. The nil state
// before the first Publish is the readiness barrier: no query is served
// until a fully built snapshot is in place.
type Holder struct {
	ptr atomic.Pointer[Index]
}

// NewHolder returns an empty, not-yet-ready holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Publish atomically swaps in a fully built snapshot.
func (h *Holder) Publish(idx *Index) {
	h.ptr.Store(idx)
}

// Snapshot returns the current snapshot, or false before the first Publish.
func (h *Holder) Snapshot() (*Index, bool) {
	idx := h.ptr.Load()
	return idx, idx != nil
}

// Ready reports whether a snapshot has been published.
func (h *Holder) Ready() bool {
	return h.ptr.Load() != nil
}
