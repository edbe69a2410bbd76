// Package recommend implements the ranked-recommendation query algorithm
// on top of an immutable index snapshot. A query resolves either through
// a fuzzy title match against the precomputed similarity matrix, or
// through a content-substring fallback with on-the-fly scoring.
package recommend

import (
	"context"
	"log/slog"
	"math"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"bookrec/internal/observability/logging"
	"bookrec/internal/observability/metrics"
	"bookrec/internal/recommend/index"
	"bookrec/internal/recommend/similarity"
)

const (
	// DefaultTopN is the number of recommendations returned when the
	// caller does not specify a count.
	DefaultTopN = 10

	// DefaultSimilarityThreshold is the minimum cosine similarity a
	// content-fallback hit must exceed (strictly) to be kept.
	DefaultSimilarityThreshold = 0.1

	// skipTopMatches is the number of leading entries dropped from the
	// sorted similarity row in the title path: the matched book itself
	// plus its single nearest neighbor. Kept to preserve the historical
	// ranking behavior for identical corpora.
	skipTopMatches = 2
)

// Recommendation is a single request-scoped result. Fields always carry
// safe defaults: a missing rating is 0.0 and a missing cover is the
// empty string.
type Recommendation struct {
	ID         int64
	Title      string
	Similarity float64 // 0-100 scale, rounded to 2 decimals
	Rating     float64
	Cover      string
}

// Service answers recommendation queries against the current index
// snapshot. It holds no per-query state and is safe for concurrent use.
type Service struct {
	indexes             *index.Holder
	similarityThreshold float64
	defaultTopN         int
}

// Option configures a Service.
type Option func(*Service)

// WithDefaultTopN sets the result count applied when a caller passes a
// non-positive topN. Non-positive values leave DefaultTopN in place.
func WithDefaultTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultTopN = n
		}
	}
}

// NewService creates a recommendation service reading snapshots from the
// given holder. A non-positive threshold falls back to
// DefaultSimilarityThreshold.
func NewService(indexes *index.Holder, similarityThreshold float64, opts ...Option) *Service {
	if similarityThreshold <= 0 {
		similarityThreshold = DefaultSimilarityThreshold
	}
	s := &Service{
		indexes:             indexes,
		similarityThreshold: similarityThreshold,
		defaultTopN:         DefaultTopN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recommend returns up to topN books similar to the query, which may be
// a (possibly misspelled) title or free text.
//
// Resolution order:
//  1. Fuzzy title match. On a hit, the precomputed similarity row of the
//     matched book is ranked and returned, skipping the top two entries.
//  2. Content fallback: books whose normalized text contains the query
//     as a case-insensitive substring, scored ad hoc against the query
//     vector and filtered by the similarity threshold, ranked by
//     (similarity, rating).
//
// An empty result is a legitimate outcome, not an error. Unexpected
// faults during a single query are recovered, logged, and surfaced as an
// empty result; only ErrInvalidQuery and ErrIndexNotReady reach callers.
func (s *Service) Recommend(ctx context.Context, query string, topN int) (recs []Recommendation, err error) {
	start := time.Now()
	logger := logging.WithRequestID(ctx, slog.Default())

	if strings.TrimSpace(query) == "" {
		logger.Warn("empty recommendation query")
		return nil, ErrInvalidQuery
	}
	if topN <= 0 {
		topN = s.defaultTopN
	}

	idx, ok := s.indexes.Snapshot()
	if !ok {
		logger.Warn("recommendation requested before index was built")
		return nil, ErrIndexNotReady
	}

	// A single bad query must never take the engine down. Anything
	// unexpected is logged and reported as "no recommendations".
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("recovered panic during recommendation query",
				slog.String("query", query),
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())))
			metrics.RecordRecommendationFailure()
			recs = []Recommendation{}
			err = nil
		}
	}()

	var path string
	if match, found := idx.MatchTitle(query); found {
		recs = s.fromSimilarityRow(idx, match.Index, topN)
		path = "title"
		metrics.RecordFuzzyMatchScore(match.Score)
		logger.Info("recommendation resolved via title match",
			slog.String("query", query),
			slog.String("matched_title", match.Title),
			slog.Int("score", match.Score),
			slog.Int("results", len(recs)))
	} else {
		recs = s.fromContentSearch(idx, query, topN)
		path = "content"
		logger.Info("recommendation resolved via content fallback",
			slog.String("query", query),
			slog.Int("results", len(recs)))
	}

	if len(recs) == 0 {
		path = "none"
	}
	metrics.RecordRecommendationServed(path, time.Since(start))
	return recs, nil
}

// SimilarTo returns up to topN books most similar to the book with the
// given ID, using the precomputed matrix row and excluding the book
// itself. Unlike Recommend it does not apply the skip-top policy.
func (s *Service) SimilarTo(ctx context.Context, id int64, topN int) ([]Recommendation, error) {
	if topN <= 0 {
		topN = s.defaultTopN
	}
	idx, ok := s.indexes.Snapshot()
	if !ok {
		return nil, ErrIndexNotReady
	}

	row := -1
	for i, b := range idx.Books() {
		if b.ID == id {
			row = i
			break
		}
	}
	if row < 0 {
		return nil, ErrBookNotFound
	}

	scored := idx.Matrix().Query(row)
	sortScoredDesc(scored)
	if len(scored) > topN {
		scored = scored[:topN]
	}
	return s.toRecommendations(idx, scored), nil
}

// fromSimilarityRow ranks the full matrix row of the matched book,
// including the book itself, and returns the slice [2 : 2+topN] of the
// descending order. The two skipped entries are the matched book (self
// similarity 1.0) and its nearest neighbor.
func (s *Service) fromSimilarityRow(idx *index.Index, row, topN int) []Recommendation {
	scores := idx.Matrix().Row(row)
	scored := make([]similarity.Scored, len(scores))
	for j, score := range scores {
		scored[j] = similarity.Scored{Index: j, Score: score}
	}
	sortScoredDesc(scored)

	if len(scored) <= skipTopMatches {
		return []Recommendation{}
	}
	scored = scored[skipTopMatches:]
	if len(scored) > topN {
		scored = scored[:topN]
	}
	return s.toRecommendations(idx, scored)
}

// fromContentSearch scores every book whose normalized text contains the
// query as a case-insensitive substring against the ad-hoc query vector,
// keeps hits strictly above the similarity threshold, and ranks by
// rounded similarity with rating as tie-breaker.
func (s *Service) fromContentSearch(idx *index.Index, query string, topN int) []Recommendation {
	needle := strings.ToLower(strings.TrimSpace(query))
	queryVec := idx.TransformQuery(query)

	scored := make([]similarity.Scored, 0, 16)
	for i := 0; i < idx.Size(); i++ {
		if !strings.Contains(idx.NormalizedText(i), needle) {
			continue
		}
		sim := similarity.Cosine(queryVec, idx.Vector(i))
		if sim > s.similarityThreshold {
			scored = append(scored, similarity.Scored{Index: i, Score: sim})
		}
	}

	rankByScoreAndRating(scored, func(i int) float64 { return idx.Book(i).Rating })
	if len(scored) > topN {
		scored = scored[:topN]
	}
	return s.toRecommendations(idx, scored)
}

func (s *Service) toRecommendations(idx *index.Index, scored []similarity.Scored) []Recommendation {
	recs := make([]Recommendation, 0, len(scored))
	for _, sc := range scored {
		b := idx.Book(sc.Index)
		recs = append(recs, Recommendation{
			ID:         b.ID,
			Title:      b.Title,
			Similarity: roundScore(sc.Score),
			Rating:     b.Rating,
			Cover:      b.Cover,
		})
	}
	return recs
}

// rankByScoreAndRating orders content-fallback hits by the rounded
// display score descending, then rating. Comparing the rounded score
// rather than the raw cosine means two hits inside the same 0.01 bucket
// fall through to the rating tie-breaker.
func rankByScoreAndRating(scored []similarity.Scored, rating func(i int) float64) {
	sort.SliceStable(scored, func(a, b int) bool {
		sa, sb := roundScore(scored[a].Score), roundScore(scored[b].Score)
		if sa != sb {
			return sa > sb
		}
		return rating(scored[a].Index) > rating(scored[b].Index)
	})
}

// sortScoredDesc orders by score descending with the row index as
// tie-breaker so repeated queries rank identically.
func sortScoredDesc(scored []similarity.Scored) {
	sort.SliceStable(scored, func(a, b int) bool {
		if scored[a].Score != scored[b].Score {
			return scored[a].Score > scored[b].Score
		}
		return scored[a].Index < scored[b].Index
	})
}

// roundScore scales a cosine similarity to the 0-100 scale rounded to
// two decimals.
func roundScore(sim float64) float64 {
	return math.Round(sim*100*100) / 100
}
