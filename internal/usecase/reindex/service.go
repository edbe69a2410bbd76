// Package reindex rebuilds the recommendation index from the corpus
// source and atomically swaps it into the live holder.
package reindex

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"bookrec/internal/observability/metrics"
	"bookrec/internal/observability/tracing"
	"bookrec/internal/recommend/index"
	"bookrec/internal/repository"
)

// ErrRebuildInProgress is returned when a rebuild is already running.
// Rebuilds are serialized: the index build is CPU and memory heavy.
var ErrRebuildInProgress = errors.New("index rebuild already in progress")

// Stats describes a completed rebuild.
type Stats struct {
	Books    int           `json:"books"`
	Features int           `json:"features"`
	Duration time.Duration `json:"-"`
	BuiltAt  time.Time     `json:"built_at"`
}

// Service loads the corpus and rebuilds the index. Queries keep being
// served from the previous snapshot until the swap.
type Service struct {
	source  repository.BookSource
	indexes *index.Holder
	cfg     index.Config
	running atomic.Bool
}

func NewService(source repository.BookSource, indexes *index.Holder, cfg index.Config) *Service {
	return &Service{source: source, indexes: indexes, cfg: cfg}
}

// Rebuild loads the corpus, builds a fresh index, and publishes it.
// Overlapping calls return ErrRebuildInProgress. On failure the
// previous snapshot stays live.
func (s *Service) Rebuild(ctx context.Context) (*Stats, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrRebuildInProgress
	}
	defer s.running.Store(false)

	ctx, span := tracing.GetTracer().Start(ctx, "reindex.rebuild")
	defer span.End()

	start := time.Now()

	books, err := s.source.LoadAll(ctx)
	if err != nil {
		metrics.RecordIndexBuild(false, time.Since(start), 0, 0)
		return nil, err
	}

	idx, err := index.Build(books, s.cfg)
	if err != nil {
		metrics.RecordIndexBuild(false, time.Since(start), len(books), 0)
		return nil, err
	}

	s.indexes.Publish(idx)

	duration := time.Since(start)
	metrics.RecordIndexBuild(true, duration, idx.Size(), idx.NumFeatures())
	slog.Info("index rebuilt",
		slog.Int("books", idx.Size()),
		slog.Int("features", idx.NumFeatures()),
		slog.Duration("duration", duration))

	return &Stats{
		Books:    idx.Size(),
		Features: idx.NumFeatures(),
		Duration: duration,
		BuiltAt:  idx.BuiltAt(),
	}, nil
}
