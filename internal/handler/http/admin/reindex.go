// Package admin exposes operator endpoints. Everything registered here
// sits behind JWT auth.
package admin

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"bookrec/internal/domain/entity"
	"bookrec/internal/handler/http/respond"
	"bookrec/internal/observability/logging"
	reindexUC "bookrec/internal/usecase/reindex"
)

// ReindexHandler triggers a full index rebuild from the corpus source.
type ReindexHandler struct {
	Svc    *reindexUC.Service
	Logger *slog.Logger
}

type reindexResponse struct {
	Status     string  `json:"status"`
	Books      int     `json:"books"`
	Features   int     `json:"features"`
	DurationMS float64 `json:"duration_ms"`
	BuiltAt    string  `json:"built_at"`
}

func (h *ReindexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithRequestID(r.Context(), h.Logger)

	stats, err := h.Svc.Rebuild(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, reindexUC.ErrRebuildInProgress):
			respond.Error(w, http.StatusConflict,
				respond.NewAppError(http.StatusConflict, "rebuild already in progress", err))
		case errors.Is(err, entity.ErrEmptyCorpus):
			logger.Error("reindex failed", slog.String("error", err.Error()))
			respond.Error(w, http.StatusUnprocessableEntity,
				respond.NewAppError(http.StatusUnprocessableEntity, "corpus is empty", err))
		default:
			logger.Error("reindex failed", slog.String("error", err.Error()))
			respond.Error(w, http.StatusInternalServerError, err)
		}
		return
	}

	logger.Info("reindex complete",
		slog.Int("books", stats.Books),
		slog.Duration("duration", stats.Duration))

	respond.JSON(w, http.StatusOK, reindexResponse{
		Status:     "ok",
		Books:      stats.Books,
		Features:   stats.Features,
		DurationMS: float64(stats.Duration) / float64(time.Millisecond),
		BuiltAt:    stats.BuiltAt.UTC().Format(time.RFC3339),
	})
}
