package book

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"bookrec/internal/common/pagination"
	"bookrec/internal/handler/http/respond"
	"bookrec/internal/observability/logging"
	bookUC "bookrec/internal/usecase/book"
)

type ListHandler struct {
	Svc           *bookUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// ServeHTTP returns one page of the corpus in row order.
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	logger := logging.WithRequestID(ctx, h.Logger)

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		logger.Warn("invalid pagination parameters", "error", err.Error())
		pagination.RecordError("validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.Svc.ListPaginated(ctx, params)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, bookUC.ErrIndexNotReady) {
			code = http.StatusServiceUnavailable
		}
		pagination.RecordError("index")
		respond.SafeError(w, code, err)
		return
	}

	dtos := make([]DTO, 0, len(result.Data))
	for _, d := range result.Data {
		dtos = append(dtos, toDTO(d))
	}

	duration := time.Since(start)
	pagination.RecordRequest(http.StatusOK, params.Page)
	pagination.RecordDuration("handler", duration.Seconds())
	pagination.UpdateTotalCount(result.Pagination.Total)

	logger.Info("book list served",
		"page", params.Page,
		"limit", params.Limit,
		"returned_count", len(dtos),
		"duration_ms", duration.Milliseconds())

	respond.JSON(w, http.StatusOK, pagination.NewResponse(dtos, result.Pagination))
}
