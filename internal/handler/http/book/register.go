package book

import (
	"log/slog"
	"net/http"

	"bookrec/internal/common/pagination"
	bookUC "bookrec/internal/usecase/book"
	recUC "bookrec/internal/usecase/recommend"
)

// Register wires the book routes into the mux. All book endpoints are
// read-only and public.
func Register(mux *http.ServeMux, svc *bookUC.Service, rec *recUC.Service, paginationCfg pagination.Config, logger *slog.Logger) {
	mux.Handle("GET /books", ListHandler{
		Svc:           svc,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	})
	mux.Handle("GET /books/{id}", GetHandler{Svc: svc})
	mux.Handle("GET /books/{id}/similar", SimilarHandler{Rec: rec})
}
