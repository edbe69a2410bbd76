package admin

import (
	"log/slog"
	"net/http"

	reindexUC "bookrec/internal/usecase/reindex"
)

// Register wires the admin routes. Callers are expected to wrap the mux
// with auth.Authz so these endpoints require an admin token.
func Register(mux *http.ServeMux, svc *reindexUC.Service, logger *slog.Logger) {
	mux.Handle("POST /admin/reindex", &ReindexHandler{Svc: svc, Logger: logger})
}
