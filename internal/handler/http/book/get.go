package book

import (
	"errors"
	"net/http"

	"bookrec/internal/handler/http/pathutil"
	"bookrec/internal/handler/http/respond"
	bookUC "bookrec/internal/usecase/book"
)

type GetHandler struct{ Svc *bookUC.Service }

// ServeHTTP returns the display-ready details for a single book.
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/books/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	details, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, bookUC.ErrInvalidBookID):
			code = http.StatusBadRequest
		case errors.Is(err, bookUC.ErrBookNotFound):
			code = http.StatusNotFound
		case errors.Is(err, bookUC.ErrIndexNotReady):
			code = http.StatusServiceUnavailable
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDTO(*details))
}
