package book

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bookrec/internal/handler/http/pathutil"
	"bookrec/internal/handler/http/respond"
	recUC "bookrec/internal/usecase/recommend"
)

type SimilarHandler struct{ Rec *recUC.Service }

// ServeHTTP returns the books most similar to the given one, ranked by
// cosine similarity. The optional top_n query parameter bounds the
// result count.
func (h SimilarHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(r.URL.Path, "/similar")
	id, err := pathutil.ExtractID(path, "/books/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	topN := 0
	if v := r.URL.Query().Get("top_n"); v != "" {
		topN, err = strconv.Atoi(v)
		if err != nil || topN < 1 {
			respond.SafeError(w, http.StatusBadRequest, errors.New("top_n must be a positive integer"))
			return
		}
	}

	recs, err := h.Rec.SimilarTo(r.Context(), id, topN)
	if err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, recUC.ErrBookNotFound):
			code = http.StatusNotFound
		case errors.Is(err, recUC.ErrIndexNotReady):
			code = http.StatusServiceUnavailable
		}
		respond.SafeError(w, code, err)
		return
	}

	out := make([]SimilarDTO, 0, len(recs))
	for _, rec := range recs {
		out = append(out, SimilarDTO{
			ID:         rec.ID,
			Title:      rec.Title,
			Similarity: rec.Similarity,
			Rating:     rec.Rating,
			Cover:      rec.Cover,
		})
	}
	respond.JSON(w, http.StatusOK, out)
}

// SimilarDTO represents one similar-book entry.
type SimilarDTO struct {
	ID         int64   `json:"id" example:"2"`
	Title      string  `json:"title" example:"Dune Messiah"`
	Similarity float64 `json:"similarity" example:"87.5"`
	Rating     float64 `json:"rating" example:"4.2"`
	Cover      string  `json:"cover" example:"https://example.com/covers/messiah.jpg"`
}
