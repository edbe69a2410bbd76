package recommend

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bookrec/internal/handler/http/respond"
	recUC "bookrec/internal/usecase/recommend"
)

type Handler struct{ Svc *recUC.Service }

// ServeHTTP answers recommendation queries. POST takes a JSON body;
// GET takes term and top_n query parameters. Both forms run the same
// lookup: fuzzy title match first, content search as fallback.
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	recs, err := h.Svc.Recommend(r.Context(), req.Term, req.TopN)
	if err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, recUC.ErrInvalidQuery):
			code = http.StatusBadRequest
		case errors.Is(err, recUC.ErrIndexNotReady):
			code = http.StatusServiceUnavailable
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(req.Term, recs))
}

func parseRequest(r *http.Request) (Request, error) {
	if r.Method == http.MethodGet {
		req := Request{Term: r.URL.Query().Get("term")}
		if v := r.URL.Query().Get("top_n"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return Request{}, errors.New("top_n must be a positive integer")
			}
			req.TopN = n
		}
		return req, nil
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return Request{}, errors.New("invalid request body")
	}
	if req.TopN < 0 {
		return Request{}, errors.New("top_n must be a positive integer")
	}
	return req, nil
}

// Register wires the recommendation routes into the mux.
func Register(mux *http.ServeMux, svc *recUC.Service) {
	h := Handler{Svc: svc}
	mux.Handle("GET /recommend", h)
	mux.Handle("POST /recommend", h)
}
