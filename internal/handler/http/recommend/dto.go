// Package recommend provides the HTTP handler for the recommendation
// endpoint.
package recommend

import recUC "bookrec/internal/usecase/recommend"

// Request is the JSON body of a recommendation query.
type Request struct {
	Term string `json:"term" example:"the hobbit"`
	TopN int    `json:"top_n,omitempty" example:"10"`
}

// DTO represents one recommendation entry.
type DTO struct {
	ID         int64   `json:"id" example:"42"`
	Title      string  `json:"title" example:"the fellowship of the ring"`
	Similarity float64 `json:"similarity" example:"73.21"`
	Rating     float64 `json:"rating" example:"4.4"`
	Cover      string  `json:"cover" example:"https://example.com/covers/fellowship.jpg"`
}

// Response wraps the recommendation list with the query it answered.
type Response struct {
	Term            string `json:"term"`
	Count           int    `json:"count"`
	Recommendations []DTO  `json:"recommendations"`
}

func toResponse(term string, recs []recUC.Recommendation) Response {
	out := make([]DTO, 0, len(recs))
	for _, rec := range recs {
		out = append(out, DTO{
			ID:         rec.ID,
			Title:      rec.Title,
			Similarity: rec.Similarity,
			Rating:     rec.Rating,
			Cover:      rec.Cover,
		})
	}
	return Response{Term: term, Count: len(out), Recommendations: out}
}
