// Package book provides HTTP handlers for the book detail and listing
// endpoints.
package book

import bookUC "bookrec/internal/usecase/book"

// DTO represents the JSON structure for book details.
type DTO struct {
	ID       int64   `json:"id" example:"1"`
	Title    string  `json:"title" example:"Dune"`
	Author   string  `json:"author" example:"Frank Herbert"`
	Rating   float64 `json:"rating" example:"4.5"`
	Category string  `json:"category" example:"Science Fiction"`
	Language string  `json:"language" example:"English"`
	Summary  string  `json:"summary" example:"A desert planet holds the key to the spice."`
	Cover    string  `json:"cover" example:"https://example.com/covers/dune.jpg"`
}

func toDTO(d bookUC.Details) DTO {
	return DTO{
		ID:       d.ID,
		Title:    d.Title,
		Author:   d.Author,
		Rating:   d.Rating,
		Category: d.Category,
		Language: d.Language,
		Summary:  d.Summary,
		Cover:    d.Cover,
	}
}
