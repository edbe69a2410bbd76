// Package book provides read-only access to the book corpus for the
// details and listing endpoints. It reads the same immutable index
// snapshots the recommendation engine queries.
package book

import (
	"context"
	"fmt"

	"bookrec/internal/common/pagination"
	"bookrec/internal/domain/entity"
	"bookrec/internal/recommend/index"
)

// Details is a book prepared for display: every field carries a safe
// default so callers never see missing values.
type Details struct {
	ID       int64
	Title    string
	Author   string
	Rating   float64
	Category string
	Language string
	Summary  string
	Cover    string
}

// Service provides book lookup use cases over the live index snapshot.
type Service struct {
	Indexes *index.Holder
}

// Get retrieves a single book by its ID, prepared for display.
// Returns ErrInvalidBookID if the ID is not positive and ErrBookNotFound
// if the book is not part of the corpus.
func (s *Service) Get(ctx context.Context, id int64) (*Details, error) {
	if id <= 0 {
		return nil, ErrInvalidBookID
	}
	idx, ok := s.Indexes.Snapshot()
	if !ok {
		return nil, ErrIndexNotReady
	}

	for _, b := range idx.Books() {
		if b.ID == id {
			return toDetails(b), nil
		}
	}
	return nil, fmt.Errorf("book %d: %w", id, ErrBookNotFound)
}

// List returns every book of the current corpus snapshot in row order.
func (s *Service) List(ctx context.Context) ([]entity.Book, error) {
	idx, ok := s.Indexes.Snapshot()
	if !ok {
		return nil, ErrIndexNotReady
	}
	return idx.Books(), nil
}

// PaginatedDetails is one page of display-ready books with pagination
// metadata.
type PaginatedDetails struct {
	Data       []Details
	Pagination pagination.Metadata
}

// ListPaginated returns one page of books in corpus row order.
func (s *Service) ListPaginated(ctx context.Context, params pagination.Params) (*PaginatedDetails, error) {
	idx, ok := s.Indexes.Snapshot()
	if !ok {
		return nil, ErrIndexNotReady
	}

	books := idx.Books()
	total := int64(len(books))
	offset := pagination.CalculateOffset(params.Page, params.Limit)

	page := make([]Details, 0, params.Limit)
	for i := offset; i < len(books) && i < offset+params.Limit; i++ {
		page = append(page, *toDetails(books[i]))
	}

	return &PaginatedDetails{
		Data: page,
		Pagination: pagination.Metadata{
			Total:      total,
			Page:       params.Page,
			Limit:      params.Limit,
			TotalPages: pagination.CalculateTotalPages(total, params.Limit),
		},
	}, nil
}

func toDetails(b entity.Book) *Details {
	return &Details{
		ID:       b.ID,
		Title:    b.Title,
		Author:   b.DisplayAuthor(),
		Rating:   b.Rating,
		Category: b.DisplayCategory(),
		Language: "English",
		Summary:  b.DisplaySummary(),
		Cover:    b.DisplayCover(),
	}
}
