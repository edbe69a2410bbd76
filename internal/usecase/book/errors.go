package book

import (
	"errors"
	"fmt"

	"bookrec/internal/domain/entity"
)

var (
	// ErrBookNotFound is returned when the requested book is not in the
	// corpus. It matches entity.ErrNotFound under errors.Is.
	ErrBookNotFound = fmt.Errorf("book %w", entity.ErrNotFound)

	// ErrInvalidBookID is returned when the book ID is not positive.
	// It matches entity.ErrInvalidInput under errors.Is.
	ErrInvalidBookID = fmt.Errorf("book ID: %w", entity.ErrInvalidInput)

	// ErrIndexNotReady is returned before the first corpus snapshot is published.
	ErrIndexNotReady = errors.New("book corpus is not ready")
)
