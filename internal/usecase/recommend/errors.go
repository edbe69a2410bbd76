package recommend

import (
	"errors"
	"fmt"

	"bookrec/internal/domain/entity"
)

var (
	// ErrInvalidQuery is returned when the query string is empty or blank.
	// It is a client-input error and matches entity.ErrInvalidInput.
	ErrInvalidQuery = fmt.Errorf("search query cannot be empty: %w", entity.ErrInvalidInput)

	// ErrIndexNotReady is returned while no index snapshot has been
	// published yet. Queries must not be served before the one-time
	// initialization barrier has passed.
	ErrIndexNotReady = errors.New("recommendation index is not ready")

	// ErrBookNotFound is returned when a book ID is not in the corpus.
	// It matches entity.ErrNotFound under errors.Is.
	ErrBookNotFound = fmt.Errorf("book %w", entity.ErrNotFound)
)
