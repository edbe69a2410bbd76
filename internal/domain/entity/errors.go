package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a book ID absent from the corpus snapshot.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput reports a malformed identifier or field value.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyCorpus reports a corpus with no usable books after
	// filtering. Building an index from one is fatal.
	ErrEmptyCorpus = errors.New("corpus is empty after filtering")
)

// ValidationError names the field that failed validation so ingestion
// can report which CSV column or database row was bad.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
