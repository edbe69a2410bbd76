// Package repository defines the persistence interfaces consumed by the
// use case layer. Concrete adapters live under internal/infra/adapter.
package repository

import (
	"context"

	"bookrec/internal/domain/entity"
)

// BookSource loads the recommendation corpus. Implementations read a
// static data source (CSV export, Postgres catalog) once per index
// build; the engine never writes back.
type BookSource interface {
	// LoadAll returns every book the source provides, in source order.
	// Source order is significant: it defines the row index used as the
	// similarity-matrix axis. Implementations may bound the number of
	// rows returned for resource control.
	LoadAll(ctx context.Context) ([]entity.Book, error)
}
