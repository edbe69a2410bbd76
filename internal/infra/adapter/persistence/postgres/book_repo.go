// Package postgres backs the corpus with a books table, for deployments
// where the dataset is mirrored into PostgreSQL instead of shipped as a
// CSV file alongside the binary.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"bookrec/internal/domain/entity"
	"bookrec/internal/infra/textenc"
	"bookrec/internal/repository"
)

// DefaultMaxRows bounds ingestion, matching the CSV source.
const DefaultMaxRows = 10000

type BookRepo struct {
	db      *sql.DB
	maxRows int
	repair  textenc.RepairFunc
}

// Option configures a BookRepo.
type Option func(*BookRepo)

// WithMaxRows overrides the ingestion row limit. Non-positive values
// disable the limit.
func WithMaxRows(n int) Option {
	return func(r *BookRepo) { r.maxRows = n }
}

// WithTextRepair overrides the per-field text repair hook.
func WithTextRepair(f textenc.RepairFunc) Option {
	return func(r *BookRepo) { r.repair = f }
}

func NewBookRepo(db *sql.DB, opts ...Option) repository.BookSource {
	repo := &BookRepo{
		db:      db,
		maxRows: DefaultMaxRows,
		repair:  textenc.Repair,
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// LoadAll reads the corpus in id order, bounded by the row limit. Row
// order defines index row positions, so it must be stable across loads.
func (repo *BookRepo) LoadAll(ctx context.Context) ([]entity.Book, error) {
	const query = `
SELECT id, title, author, text, rating, category, summary, cover
FROM books
ORDER BY id ASC
LIMIT $1`
	limit := repo.maxRows
	if limit <= 0 {
		limit = -1 // postgres treats negative LIMIT params as an error; use ALL
	}

	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = repo.db.QueryContext(ctx, query, limit)
	} else {
		rows, err = repo.db.QueryContext(ctx, `
SELECT id, title, author, text, rating, category, summary, cover
FROM books
ORDER BY id ASC`)
	}
	if err != nil {
		return nil, fmt.Errorf("LoadAll: %w", err)
	}
	defer func() { _ = rows.Close() }()

	books := make([]entity.Book, 0, 256)
	for rows.Next() {
		book, err := repo.scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("LoadAll: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("LoadAll: %w", err)
	}
	if len(books) == 0 {
		return nil, fmt.Errorf("books table: %w", entity.ErrEmptyCorpus)
	}
	return books, nil
}

func (repo *BookRepo) scanBook(rows *sql.Rows) (entity.Book, error) {
	var (
		book     entity.Book
		category sql.NullString
		summary  sql.NullString
		cover    sql.NullString
	)
	if err := rows.Scan(
		&book.ID, &book.Title, &book.Author, &book.Text, &book.Rating,
		&category, &summary, &cover,
	); err != nil {
		return entity.Book{}, err
	}

	book.Title = repo.repair(book.Title)
	book.Author = repo.repair(book.Author)
	book.Text = repo.repair(book.Text)
	book.Category = repo.repair(category.String)
	book.Summary = repo.repair(summary.String)
	book.Cover = cover.String
	return book, nil
}
