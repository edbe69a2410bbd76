// Package csvstore loads the book corpus from a CSV export. It is the
// default corpus source: the dataset is a static file read once at
// startup (and again on explicit reindex), never written.
package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"bookrec/internal/domain/entity"
	"bookrec/internal/infra/textenc"
	"bookrec/internal/repository"
)

// DefaultMaxRows bounds ingestion for resource control. The corpus file
// may be much larger than what the in-memory index should hold.
const DefaultMaxRows = 10000

// ErrMissingColumns indicates the CSV header lacks required columns.
// This is fatal at startup: the engine must not index a corpus with an
// unknown shape.
var ErrMissingColumns = errors.New("corpus is missing required columns")

// Required and optional column names are an external contract with the
// dataset; the mixed casing is the dataset's, not ours.
var requiredColumns = []string{"id", "title", "author", "text", "Rating"}

// coverSentinels are values the dataset uses for "no cover".
var coverSentinels = map[string]struct{}{"": {}, "0": {}, "NaN": {}}

// BookStore reads books from a CSV file.
type BookStore struct {
	path    string
	maxRows int
	repair  textenc.RepairFunc
}

// Option configures a BookStore.
type Option func(*BookStore)

// WithMaxRows overrides the ingestion row limit. Non-positive values
// disable the limit.
func WithMaxRows(n int) Option {
	return func(s *BookStore) { s.maxRows = n }
}

// WithTextRepair overrides the per-field text repair hook. Use
// textenc.Noop for known-clean datasets.
func WithTextRepair(f textenc.RepairFunc) Option {
	return func(s *BookStore) { s.repair = f }
}

// NewBookStore creates a CSV-backed corpus source for the given file.
func NewBookStore(path string, opts ...Option) repository.BookSource {
	s := &BookStore{
		path:    path,
		maxRows: DefaultMaxRows,
		repair:  textenc.Repair,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadAll reads up to the configured number of rows from the CSV file in
// file order. Text fields pass through the repair hook; rows that fail
// CSV parsing are skipped with a log entry. Returns ErrMissingColumns
// when the header is incomplete and entity.ErrEmptyCorpus when the file
// holds no data rows.
func (s *BookStore) LoadAll(ctx context.Context) ([]entity.Book, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows; they are skipped below

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read corpus header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	books := make([]entity.Book, 0, 256)
	skipped := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("load corpus: %w", err)
		}
		if s.maxRows > 0 && len(books)+skipped >= s.maxRows {
			break
		}

		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read corpus row: %w", err)
		}
		if len(record) < len(header) {
			skipped++
			continue
		}

		books = append(books, s.toBook(record, cols))
	}

	if len(books) == 0 {
		return nil, fmt.Errorf("corpus %s: %w", s.path, entity.ErrEmptyCorpus)
	}
	if skipped > 0 {
		slog.Warn("skipped ragged corpus rows",
			slog.String("path", s.path),
			slog.Int("skipped", skipped))
	}
	slog.Info("corpus loaded from CSV",
		slog.String("path", s.path),
		slog.Int("books", len(books)))
	return books, nil
}

// columns maps column names to their index in the header.
type columns map[string]int

func mapColumns(header []string) (columns, error) {
	cols := make(columns, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return cols, nil
}

func (s *BookStore) toBook(record []string, cols columns) entity.Book {
	get := func(name string) string {
		if i, ok := cols[name]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	id, err := strconv.ParseInt(get("id"), 10, 64)
	if err != nil {
		id = 0 // absent or malformed; surfaced to callers as a null ID
	}
	rating, err := strconv.ParseFloat(get("Rating"), 64)
	if err != nil || rating < 0 {
		rating = 0.0
	}

	cover := get("Cover")
	if _, sentinel := coverSentinels[cover]; sentinel {
		cover = ""
	}

	return entity.Book{
		ID:       id,
		Title:    s.repair(get("title")),
		Author:   s.repair(get("author")),
		Text:     s.repair(get("text")),
		Rating:   rating,
		Category: s.repair(get("Category")),
		Summary:  s.repair(get("Summary")),
		Cover:    cover,
	}
}
