package db

import "database/sql"

// MigrateUp creates the books table and its indexes. The table mirrors
// the CSV corpus shape so either source can back the index.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS books (
    id       BIGINT PRIMARY KEY,
    title    TEXT NOT NULL,
    author   TEXT NOT NULL,
    text     TEXT NOT NULL,
    rating   DOUBLE PRECISION NOT NULL DEFAULT 0,
    category TEXT,
    summary  TEXT,
    cover    TEXT
)`); err != nil {
		return err
	}

	indexes := []string{
		// Loads read in id order; reindex workers page by id.
		`CREATE INDEX IF NOT EXISTS idx_books_rating ON books(rating DESC)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// pg_trgm speeds up ILIKE title lookups in admin tooling. Ignore
	// errors: the extension needs superuser and is optional.
	_, _ = db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`)
	_, _ = db.Exec(`CREATE INDEX IF NOT EXISTS idx_books_title_gin ON books USING gin(title gin_trgm_ops)`)

	return nil
}

// MigrateDown drops the books table. Use with caution: this deletes the
// stored corpus.
func MigrateDown(db *sql.DB) error {
	stmts := []string{
		`DROP INDEX IF EXISTS idx_books_title_gin`,
		`DROP INDEX IF EXISTS idx_books_rating`,
		`DROP TABLE IF EXISTS books CASCADE`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
