// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Book, along with
// their validation rules and domain-specific errors.
package entity

import "strings"

// PlaceholderCover is the cover URL used when a book has no cover image.
const PlaceholderCover = "https://via.placeholder.com/300x450?text=No+Cover"

// Book represents a single book in the recommendation corpus.
// Books are loaded once at startup and are immutable for the lifetime
// of an index snapshot.
type Book struct {
	ID       int64
	Title    string
	Author   string
	Text     string
	Rating   float64
	Category string
	Summary  string
	Cover    string
}

// HasRequiredFields reports whether the book carries the fields the
// indexer depends on. Rows failing this check are dropped from the
// corpus before vectorization.
func (b Book) HasRequiredFields() bool {
	return strings.TrimSpace(b.Title) != "" &&
		strings.TrimSpace(b.Author) != "" &&
		strings.TrimSpace(b.Text) != ""
}

// DisplayAuthor returns the author name prepared for display.
// Source data sometimes wraps author names in stray single quotes.
func (b Book) DisplayAuthor() string {
	author := strings.Trim(b.Author, "'")
	if author == "" {
		return "Unknown author"
	}
	return author
}

// DisplayCover returns the cover URL prepared for display, falling back
// to a placeholder image when the cover is missing.
func (b Book) DisplayCover() string {
	cover := strings.Trim(b.Cover, "'")
	if cover == "" {
		return PlaceholderCover
	}
	return cover
}

// DisplayCategory returns the category or a not-specified marker.
func (b Book) DisplayCategory() string {
	if b.Category == "" {
		return "Not specified"
	}
	return b.Category
}

// DisplaySummary returns the summary or a default description.
func (b Book) DisplaySummary() string {
	if b.Summary == "" {
		return "No description available"
	}
	return b.Summary
}
