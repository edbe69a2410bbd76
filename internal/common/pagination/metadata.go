package pagination

// Metadata describes the page a list response covers.
type Metadata struct {
	// Total counts items across all pages, not just this one.
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}
