package pagination

// CalculateOffset converts a 1-based page number to a slice or SQL
// offset: page 1 starts at 0.
func CalculateOffset(page, limit int) int {
	return (page - 1) * limit
}

// CalculateTotalPages returns ceil(total/limit), and never less than 1
// so an empty corpus still reports a single page.
func CalculateTotalPages(total int64, limit int) int {
	if total == 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
