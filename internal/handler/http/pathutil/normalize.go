package pathutil

import (
	"regexp"
	"strings"
)

// pathPatterns maps dynamic routes to templates so metrics labels stay
// bounded. Evaluated in order, most specific first.
var pathPatterns = []struct {
	pattern  *regexp.Regexp
	template string
}{
	{regexp.MustCompile(`^/books/\d+/similar$`), "/books/:id/similar"},
	{regexp.MustCompile(`^/books/\d+$`), "/books/:id"},
}

// NormalizePath converts paths containing IDs to template form, e.g.
// /books/123 becomes /books/:id. Static paths pass through unchanged.
// Query parameters and trailing slashes are stripped first.
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.pattern.MatchString(path) {
			return p.template
		}
	}
	return path
}
