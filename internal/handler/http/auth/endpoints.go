package auth

import "strings"

// PublicEndpoints lists paths that never require authentication.
// Recommendation and book lookups are the product surface and stay
// open; health and metrics endpoints serve orchestration and
// monitoring; the token endpoint cannot itself require a token.
var PublicEndpoints = []string{
	"/health",
	"/ready",
	"/live",
	"/metrics",
	"/auth/token",
	"/recommend",
	"/books",
}

// IsPublicEndpoint reports whether a path is publicly accessible.
// Entries ending in '/' match by prefix; all others match exactly,
// with a trailing slash, a subpath, or query parameters allowed.
func IsPublicEndpoint(path string) bool {
	for _, endpoint := range PublicEndpoints {
		if strings.HasSuffix(endpoint, "/") {
			if strings.HasPrefix(path, endpoint) {
				return true
			}
			continue
		}
		if path == endpoint || path == endpoint+"/" {
			return true
		}
		if strings.HasPrefix(path, endpoint+"/") || strings.HasPrefix(path, endpoint+"?") {
			return true
		}
	}
	return false
}
