package app

import (
	"net/url"
	"strings"
)

// originAllowed reports whether a browser Origin matches any configured
// pattern. Patterns are host-based: exact ("app.unjargon.ai"), wildcard
// subdomain ("*.unjargon.ai"), or any-port ("localhost:*").
func originAllowed(patterns []string, origin string) bool {
	host := origin
	if u, err := url.Parse(origin); err == nil && u.Host != "" {
		host = u.Host
	}

	for _, pattern := range patterns {
		switch {
		case pattern == host:
			return true
		case strings.HasPrefix(pattern, "*."):
			// ".unjargon.ai" suffix, so "evilunjargon.ai" cannot match.
			if strings.HasSuffix(host, pattern[1:]) {
				return true
			}
		case strings.HasSuffix(pattern, ":*"):
			if strings.HasPrefix(host, pattern[:len(pattern)-1]) {
				return true
			}
		}
	}
	return false
}
