// Package scope decides which discovered URLs the crawler is allowed to
// follow: href resolution against a base URL plus the domain/path filter.
package scope

import (
	"net/url"
	"strings"
)

// Non-page asset extensions that are never worth fetching.
var skipExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".svg", ".ico",
	".pdf", ".zip", ".doc", ".docx", ".xls", ".xlsx",
	".mp4", ".mp3", ".css", ".js",
}

// Resolve resolves href against base and returns the absolute URL.
// Absolute hrefs pass through unchanged. Empty hrefs and non-http(s)
// schemes resolve to "", which callers treat as "skip", never an error.
func Resolve(base, href string) string {
	if strings.TrimSpace(href) == "" {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	refURL, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := baseURL.ResolveReference(refURL)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// InScope reports whether rawURL stays on the crawled site: the host must
// contain domain and the URL must contain pathPrefix. This is a scope
// filter, not deduplication; out-of-scope URLs never enter the visited set.
func InScope(rawURL, domain, pathPrefix string) bool {
	if rawURL == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return false
	}
	if !strings.Contains(u.Hostname(), domain) {
		return false
	}
	return pathPrefix == "" || strings.Contains(rawURL, pathPrefix)
}

// IsWebpageURL filters out asset links and fragment anchors before they
// reach the frontier.
func IsWebpageURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, ext := range skipExtensions {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}
	return !strings.Contains(rawURL, "#")
}
