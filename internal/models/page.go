package models

import "time"

// Page represents a single scraped page that passed the minimum-content
// check. Records are immutable once created and are kept in discovery order.
type Page struct {
	URL     string `json:"url"`
	Content string `json:"content"`
	Depth   int    `json:"depth"`
}

// DiscoveredLink is a single href found on a fetched page. Internal links
// point within the crawled site; external links are reported but never
// followed.
type DiscoveredLink struct {
	Href       string `json:"href"`
	AnchorText string `json:"anchor_text,omitempty"`
}

// Links groups discovered hrefs by whether they stay on the crawled site.
type Links struct {
	Internal []DiscoveredLink `json:"internal"`
	External []DiscoveredLink `json:"external"`
}

// FetchResult is the outcome of one fetch attempt, as produced by the
// page fetcher. A failed fetch is a value (Success=false), not an error:
// errors are reserved for transport-level problems the caller may want
// to log with context.
type FetchResult struct {
	Success bool   `json:"success"`
	Content string `json:"content"`
	Links   Links  `json:"links"`
}

// CrawlResult contains everything one run produced.
type CrawlResult struct {
	BaseURL    string    `json:"base_url"`
	Pages      []Page    `json:"pages"`
	TotalPages int       `json:"total_pages"`
	CrawlTime  time.Time `json:"crawl_time"`
	ErrorCount int       `json:"error_count"`
}

// Summary is the derived, read-only view computed once at run end.
type Summary struct {
	TotalPages      int      `json:"total_pages"`
	URLs            []string `json:"urls"`
	TotalCharacters int      `json:"total_characters"`
}
