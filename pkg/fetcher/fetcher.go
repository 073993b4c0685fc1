// Package fetcher is the boundary to the outside world: it downloads a
// page, extracts readable text, and reports the hrefs it saw. The crawler
// only ever talks to the Fetcher interface, so tests and alternative
// backends can swap in a synthetic implementation.
package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/markusmobius/go-trafilatura"
	"github.com/rs/zerolog"
	"github.com/temoto/robotstxt"
	"golang.org/x/net/html"
	"golang.org/x/net/publicsuffix"

	"github.com/myKareem/PSUT-AI-AGENT/internal/models"
)

// Fetcher fetches a single page and reports extracted text plus the links
// discovered on it. A non-nil error means the transport gave up entirely;
// expected failures (bad status, non-HTML, robots denial) come back as
// Success=false with a nil error.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*models.FetchResult, error)
}

// Options configures an HTTP fetcher.
type Options struct {
	// BypassCache asks intermediaries for a fresh copy of every page.
	BypassCache bool
	// MinWordCount drops extracted content below this many words.
	MinWordCount int
	// Timeout bounds a single fetch attempt, including retries' backoff.
	Timeout time.Duration
	// FollowRobotsTxt enables the robots.txt gate. Failure to fetch or
	// parse robots.txt always means "allowed".
	FollowRobotsTxt bool
}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.5 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/115.0",
}

// HTTPFetcher is the production Fetcher: plain HTTP client, trafilatura
// text extraction, and an HTML walk for link discovery.
type HTTPFetcher struct {
	client  *http.Client
	opts    Options
	domain  string // eTLD+1 of the crawled site, for internal/external split
	logger  zerolog.Logger
	robots  *robotstxt.RobotsData
	robotsO sync.Once
}

// NewHTTP builds an HTTPFetcher for the site that baseURL belongs to.
func NewHTTP(baseURL string, opts Options, logger zerolog.Logger) (*HTTPFetcher, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	rootDomain, err := publicsuffix.EffectiveTLDPlusOne(u.Hostname())
	if err != nil {
		// Hosts without a public suffix (e.g. httptest servers) fall
		// back to the bare hostname.
		rootDomain = u.Hostname()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
	}
	return &HTTPFetcher{
		client: &http.Client{Transport: transport, Timeout: opts.Timeout},
		opts:   opts,
		domain: rootDomain,
		logger: logger.With().Str("component", "fetcher").Logger(),
	}, nil
}

// Fetch downloads pageURL and extracts its text and links.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (*models.FetchResult, error) {
	if f.opts.FollowRobotsTxt && !f.allowedByRobots(pageURL) {
		f.logger.Debug().Str("url", pageURL).Msg("disallowed by robots.txt")
		return &models.FetchResult{Success: false}, nil
	}

	body, err := f.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return &models.FetchResult{Success: false}, nil
	}

	content := f.extractText(body)
	if f.opts.MinWordCount > 0 && len(strings.Fields(content)) < f.opts.MinWordCount {
		content = ""
	}

	links := f.extractLinks(body, pageURL)
	return &models.FetchResult{
		Success: content != "",
		Content: content,
		Links:   links,
	}, nil
}

// get performs the HTTP request with up to three attempts. A nil, nil
// return means the server answered but the response is not a usable page.
func (f *HTTPFetcher) get(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if f.opts.BypassCache {
		req.Header.Set("Cache-Control", "no-cache")
		req.Header.Set("Pragma", "no-cache")
	}

	var lastErr error
	for retries := 0; retries < 3; retries++ {
		resp, err := f.client.Do(req)
		if err != nil {
			lastErr = err
			f.logger.Debug().Str("url", pageURL).Int("retry", retries+1).Err(err).Msg("fetch error")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(100*(1<<retries)) * time.Millisecond):
			}
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			f.logger.Debug().Str("url", pageURL).Int("status", resp.StatusCode).Msg("non-OK status")
			return nil, nil
		}
		if !isWebpageMIME(resp.Header.Get("Content-Type")) {
			resp.Body.Close()
			return nil, nil
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read body of %s: %w", pageURL, err)
		}
		return body, nil
	}
	return nil, fmt.Errorf("fetch %s: %w", pageURL, lastErr)
}

func (f *HTTPFetcher) extractText(body []byte) string {
	result, err := trafilatura.Extract(bytes.NewReader(body), trafilatura.Options{})
	if err != nil || result == nil {
		return fallbackTextExtraction(body)
	}
	return result.ContentText
}

// extractLinks walks the parsed document and splits hrefs into internal
// (same eTLD+1 as the crawled site, or relative) and external.
func (f *HTTPFetcher) extractLinks(body []byte, pageURL string) models.Links {
	var links models.Links
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return links
	}
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			var href string
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					href = attr.Val
				}
			}
			if href != "" && !seen[href] {
				seen[href] = true
				link := models.DiscoveredLink{Href: href, AnchorText: anchorText(n)}
				if f.isInternal(pageURL, href) {
					links.Internal = append(links.Internal, link)
				} else {
					links.External = append(links.External, link)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links
}

func (f *HTTPFetcher) isInternal(pageURL, href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	if u.Hostname() == "" {
		// Relative href, stays on the site.
		return true
	}
	linkedDomain, err := publicsuffix.EffectiveTLDPlusOne(u.Hostname())
	if err != nil {
		linkedDomain = u.Hostname()
	}
	return linkedDomain == f.domain
}

// allowedByRobots lazily loads robots.txt for the crawled site once per
// fetcher, then answers from the parsed rules.
func (f *HTTPFetcher) allowedByRobots(pageURL string) bool {
	f.robotsO.Do(func() {
		u, err := url.Parse(pageURL)
		if err != nil {
			return
		}
		robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)
		resp, err := f.client.Get(robotsURL)
		if err != nil || resp.StatusCode != http.StatusOK {
			if resp != nil {
				resp.Body.Close()
			}
			return
		}
		defer resp.Body.Close()
		robots, err := robotstxt.FromResponse(resp)
		if err != nil {
			return
		}
		f.robots = robots
	})
	if f.robots == nil {
		return true
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return true
	}
	return f.robots.TestAgent(u.Path, "SiteScraper")
}

func isWebpageMIME(contentType string) bool {
	mimeType := strings.Split(strings.ToLower(contentType), ";")[0]
	webpageMIMEs := []string{"text/html", "application/xhtml+xml", "application/xhtml", "text/xml", "application/xml"}
	for _, mime := range webpageMIMEs {
		if mime == strings.TrimSpace(mimeType) {
			return true
		}
	}
	return false
}

// fallbackTextExtraction concatenates text nodes when trafilatura finds
// nothing it considers article content.
func fallbackTextExtraction(body []byte) string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				b.WriteString(text)
				b.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return b.String()
}

func anchorText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
