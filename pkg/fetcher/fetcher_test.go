package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPage = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
<article>
<h1>Admissions</h1>
<p>The admissions office handles undergraduate and graduate applications
throughout the academic year. Deadlines are published each semester and
applicants are encouraged to submit their documents early.</p>
<a href="/ar/apply">Apply now</a>
<a href="https://other.org/partner">Partner site</a>
</article>
</body>
</html>`

func newTestFetcher(t *testing.T, baseURL string, opts Options) *HTTPFetcher {
	t.Helper()
	f, err := NewHTTP(baseURL, opts, zerolog.Nop())
	require.NoError(t, err)
	return f
}

func TestFetchExtractsContentAndLinks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(testPage))
	}))
	defer server.Close()

	f := newTestFetcher(t, server.URL, Options{})
	result, err := f.Fetch(context.Background(), server.URL+"/ar")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Contains(t, result.Content, "admissions office")

	internal := make([]string, 0, len(result.Links.Internal))
	for _, l := range result.Links.Internal {
		internal = append(internal, l.Href)
	}
	assert.Contains(t, internal, "/ar/apply")

	external := make([]string, 0, len(result.Links.External))
	for _, l := range result.Links.External {
		external = append(external, l.Href)
	}
	assert.Contains(t, external, "https://other.org/partner")
}

func TestFetchNonOKStatusIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := newTestFetcher(t, server.URL, Options{})
	result, err := f.Fetch(context.Background(), server.URL+"/missing")
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestFetchSkipsNonWebpageMIME(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"not": "html"}`))
	}))
	defer server.Close()

	f := newTestFetcher(t, server.URL, Options{})
	result, err := f.Fetch(context.Background(), server.URL+"/api")
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestFetchAppliesMinWordCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><p>tiny page</p></body></html>`))
	}))
	defer server.Close()

	f := newTestFetcher(t, server.URL, Options{MinWordCount: 50})
	result, err := f.Fetch(context.Background(), server.URL+"/stub")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Empty(t, result.Content)
}

func TestFetchRespectsRobotsTxt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(testPage))
	}))
	defer server.Close()

	f := newTestFetcher(t, server.URL, Options{FollowRobotsTxt: true})

	blocked, err := f.Fetch(context.Background(), server.URL+"/private/page")
	require.NoError(t, err)
	assert.False(t, blocked.Success)

	allowed, err := f.Fetch(context.Background(), server.URL+"/public/page")
	require.NoError(t, err)
	assert.True(t, allowed.Success)
}

func TestFetchTransportFailureReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	f := newTestFetcher(t, url, Options{})
	_, err := f.Fetch(context.Background(), url+"/gone")
	assert.Error(t, err)
}

func TestFetchSendsCacheBypassHeaders(t *testing.T) {
	var gotCacheControl string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCacheControl = r.Header.Get("Cache-Control")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(testPage))
	}))
	defer server.Close()

	f := newTestFetcher(t, server.URL, Options{BypassCache: true})
	_, err := f.Fetch(context.Background(), server.URL+"/ar")
	require.NoError(t, err)
	assert.Equal(t, "no-cache", gotCacheControl)
}

func TestNewHTTPRejectsInvalidBaseURL(t *testing.T) {
	_, err := NewHTTP("http://[::bad", Options{}, zerolog.Nop())
	assert.Error(t, err)
}
