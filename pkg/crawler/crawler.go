// Package crawler implements the traversal engine: an iterative,
// frontier-driven walk of one site that claims each URL exactly once,
// honors page and depth caps, rate-limits outbound fetches, and keeps
// going when individual pages fail.
package crawler

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/myKareem/PSUT-AI-AGENT/internal/config"
	"github.com/myKareem/PSUT-AI-AGENT/internal/models"
	"github.com/myKareem/PSUT-AI-AGENT/pkg/cleaner"
	"github.com/myKareem/PSUT-AI-AGENT/pkg/fetcher"
	"github.com/myKareem/PSUT-AI-AGENT/pkg/scope"
)

type frontierItem struct {
	URL   string
	Depth int
}

// Crawler drives one run. It owns the visited set, the frontier queue and
// the accumulated page records; the fetcher is an injected collaborator.
type Crawler struct {
	cfg     config.CrawlerConfig
	fetch   fetcher.Fetcher
	visited *VisitedSet
	limiter *rate.Limiter
	logger  zerolog.Logger

	// frontier queue, guarded by queueMu. active counts workers that are
	// mid-visit and may still enqueue links; the queue is only drained
	// for good once it is empty and nothing is active.
	queueMu   sync.Mutex
	queueCond *sync.Cond
	queue     *list.List
	active    int
	stopped   bool

	// results, guarded by resMu.
	resMu  sync.Mutex
	pages  []models.Page
	errors int
}

// New builds a Crawler from run configuration and a page fetcher.
func New(cfg config.CrawlerConfig, f fetcher.Fetcher, logger zerolog.Logger) *Crawler {
	delay := cfg.RequestDelay
	limiter := rate.NewLimiter(rate.Inf, 1)
	if delay > 0 {
		limiter = rate.NewLimiter(rate.Every(delay), 1)
	}
	c := &Crawler{
		cfg:     cfg,
		fetch:   f,
		visited: NewVisitedSet(),
		limiter: limiter,
		logger:  logger.With().Str("component", "crawler").Logger(),
		queue:   list.New(),
	}
	c.queueCond = sync.NewCond(&c.queueMu)
	return c
}

// Run crawls from the configured base URL until the frontier drains, the
// page cap is hit, or ctx is canceled. Per-page failures never abort the
// run; the only error Run returns is the context's.
func (c *Crawler) Run(ctx context.Context) (*models.CrawlResult, error) {
	start := time.Now()
	c.push(frontierItem{URL: c.cfg.BaseURL, Depth: 0})

	// Wake any worker parked on the queue when the context dies.
	unblock := context.AfterFunc(ctx, func() {
		c.queueMu.Lock()
		c.stopped = true
		c.queueMu.Unlock()
		c.queueCond.Broadcast()
	})
	defer unblock()

	workers := c.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	g := new(errgroup.Group)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for {
				item, ok := c.next()
				if !ok {
					return nil
				}
				c.visit(ctx, item)
				c.release()
			}
		})
	}
	_ = g.Wait()

	result := &models.CrawlResult{
		BaseURL:    c.cfg.BaseURL,
		Pages:      c.pages,
		TotalPages: len(c.pages),
		CrawlTime:  start,
		ErrorCount: c.errors,
	}
	c.logger.Info().
		Int("pages", result.TotalPages).
		Int("visited", c.visited.Size()).
		Int("errors", result.ErrorCount).
		Dur("elapsed", time.Since(start)).
		Msg("crawl finished")
	return result, ctx.Err()
}

// next blocks until a frontier item is available, all work is done, or
// the run is stopped. It marks the caller active on success.
func (c *Crawler) next() (frontierItem, bool) {
	c.queueMu.Lock()
	defer c.queueMu.Unlock()
	for c.queue.Len() == 0 && c.active > 0 && !c.stopped {
		c.queueCond.Wait()
	}
	if c.stopped || c.queue.Len() == 0 {
		return frontierItem{}, false
	}
	elem := c.queue.Front()
	c.queue.Remove(elem)
	c.active++
	return elem.Value.(frontierItem), true
}

// release marks the caller idle again and wakes workers so they can
// re-check the drain condition.
func (c *Crawler) release() {
	c.queueMu.Lock()
	c.active--
	c.queueMu.Unlock()
	c.queueCond.Broadcast()
}

func (c *Crawler) push(item frontierItem) {
	c.queueMu.Lock()
	c.queue.PushBack(item)
	c.queueMu.Unlock()
	c.queueCond.Signal()
}

// visit processes a single frontier item: guards, claim, fetch, clean,
// accept, expand. Every early return is a silent skip, never an error.
func (c *Crawler) visit(ctx context.Context, item frontierItem) {
	if ctx.Err() != nil {
		return
	}
	if item.Depth > c.cfg.MaxDepth {
		return
	}
	// Scope is checked before claiming: out-of-scope URLs never enter
	// the visited set, they are filtered, not deduplicated.
	if !scope.InScope(item.URL, c.cfg.Domain, c.cfg.PathPrefix) {
		return
	}
	if !c.visited.TryClaimLimited(item.URL, c.cfg.MaxPages) {
		return
	}

	c.logger.Info().
		Str("url", item.URL).
		Int("depth", item.Depth).
		Int("visited", c.visited.Size()).
		Int("max", c.cfg.MaxPages).
		Msg("crawling")

	if err := c.limiter.Wait(ctx); err != nil {
		return
	}

	result, err := c.fetch.Fetch(ctx, item.URL)
	if err != nil {
		// A dead page ends this branch of the traversal, nothing more.
		c.logger.Warn().Str("url", item.URL).Err(err).Msg("fetch failed")
		c.resMu.Lock()
		c.errors++
		c.resMu.Unlock()
		return
	}
	if !result.Success || result.Content == "" {
		c.logger.Debug().Str("url", item.URL).Msg("no content or failed")
		return
	}

	content := cleaner.Clean(result.Content)
	if !cleaner.Acceptable(content, c.cfg.MinContentLength) {
		c.logger.Debug().Str("url", item.URL).Msg("content too short")
		return
	}

	c.resMu.Lock()
	c.pages = append(c.pages, models.Page{URL: item.URL, Content: content, Depth: item.Depth})
	c.resMu.Unlock()
	c.logger.Info().Str("url", item.URL).Int("characters", cleaner.Length(content)).Msg("saved")

	c.expand(item, result.Links.Internal)
}

// expand resolves the page's internal links and feeds the unseen ones
// back into the frontier at depth+1. Hrefs are resolved against the run's
// base URL, matching the original scrape; see DESIGN.md for the tradeoff
// on sites that use page-relative links.
func (c *Crawler) expand(item frontierItem, links []models.DiscoveredLink) {
	for _, link := range links {
		abs := scope.Resolve(c.cfg.BaseURL, link.Href)
		if abs == "" || !scope.IsWebpageURL(abs) {
			continue
		}
		if c.visited.Contains(abs) {
			continue
		}
		c.push(frontierItem{URL: abs, Depth: item.Depth + 1})
	}
}
