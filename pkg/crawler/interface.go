package crawler

import (
	"context"

	"github.com/myKareem/PSUT-AI-AGENT/internal/models"
)

// Engine is the traversal contract the CLI and reporter depend on.
// *Crawler is the only production implementation; tests provide their own.
type Engine interface {
	// Run crawls from the configured base URL and returns the collected
	// page records. Per-page failures are absorbed; the returned error
	// is non-nil only when the run as a whole was stopped.
	Run(ctx context.Context) (*models.CrawlResult, error)
}

var _ Engine = (*Crawler)(nil)
