// Package reporter aggregates page records into a run summary and
// persists the run's artifacts. Output is written once, at run end; a
// run whose results cannot be written has no value, so any write error
// is fatal and surfaced to the caller.
package reporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/myKareem/PSUT-AI-AGENT/internal/models"
	"github.com/myKareem/PSUT-AI-AGENT/pkg/cleaner"
)

const (
	contentFile = "all_content.json"
	summaryFile = "scraping_summary.json"
)

// Reporter writes crawl artifacts to a single output directory.
type Reporter struct {
	outputDir string
}

// New creates a Reporter rooted at outputDir. The directory is created
// on demand by Save.
func New(outputDir string) *Reporter {
	return &Reporter{outputDir: outputDir}
}

// Summarize computes the derived run summary: page count, URLs in
// discovery order, and total characters of cleaned content. Pure and
// total, no failure mode.
func Summarize(pages []models.Page) models.Summary {
	urls := make([]string, 0, len(pages))
	total := 0
	for _, p := range pages {
		urls = append(urls, p.URL)
		total += cleaner.Length(p.Content)
	}
	return models.Summary{
		TotalPages:      len(pages),
		URLs:            urls,
		TotalCharacters: total,
	}
}

// Save persists the three run artifacts: the aggregate record list, one
// text file per page, and the summary document.
func (r *Reporter) Save(result *models.CrawlResult) (models.Summary, error) {
	summary := Summarize(result.Pages)

	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return summary, fmt.Errorf("create output dir: %w", err)
	}
	if err := r.writeJSON(contentFile, result.Pages); err != nil {
		return summary, err
	}
	for i, page := range result.Pages {
		if err := r.writePage(i, page); err != nil {
			return summary, err
		}
	}
	if err := r.writeJSON(summaryFile, summary); err != nil {
		return summary, err
	}
	return summary, nil
}

// writeJSON marshals v as indented UTF-8 JSON. HTML escaping is off so
// Arabic text survives as readable characters rather than \u escapes.
func (r *Reporter) writeJSON(name string, v interface{}) error {
	path := filepath.Join(r.outputDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return nil
}

// writePage writes one page as a standalone text file named by its
// zero-padded discovery index.
func (r *Reporter) writePage(index int, page models.Page) error {
	name := fmt.Sprintf("page_%03d.txt", index)
	path := filepath.Join(r.outputDir, name)

	var b strings.Builder
	fmt.Fprintf(&b, "URL: %s\n", page.URL)
	fmt.Fprintf(&b, "Depth: %d\n", page.Depth)
	b.WriteString(strings.Repeat("=", 80))
	b.WriteString("\n\n")
	b.WriteString(page.Content)

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
