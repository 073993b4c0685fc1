package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/myKareem/PSUT-AI-AGENT/internal/config"
	"github.com/myKareem/PSUT-AI-AGENT/pkg/crawler"
	"github.com/myKareem/PSUT-AI-AGENT/pkg/fetcher"
	"github.com/myKareem/PSUT-AI-AGENT/pkg/reporter"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "scraper",
	Short: "Bounded site scraper for building a text corpus",
	Long: `scraper performs a bounded, depth-limited crawl of a single site,
extracts readable text from each page, and writes the results as
structured records plus a run summary.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [URL]",
	Short: "Crawl a site and persist extracted text",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlags(cmd, cfg, args)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		logger, err := newLogger(cfg.Logging)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		f, err := fetcher.NewHTTP(cfg.Crawler.BaseURL, fetcher.Options{
			BypassCache:     cfg.Crawler.BypassCache,
			MinWordCount:    cfg.Crawler.MinWordCount,
			Timeout:         cfg.Crawler.Timeout,
			FollowRobotsTxt: cfg.Crawler.FollowRobotsTxt,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to create fetcher: %w", err)
		}

		c := crawler.New(cfg.Crawler, f, logger)
		result, runErr := c.Run(ctx)
		if len(result.Pages) == 0 && runErr != nil {
			return fmt.Errorf("crawl aborted before any page was scraped: %w", runErr)
		}

		summary, err := reporter.New(cfg.Storage.OutputDir).Save(result)
		if err != nil {
			return fmt.Errorf("failed to save results: %w", err)
		}

		logger.Info().
			Int("total_pages", summary.TotalPages).
			Int("total_characters", summary.TotalCharacters).
			Str("output_dir", cfg.Storage.OutputDir).
			Msg("scraping complete")
		return nil
	},
}

// applyFlags lets command-line flags override file and environment config.
func applyFlags(cmd *cobra.Command, cfg *config.Config, args []string) {
	if len(args) > 0 {
		cfg.Crawler.BaseURL = args[0]
	}
	if cmd.Flags().Changed("domain") {
		cfg.Crawler.Domain, _ = cmd.Flags().GetString("domain")
	}
	if cmd.Flags().Changed("path-prefix") {
		cfg.Crawler.PathPrefix, _ = cmd.Flags().GetString("path-prefix")
	}
	if cmd.Flags().Changed("max-pages") {
		cfg.Crawler.MaxPages, _ = cmd.Flags().GetInt("max-pages")
	}
	if cmd.Flags().Changed("max-depth") {
		cfg.Crawler.MaxDepth, _ = cmd.Flags().GetInt("max-depth")
	}
	if cmd.Flags().Changed("min-content-length") {
		cfg.Crawler.MinContentLength, _ = cmd.Flags().GetInt("min-content-length")
	}
	if cmd.Flags().Changed("delay") {
		cfg.Crawler.RequestDelay, _ = cmd.Flags().GetDuration("delay")
	}
	if cmd.Flags().Changed("workers") {
		cfg.Crawler.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("output") {
		cfg.Storage.OutputDir, _ = cmd.Flags().GetString("output")
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}
}

func newLogger(cfg config.LoggingConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger(), nil
}

func init() {
	crawlCmd.Flags().String("domain", "", "Domain filter (host must contain this)")
	crawlCmd.Flags().String("path-prefix", "", "Required path substring")
	crawlCmd.Flags().Int("max-pages", 3000, "Maximum pages to visit")
	crawlCmd.Flags().Int("max-depth", 10, "Maximum link depth from the base URL")
	crawlCmd.Flags().Int("min-content-length", 100, "Minimum characters of cleaned content to keep a page")
	crawlCmd.Flags().Duration("delay", 500*time.Millisecond, "Minimum spacing between requests")
	crawlCmd.Flags().Int("workers", 1, "Concurrent fetch workers")
	crawlCmd.Flags().String("output", "", "Output directory for crawl results")

	rootCmd.AddCommand(crawlCmd)

	rootCmd.PersistentFlags().String("config", "", "Config file path")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
