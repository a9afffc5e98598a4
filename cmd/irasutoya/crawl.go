package main

import (
	"fmt"

	"github.com/nao1215/irasutoya/internal/report"
	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl the whole site",
		Long: `Crawl walks the "older posts" chain from the front page, then fetches the
detail page of every post with a bounded number of workers.

Records keep the order of the listing pages. Posts whose markup cannot be
read are skipped and listed at the end of the output. A network error that
persists after the retries stops the crawl.

Examples:
  # Full crawl with the default throttle
  irasutoya crawl --json -o irasutoya.json

  # First three listing pages, two workers, stop after ten minutes
  irasutoya crawl -d 2 -n 2 --deadline 10m

  # Reuse pages fetched in the last day
  irasutoya crawl --cache --cache-ttl 24h -m -o report.md`,
		Args: cobra.NoArgs,
		RunE: runCrawlCmd,
	}

	addFetchFlags(cmd, detailDelay)
	addDepthFlag(cmd)
	addConcurrencyFlag(cmd)
	addOutputFlags(cmd)

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, detailDelay)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext(cmd.Context(), a.logger)
	defer cancel()

	a.logger.Info("starting crawl",
		"baseURL", a.cfg.BaseURL,
		"depth", a.cfg.Depth,
		"concurrency", a.cfg.Concurrency,
		"delay", a.cfg.DetailDelay,
		"cache", a.cfg.UseCache,
	)

	result, err := a.crawler.CrawlAll(ctx, a.cfg.CrawlOptions(a.cfg.DetailDelay))
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	return writeOutput(cmd, a.cfg, func(w report.Writer) (int, error) {
		return w.WriteCrawlResult(result)
	})
}
