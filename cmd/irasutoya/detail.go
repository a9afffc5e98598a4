package main

import (
	"errors"
	"fmt"

	"github.com/nao1215/irasutoya/internal/report"
	"github.com/spf13/cobra"
)

// errNothingExtracted is returned when every requested detail page was skipped.
var errNothingExtracted = errors.New("no illustration could be extracted")

// NewDetailCmd creates the detail command.
func NewDetailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detail <url>...",
		Short: "Extract illustrations from detail pages",
		Long: `Fetch the given detail pages and extract the name, image, thumbnail,
categories and description of each illustration.

URLs may be relative to the base URL. Pages whose markup cannot be read are
skipped with a warning; the command fails only when nothing was extracted.

Examples:
  irasutoya detail https://www.irasutoya.com/2020/01/blog-post_1.html
  irasutoya detail /2020/01/blog-post_1.html /2020/01/blog-post_2.html --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runDetailCmd,
	}

	addFetchFlags(cmd, detailDelay)
	addConcurrencyFlag(cmd)
	addOutputFlags(cmd)

	return cmd
}

// runDetailCmd executes the detail command.
func runDetailCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, detailDelay)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext(cmd.Context(), a.logger)
	defer cancel()

	result, err := a.crawler.FetchDetails(ctx, args, a.cfg.CrawlOptions(a.cfg.DetailDelay))
	if err != nil {
		return fmt.Errorf("failed to fetch detail pages: %w", err)
	}

	if err := writeOutput(cmd, a.cfg, func(w report.Writer) (int, error) {
		return w.WriteIrasuto(result.Irasuto)
	}); err != nil {
		return err
	}

	if result.Len() == 0 {
		return fmt.Errorf("%w: %d page(s) skipped", errNothingExtracted, len(result.Skipped))
	}
	return nil
}
