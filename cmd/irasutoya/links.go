package main

import (
	"fmt"

	"github.com/nao1215/irasutoya/internal/report"
	"github.com/spf13/cobra"
)

// NewLinksCmd creates the links command.
func NewLinksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links",
		Short: "List post stubs from the listing pages",
		Long: `Walk the "older posts" chain from the front page and list every post stub
(name, image URL and detail URL) without visiting the detail pages.

Examples:
  # Whole chain
  irasutoya links

  # Front page and the next two pages
  irasutoya links --depth 2

  # Front page only, as Markdown
  irasutoya links -d 0 -m`,
		Args: cobra.NoArgs,
		RunE: runLinksCmd,
	}

	addFetchFlags(cmd, pageDelay)
	addDepthFlag(cmd)
	addOutputFlags(cmd)

	return cmd
}

// runLinksCmd executes the links command.
func runLinksCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, pageDelay)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext(cmd.Context(), a.logger)
	defer cancel()

	links, err := a.crawler.ListAllLinks(ctx, a.cfg.CrawlOptions(a.cfg.Delay))
	if err != nil {
		return fmt.Errorf("failed to list posts: %w", err)
	}

	return writeOutput(cmd, a.cfg, func(w report.Writer) (int, error) {
		return w.WriteLinks(links)
	})
}
