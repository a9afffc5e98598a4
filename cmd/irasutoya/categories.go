package main

import (
	"fmt"

	"github.com/nao1215/irasutoya/internal/report"
	"github.com/spf13/cobra"
)

// NewCategoriesCmd creates the categories command.
func NewCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the categories of the sidebar",
		Long: `List the categories shown in the sidebar of the front page.

Only the front page is fetched. Category URLs are printed as they appear
in the page.

Examples:
  irasutoya categories
  irasutoya categories --json -o categories.json`,
		Args: cobra.NoArgs,
		RunE: runCategoriesCmd,
	}

	addFetchFlags(cmd, pageDelay)
	addOutputFlags(cmd)

	return cmd
}

// runCategoriesCmd executes the categories command.
func runCategoriesCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, pageDelay)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext(cmd.Context(), a.logger)
	defer cancel()

	categories, err := a.crawler.ListCategories(ctx, a.cfg.CrawlOptions(a.cfg.Delay))
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	return writeOutput(cmd, a.cfg, func(w report.Writer) (int, error) {
		return w.WriteCategories(categories)
	})
}
