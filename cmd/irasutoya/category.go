package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/irasutoya/internal/model"
	"github.com/nao1215/irasutoya/internal/report"
	"github.com/spf13/cobra"
)

// errUnknownCategory is returned when a requested title is not in the sidebar.
var errUnknownCategory = errors.New("unknown category")

// NewCategoryCmd creates the category command.
func NewCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category [title...]",
		Short: "List post stubs grouped by category",
		Long: `List the post stubs of categories from the sidebar.

Only the first listing page of each category is read. Without arguments
every category is fetched in sidebar order; otherwise the named categories
are fetched in argument order. Categories are fetched one at a time with
--delay between them.

Examples:
  irasutoya category
  irasutoya category 動物 季節 --json`,
		Args: cobra.ArbitraryArgs,
		RunE: runCategoryCmd,
	}

	addFetchFlags(cmd, pageDelay)
	addOutputFlags(cmd)

	return cmd
}

// runCategoryCmd executes the category command.
func runCategoryCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, pageDelay)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext(cmd.Context(), a.logger)
	defer cancel()

	opts := a.cfg.CrawlOptions(a.cfg.Delay)

	var result *model.Irasutoya
	if len(args) == 0 {
		result, err = a.crawler.AllIrasuto(ctx, opts)
	} else {
		var all []model.Category
		if all, err = a.crawler.ListCategories(ctx, opts); err != nil {
			return fmt.Errorf("failed to list categories: %w", err)
		}
		var selected []model.Category
		if selected, err = selectCategories(all, args); err != nil {
			return err
		}
		result, err = a.crawler.CategoriesIrasuto(ctx, selected, opts)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch categories: %w", err)
	}

	return writeOutput(cmd, a.cfg, func(w report.Writer) (int, error) {
		return w.WriteIrasutoya(result)
	})
}

// selectCategories returns the categories named by titles, in titles order.
// Every unknown title is reported in one error.
func selectCategories(all []model.Category, titles []string) ([]model.Category, error) {
	byTitle := make(map[string]model.Category, len(all))
	for _, c := range all {
		if _, ok := byTitle[c.Title]; !ok {
			byTitle[c.Title] = c
		}
	}

	selected := make([]model.Category, 0, len(titles))
	var unknown []string
	for _, title := range titles {
		c, ok := byTitle[title]
		if !ok {
			unknown = append(unknown, title)
			continue
		}
		selected = append(selected, c)
	}

	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", errUnknownCategory, strings.Join(unknown, ", "))
	}
	return selected, nil
}
