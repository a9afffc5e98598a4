package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for irasutoya.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "irasutoya",
		Short: "Crawler for the irasutoya illustration catalogue",
		Long: `irasutoya crawls https://www.irasutoya.com/ and extracts its illustrations.

It lists the sidebar categories, walks the "older posts" chain of the front
page, and reads each detail page for the name, image, thumbnail, categories
and description of an illustration. Posts whose markup cannot be read are
skipped and reported instead of failing the crawl.

Requests are throttled. Please keep the delays at their defaults unless you
are crawling a mirror you operate.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .irasutoya in current or home directory)")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs to stderr as JSON")

	// Add subcommands
	cmd.AddCommand(NewCategoriesCmd())
	cmd.AddCommand(NewLinksCmd())
	cmd.AddCommand(NewDetailCmd())
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewCategoryCmd())
	cmd.AddCommand(NewCacheCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
