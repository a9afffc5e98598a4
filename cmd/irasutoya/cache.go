package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nao1215/irasutoya/internal/config"
	"github.com/nao1215/irasutoya/internal/database"
	"github.com/spf13/cobra"
)

// errInvalidAge is returned by cache prune for a non-positive --older-than.
var errInvalidAge = errors.New("--older-than must be positive")

// NewCacheCmd creates the cache command and its subcommands.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clean the local page cache",
		Long: `The page cache stores fetched pages in a SQLite database so that repeated
crawls with --cache do not hit the site again.

Examples:
  irasutoya cache stats
  irasutoya cache prune --older-than 168h
  irasutoya cache clear`,
	}

	cmd.PersistentFlags().String("cache-dir", "",
		"Page cache directory (default: XDG cache directory)")

	cmd.AddCommand(newCacheStatsCmd())
	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCachePruneCmd())

	return cmd
}

func newCacheStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the number, size and age of cached pages",
		Args:  cobra.NoArgs,
		RunE:  runCacheStatsCmd,
	}
	cmd.Flags().BoolP("json", "j", false, "Output JSON")
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached page",
		Args:  cobra.NoArgs,
		RunE:  runCacheClearCmd,
	}
}

func newCachePruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove cached pages older than a given age",
		Args:  cobra.NoArgs,
		RunE:  runCachePruneCmd,
	}
	cmd.Flags().Duration("older-than", config.DefaultCacheTTL,
		"Remove pages fetched longer ago than this")
	return cmd
}

// openCache opens the page cache selected by --cache-dir.
func openCache(cmd *cobra.Command) (*database.PageCache, error) {
	dir := config.XDGCacheDir()
	if f := cmd.Flag("cache-dir"); f != nil && f.Value.String() != "" {
		dir = f.Value.String()
	}

	cache, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open page cache: %w", err)
	}
	return cache, nil
}

// runCacheStatsCmd executes the cache stats command.
func runCacheStatsCmd(cmd *cobra.Command, _ []string) error {
	cache, err := openCache(cmd)
	if err != nil {
		return err
	}
	defer cache.Close()

	stats, err := cache.Stats(cmd.Context())
	if err != nil {
		return err
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(struct {
			Path string `json:"path"`
			database.Stats
		}{Path: cache.Path(), Stats: stats})
	}

	fmt.Fprintf(out, "Path:   %s\n", cache.Path())
	fmt.Fprintf(out, "Pages:  %d\n", stats.Pages)
	fmt.Fprintf(out, "Size:   %s\n", formatBytes(stats.Bytes))
	if stats.Pages > 0 {
		fmt.Fprintf(out, "Oldest: %s\n", stats.Oldest.Format(time.RFC3339))
		fmt.Fprintf(out, "Newest: %s\n", stats.Newest.Format(time.RFC3339))
	}
	return nil
}

// runCacheClearCmd executes the cache clear command.
func runCacheClearCmd(cmd *cobra.Command, _ []string) error {
	cache, err := openCache(cmd)
	if err != nil {
		return err
	}
	defer cache.Close()

	n, err := cache.Clear(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached page(s)\n", n)
	return nil
}

// runCachePruneCmd executes the cache prune command.
func runCachePruneCmd(cmd *cobra.Command, _ []string) error {
	age, err := cmd.Flags().GetDuration("older-than")
	if err != nil {
		return err
	}
	if age <= 0 {
		return errInvalidAge
	}

	cache, err := openCache(cmd)
	if err != nil {
		return err
	}
	defer cache.Close()

	n, err := cache.Prune(cmd.Context(), time.Now().Add(-age))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached page(s) older than %s\n", n, age)
	return nil
}

// formatBytes renders a byte count with a binary unit.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
