package main

import (
	"fmt"
	"time"

	"github.com/nao1215/irasutoya/internal/config"
	"github.com/nao1215/irasutoya/internal/crawler"
	"github.com/spf13/cobra"
)

// delayTarget selects the Config field that --delay sets.
type delayTarget int

const (
	// pageDelay is the wait between listing pages and between categories.
	pageDelay delayTarget = iota

	// detailDelay is the wait after each detail page fetch.
	detailDelay
)

// addFetchFlags adds the flags shared by every command that talks to the site.
func addFetchFlags(cmd *cobra.Command, target delayTarget) {
	delay := config.NewConfig().Delay
	if target == detailDelay {
		delay = crawler.DefaultDetailDelay
	}

	cmd.Flags().String("base-url", config.DefaultBaseURL,
		"Front page the crawl starts from")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout of each request")
	cmd.Flags().Duration("deadline", 0,
		"Deadline of the whole command (0 means none)")
	cmd.Flags().IntP("retry", "r", crawler.DefaultRetry,
		"Number of immediate retries of a failed request")
	cmd.Flags().Duration("delay", delay,
		"Wait between requests")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address (e.g., 127.0.0.1:1080)")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().Bool("cache", false,
		"Serve pages from the local page cache when fresh")
	cmd.Flags().Duration("cache-ttl", config.DefaultCacheTTL,
		"How long cached pages stay fresh (0 keeps them forever)")
	cmd.Flags().String("cache-dir", "",
		"Page cache directory (default: XDG cache directory)")
}

// addDepthFlag adds the pagination depth flag.
func addDepthFlag(cmd *cobra.Command) {
	cmd.Flags().IntP("depth", "d", crawler.DepthUnbounded,
		`Number of "older posts" links to follow (-1 follows the whole chain)`)
}

// addConcurrencyFlag adds the detail worker count flag.
func addConcurrencyFlag(cmd *cobra.Command) {
	cmd.Flags().IntP("concurrency", "n", crawler.DefaultConcurrency,
		"Maximum number of detail pages fetched at once")
}

// addOutputFlags adds the report format and destination flags.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write output to specified file path (creates directories if needed)")
	cmd.Flags().Bool("with-meta", false,
		"Wrap JSON output with the irasutoya version and a timestamp")
	cmd.Flags().Bool("tee", false,
		"With --output, also print a plain-text rendition to stdout")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getLogJSONFlag retrieves the --log-json value from the command tree.
func getLogJSONFlag(cmd *cobra.Command) bool {
	f := cmd.Flag("log-json")
	return f != nil && f.Value.String() == "true"
}

// getConfigFlag retrieves the --config value from the command tree.
func getConfigFlag(cmd *cobra.Command) string {
	if f := cmd.Flag("config"); f != nil {
		return f.Value.String()
	}
	return ""
}

// changed reports whether the flag is defined on cmd and was set explicitly.
func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// buildConfig creates a Config from defaults, the configuration file and the
// flags of cmd, in that order of precedence. Only flags set explicitly
// override the file.
func buildConfig(cmd *cobra.Command, target delayTarget) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.LogJSON = getLogJSONFlag(cmd)
	cfg.ConfigFilePath = getConfigFlag(cmd)

	// A missing file is only an error when the user named it.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(file)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if err := applyFetchFlags(cmd, cfg, target); err != nil {
		return nil, err
	}
	if err := applyOutputFlags(cmd, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyFetchFlags copies the explicitly set fetch flags into cfg.
func applyFetchFlags(cmd *cobra.Command, cfg *config.Config, target delayTarget) error {
	flags := cmd.Flags()
	var err error

	if changed(cmd, "base-url") {
		if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
			return err
		}
	}
	if changed(cmd, "timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if changed(cmd, "deadline") {
		if cfg.Deadline, err = flags.GetDuration("deadline"); err != nil {
			return err
		}
	}
	if changed(cmd, "retry") {
		if cfg.Retry, err = flags.GetInt("retry"); err != nil {
			return err
		}
	}
	if changed(cmd, "delay") {
		var delay time.Duration
		if delay, err = flags.GetDuration("delay"); err != nil {
			return err
		}
		if target == detailDelay {
			cfg.DetailDelay = delay
		} else {
			cfg.Delay = delay
		}
	}
	if changed(cmd, "proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return err
		}
	}
	if changed(cmd, "user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return err
		}
	}
	if changed(cmd, "depth") {
		if cfg.Depth, err = flags.GetInt("depth"); err != nil {
			return err
		}
	}
	if changed(cmd, "concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return err
		}
	}
	if changed(cmd, "cache") {
		if cfg.UseCache, err = flags.GetBool("cache"); err != nil {
			return err
		}
	}
	if changed(cmd, "cache-ttl") {
		if cfg.CacheTTL, err = flags.GetDuration("cache-ttl"); err != nil {
			return err
		}
	}
	if changed(cmd, "cache-dir") {
		if cfg.CacheDir, err = flags.GetString("cache-dir"); err != nil {
			return err
		}
	}

	return nil
}

// applyOutputFlags copies the output flags into cfg.
// Output flags have no file counterpart, so defaults are copied as well.
func applyOutputFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Lookup("json") == nil {
		return nil
	}

	var err error
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return err
	}
	if cfg.JSONEnvelope, err = cmd.Flags().GetBool("with-meta"); err != nil {
		return err
	}
	if cfg.Tee, err = cmd.Flags().GetBool("tee"); err != nil {
		return err
	}
	return nil
}
