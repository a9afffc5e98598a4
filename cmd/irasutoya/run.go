package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/irasutoya/internal/config"
	"github.com/nao1215/irasutoya/internal/crawler"
	"github.com/nao1215/irasutoya/internal/database"
	"github.com/nao1215/irasutoya/internal/fetcher"
	"github.com/nao1215/irasutoya/internal/log"
	"github.com/nao1215/irasutoya/internal/report"
	"github.com/spf13/cobra"
)

// app bundles what a crawling command needs.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	crawler *crawler.Crawler

	// cache is nil unless --cache is set.
	cache *database.PageCache
}

// newApp builds and validates the configuration of cmd and wires the crawler.
// The caller must Close the returned app.
func newApp(cmd *cobra.Command, target delayTarget) (*app, error) {
	cfg, err := buildConfig(cmd, target)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogJSON)
	slog.SetDefault(logger)

	client, err := fetcher.NewClient(cfg.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}

	var f fetcher.Fetcher = client
	if cfg.UseCache {
		a.cache, err = database.Open(cfg.CacheDir, database.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to open page cache: %w", err)
		}
		logger.Info("page cache opened", "path", a.cache.Path(), "ttl", cfg.CacheTTL)
		f = fetcher.NewCachingFetcher(client, a.cache, cfg.CacheTTL, fetcher.WithCacheLogger(logger))
	}

	a.crawler = crawler.New(f,
		crawler.WithBaseURL(cfg.BaseURL),
		crawler.WithSelectors(cfg.Selectors),
		crawler.WithLogger(logger),
	)

	return a, nil
}

// Close releases the page cache.
func (a *app) Close() error {
	if a.cache == nil {
		return nil
	}
	return a.cache.Close()
}

// setupLogger creates a structured logger that writes to w.
// Credentials in attributes are masked by the secure handler.
func setupLogger(w io.Writer, verbose, jsonFormat bool) *slog.Logger {
	if jsonFormat {
		return log.NewJSONLogger(w, verbose)
	}
	return log.NewLogger(w, verbose)
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

// newWriter returns the report writer selected by the output flags.
func newWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		opts := []report.JSONWriterOption{report.WithPrettyPrint()}
		if cfg.JSONEnvelope {
			opts = append(opts, report.WithEnvelope(getVersion()))
		}
		return report.NewJSONWriter(output, opts...)
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}

// writeOutput writes a result to stdout or to the --output file.
// With --tee the file is written first, then a plain-text copy goes to stdout.
func writeOutput(cmd *cobra.Command, cfg *config.Config, write func(report.Writer) (int, error)) (err error) {
	stdout := cmd.OutOrStdout()
	output := stdout

	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if mkErr := os.MkdirAll(dir, 0750); mkErr != nil {
				return fmt.Errorf("failed to create output directory: %w", mkErr)
			}
		}

		f, openErr := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if openErr != nil {
			return fmt.Errorf("failed to create output file: %w", openErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close output file: %w", cerr)
			}
		}()
		output = f
	}

	w := newWriter(cfg, output)
	if cfg.ReportFile != "" && cfg.Tee {
		w = report.NewMultiWriter(w, report.NewSimpleWriter(stdout, report.WithVerbose(cfg.Verbose)))
	}

	if _, err = write(w); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
