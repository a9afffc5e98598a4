package fetcher

import (
	"context"
	"log/slog"
)

// retryConfig holds the optional settings of FetchWithRetry.
type retryConfig struct {
	// verbose reports every retry through logger.
	verbose bool

	// logger receives the retry diagnostics.
	logger *slog.Logger

	// onRetry is called before each retry with the 1-based retry number.
	onRetry func(retry int, err error)
}

// RetryOption configures FetchWithRetry.
type RetryOption func(*retryConfig)

// WithVerbose reports each retry as an Info log record.
// It has no effect on the retry behavior itself.
func WithVerbose(verbose bool) RetryOption {
	return func(c *retryConfig) {
		c.verbose = verbose
	}
}

// WithRetryLogger sets the logger used for retry diagnostics.
func WithRetryLogger(logger *slog.Logger) RetryOption {
	return func(c *retryConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithOnRetry registers a callback invoked before each retry.
func WithOnRetry(fn func(retry int, err error)) RetryOption {
	return func(c *retryConfig) {
		c.onRetry = fn
	}
}

// FetchWithRetry fetches rawURL through f, retrying immediately up to retries
// times after a failure. A negative retries value is treated as zero.
//
// When every attempt fails the error of the last attempt is returned as is.
// If ctx is done between attempts, ctx.Err() is returned instead.
func FetchWithRetry(ctx context.Context, f Fetcher, rawURL string, retries int, opts ...RetryOption) ([]byte, error) {
	cfg := retryConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	remaining := max(retries, 0)
	for attempt := 1; ; attempt++ {
		body, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return body, nil
		}

		if remaining == 0 {
			return nil, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		remaining--
		if cfg.onRetry != nil {
			cfg.onRetry(attempt, err)
		}
		if cfg.verbose {
			cfg.logger.Info("retrying fetch",
				"url", rawURL,
				"attempt", attempt,
				"remaining", remaining,
				"error", err,
			)
		}
	}
}
