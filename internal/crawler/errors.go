package crawler

import "errors"

// Option validation errors returned by Options.Validate.
var (
	// ErrNegativeRetry is returned when the retry count is negative.
	ErrNegativeRetry = errors.New("invalid retry: must be non-negative")

	// ErrInvalidDepth is returned when the depth is below DepthUnbounded.
	ErrInvalidDepth = errors.New("invalid depth: must be non-negative or -1 for unbounded")

	// ErrNegativeDelay is returned when the throttle delay is negative.
	// Use 0 for no delay between requests.
	ErrNegativeDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidConcurrency is returned when the concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrNegativeTimeout is returned when the overall timeout is negative.
	// Use 0 for no deadline.
	ErrNegativeTimeout = errors.New("invalid timeout: must be non-negative")
)

// ErrInvalidURL is returned when a start, category or detail URL is not an
// absolute http(s) URL.
var ErrInvalidURL = errors.New("invalid url: must be an absolute http or https url")
