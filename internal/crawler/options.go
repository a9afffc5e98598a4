package crawler

import "time"

// DepthUnbounded makes Walk follow the pager until the last page.
const DepthUnbounded = -1

// Defaults used by DefaultOptions.
const (
	// DefaultRetry is the number of retries after a failed fetch.
	DefaultRetry = 0

	// DefaultDelay is the pause between two listing page fetches.
	DefaultDelay = 1 * time.Second

	// DefaultDetailDelay is the throttle after each detail page fetch used by
	// the crawl command.
	DefaultDetailDelay = 500 * time.Millisecond

	// DefaultConcurrency is the number of detail pages fetched at once.
	DefaultConcurrency = 4
)

// Options configures a single crawler call. It is passed by value so a call
// never observes changes made by the caller afterwards.
type Options struct {
	// Retry is how many times a failed fetch is retried immediately.
	Retry int

	// Depth is how many "older posts" links Walk follows after the first
	// page. 0 fetches only the first page; DepthUnbounded follows the chain
	// to its end.
	Depth int

	// Delay is waited between listing page fetches, between categories, and
	// after each detail page fetch.
	Delay time.Duration

	// Concurrency caps the number of detail pages fetched at once.
	Concurrency int

	// Verbose reports every retry in the log.
	Verbose bool

	// Timeout bounds the whole call. 0 means no deadline beyond ctx.
	Timeout time.Duration
}

// DefaultOptions returns the options used when the caller sets nothing.
func DefaultOptions() Options {
	return Options{
		Retry:       DefaultRetry,
		Depth:       DepthUnbounded,
		Delay:       DefaultDelay,
		Concurrency: DefaultConcurrency,
	}
}

// Validate checks the options and returns the first problem found.
func (o Options) Validate() error {
	if o.Retry < 0 {
		return ErrNegativeRetry
	}
	if o.Depth < DepthUnbounded {
		return ErrInvalidDepth
	}
	if o.Delay < 0 {
		return ErrNegativeDelay
	}
	if o.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if o.Timeout < 0 {
		return ErrNegativeTimeout
	}
	return nil
}

// unbounded reports whether Walk follows the pager to the last page.
func (o Options) unbounded() bool {
	return o.Depth < 0
}
