package crawler

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	if opts.Retry != 0 {
		t.Errorf("Retry = %d, want 0", opts.Retry)
	}
	if opts.Depth != DepthUnbounded {
		t.Errorf("Depth = %d, want %d", opts.Depth, DepthUnbounded)
	}
	if opts.Delay != time.Second {
		t.Errorf("Delay = %v, want 1s", opts.Delay)
	}
	if opts.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", opts.Concurrency)
	}
	if opts.Verbose {
		t.Error("Verbose = true, want false")
	}
	if opts.Timeout != 0 {
		t.Errorf("Timeout = %v, want 0", opts.Timeout)
	}
	if err := opts.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Options)
		want   error
	}{
		{name: "zero depth", modify: func(o *Options) { o.Depth = 0 }},
		{name: "zero delay", modify: func(o *Options) { o.Delay = 0 }},
		{name: "negative retry", modify: func(o *Options) { o.Retry = -1 }, want: ErrNegativeRetry},
		{name: "depth below unbounded", modify: func(o *Options) { o.Depth = -2 }, want: ErrInvalidDepth},
		{name: "negative delay", modify: func(o *Options) { o.Delay = -time.Second }, want: ErrNegativeDelay},
		{name: "zero concurrency", modify: func(o *Options) { o.Concurrency = 0 }, want: ErrInvalidConcurrency},
		{name: "negative timeout", modify: func(o *Options) { o.Timeout = -1 }, want: ErrNegativeTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := DefaultOptions()
			tt.modify(&opts)
			if err := opts.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestInvalidOptionsAreRejectedBeforeFetching(t *testing.T) {
	t.Parallel()

	site, _ := chainSite(1)
	c := newTestCrawler(site, nil)

	opts := testOptions()
	opts.Concurrency = 0

	if _, err := c.CrawlAll(context.Background(), opts); !errors.Is(err, ErrInvalidConcurrency) {
		t.Fatalf("CrawlAll() error = %v, want ErrInvalidConcurrency", err)
	}
	if site.total() != 0 {
		t.Errorf("issued %d requests, want 0", site.total())
	}
}

func TestTimeoutBoundsTheCall(t *testing.T) {
	t.Parallel()

	site, _ := chainSite(5)
	c := newTestCrawler(site, nil)

	opts := testOptions()
	opts.Delay = time.Minute
	opts.Timeout = 50 * time.Millisecond

	start := time.Now()
	_, err := c.Walk(context.Background(), opts)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Walk() error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("Walk ignored the deadline for %v", elapsed)
	}
}
