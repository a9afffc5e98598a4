package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/irasutoya/internal/extract"
	"github.com/nao1215/irasutoya/internal/fetcher"
	"github.com/nao1215/irasutoya/internal/model"
)

// DefaultBaseURL is the front page of the site.
const DefaultBaseURL = "https://www.irasutoya.com/"

// Crawler fetches and extracts pages of the site.
// A Crawler holds no per-call state and may be shared between goroutines.
type Crawler struct {
	// fetcher performs the actual requests.
	fetcher fetcher.Fetcher

	// extractor locates the data in fetched documents.
	extractor *extract.Extractor

	// baseURL is the first listing page and the base for relative category URLs.
	baseURL string

	// logger receives skip and retry diagnostics.
	logger *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithBaseURL sets the front page the crawl starts from.
func WithBaseURL(baseURL string) Option {
	return func(c *Crawler) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithSelectors overrides the selectors of the extractor.
// Empty fields keep their defaults.
func WithSelectors(s extract.Selectors) Option {
	return func(c *Crawler) {
		c.extractor = extract.New(extract.WithSelectors(s))
	}
}

// WithExtractor replaces the extractor.
func WithExtractor(e *extract.Extractor) Option {
	return func(c *Crawler) {
		if e != nil {
			c.extractor = e
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Crawler that fetches through f.
func New(f fetcher.Fetcher, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:   f,
		extractor: extract.New(),
		baseURL:   DefaultBaseURL,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the front page URL.
func (c *Crawler) BaseURL() string {
	return c.baseURL
}

// begin validates opts and applies the overall deadline.
// The returned cancel function must always be called.
func begin(ctx context.Context, opts Options) (context.Context, context.CancelFunc, error) {
	if err := opts.Validate(); err != nil {
		return ctx, func() {}, err
	}
	if opts.Timeout > 0 {
		ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
		return ctx, cancel, nil
	}
	ctx, cancel := context.WithCancel(ctx)
	return ctx, cancel, nil
}

// fetchDocument fetches rawURL with the retry policy of opts and parses it.
func (c *Crawler) fetchDocument(ctx context.Context, rawURL string, opts Options) (*goquery.Document, error) {
	body, err := fetcher.FetchWithRetry(ctx, c.fetcher, rawURL, opts.Retry,
		fetcher.WithVerbose(opts.Verbose),
		fetcher.WithRetryLogger(c.logger),
	)
	if err != nil {
		return nil, err
	}

	doc, err := extract.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rawURL, err)
	}
	return doc, nil
}

// resolve turns ref into an absolute http(s) URL relative to the base URL.
func (c *Crawler) resolve(ref string) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, c.baseURL)
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, ref)
	}
	u = base.ResolveReference(u)
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, ref)
	}
	return u.String(), nil
}

// logSkips reports dropped items.
func (c *Crawler) logSkips(skips []model.Skip) {
	for _, s := range skips {
		c.logSkip(s)
	}
}

func (c *Crawler) logSkip(s model.Skip) {
	c.logger.Warn("skipped item",
		"url", s.URL,
		"stage", s.Stage,
		"reason", s.Reason,
	)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
