package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/irasutoya/internal/crawler"
	"github.com/nao1215/irasutoya/internal/extract"
	"github.com/nao1215/irasutoya/internal/fetcher"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "irasutoya"

	// DefaultBaseURL is the front page of the site.
	DefaultBaseURL = crawler.DefaultBaseURL

	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = fetcher.DefaultTimeout

	// DefaultUserAgent identifies the crawler in HTTP requests so that the
	// site operator can recognize its traffic.
	DefaultUserAgent = fetcher.DefaultUserAgent

	// DefaultMaxBodySize limits the response body size to read.
	DefaultMaxBodySize = fetcher.DefaultMaxBodySize

	// DefaultCacheTTL is how long a cached page is served before it is refetched.
	DefaultCacheTTL = 24 * time.Hour
)

// Config holds all configuration options of the CLI.
// It is populated from the configuration file and CLI flags and passed
// through the application rather than kept in global state.
type Config struct {
	// BaseURL is the front page the crawl starts from.
	BaseURL string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// Deadline bounds a whole command. 0 means no deadline.
	Deadline time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// Cookie is sent with every request when set.
	Cookie string

	// Headers are extra HTTP headers sent with every request.
	Headers map[string]string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	ProxyAddress string

	// MaxBodySize is the maximum response body size in bytes.
	// Set to 0 to use the default.
	MaxBodySize int64

	// Retry is how many times a failed fetch is retried.
	Retry int

	// Depth is how many "older posts" links are followed. -1 is unbounded.
	Depth int

	// Delay is waited between listing pages and between categories.
	Delay time.Duration

	// DetailDelay is waited after each detail page fetch.
	DetailDelay time.Duration

	// Concurrency caps the number of detail pages fetched at once.
	Concurrency int

	// Verbose enables debug logging and retry diagnostics.
	Verbose bool

	// LogJSON writes log records as JSON instead of text.
	LogJSON bool

	// Selectors locate the data in the site template.
	Selectors extract.Selectors

	// UseCache serves pages from the SQLite page cache when possible.
	UseCache bool

	// CacheTTL is how long cached pages stay fresh. 0 keeps them forever.
	CacheTTL time.Duration

	// CacheDir is the directory of the page cache database.
	CacheDir string

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// JSONReport writes the output as JSON.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport writes the output as Markdown.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// JSONEnvelope wraps JSON output with the tool version and a timestamp.
	JSONEnvelope bool

	// ReportFile is the output file path. Empty means stdout.
	ReportFile string

	// Tee also prints a plain-text rendition to stdout when ReportFile is set.
	Tee bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	opts := crawler.DefaultOptions()
	return &Config{
		BaseURL:     DefaultBaseURL,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		Retry:       opts.Retry,
		Depth:       opts.Depth,
		Delay:       opts.Delay,
		DetailDelay: crawler.DefaultDetailDelay,
		Concurrency: opts.Concurrency,
		Selectors:   extract.DefaultSelectors(),
		CacheTTL:    DefaultCacheTTL,
		CacheDir:    XDGCacheDir(),
	}
}

// ApplyFile copies the values set in f over c.
// Fields left out of the file keep their current value.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	if f.BaseURL != "" {
		c.BaseURL = f.BaseURL
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.Cookie != "" {
		c.Cookie = f.Cookie
	}
	if len(f.Headers) > 0 {
		if c.Headers == nil {
			c.Headers = make(map[string]string, len(f.Headers))
		}
		for k, v := range f.Headers {
			c.Headers[k] = v
		}
	}
	if f.Proxy != "" {
		c.ProxyAddress = f.Proxy
	}
	if f.Timeout != nil {
		c.Timeout = *f.Timeout
	}
	if f.Retry != nil {
		c.Retry = *f.Retry
	}
	if f.Depth != nil {
		c.Depth = *f.Depth
	}
	if f.Delay != nil {
		c.Delay = *f.Delay
	}
	if f.DetailDelay != nil {
		c.DetailDelay = *f.DetailDelay
	}
	if f.Concurrency != nil {
		c.Concurrency = *f.Concurrency
	}
	if f.CacheTTL != nil {
		c.CacheTTL = *f.CacheTTL
	}
	c.Selectors = f.Selectors.WithDefaults()
}

// CrawlOptions returns the per-call crawler options.
// delay is the throttle of the command: Delay for listings, DetailDelay for crawls.
func (c *Config) CrawlOptions(delay time.Duration) crawler.Options {
	return crawler.Options{
		Retry:       c.Retry,
		Depth:       c.Depth,
		Delay:       delay,
		Concurrency: c.Concurrency,
		Verbose:     c.Verbose,
		Timeout:     c.Deadline,
	}
}

// ClientOptions returns the HTTP client options.
func (c *Config) ClientOptions() []fetcher.ClientOption {
	opts := []fetcher.ClientOption{
		fetcher.WithTimeout(c.Timeout),
		fetcher.WithUserAgent(c.UserAgent),
		fetcher.WithMaxBodySize(c.MaxBodySize),
	}
	if len(c.Headers) > 0 {
		opts = append(opts, fetcher.WithHeaders(c.Headers))
	}
	if c.Cookie != "" {
		opts = append(opts, fetcher.WithCookie(c.Cookie))
	}
	if c.ProxyAddress != "" {
		opts = append(opts, fetcher.WithProxy(c.ProxyAddress))
	}
	return opts
}

// XDGConfigDir returns the XDG config directory for irasutoya.
// On Linux: ~/.config/irasutoya
// On macOS: ~/Library/Application Support/irasutoya
// On Windows: %APPDATA%\irasutoya
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for irasutoya.
// On Linux: ~/.cache/irasutoya
// On macOS: ~/Library/Caches/irasutoya
// On Windows: %LOCALAPPDATA%\irasutoya\cache
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found; fixing one often makes others irrelevant.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Deadline < 0 {
		return ErrInvalidDeadline
	}

	if c.Retry < 0 {
		return ErrInvalidRetry
	}

	if c.Depth < crawler.DepthUnbounded {
		return ErrInvalidDepth
	}

	if c.Delay < 0 || c.DetailDelay < 0 {
		return ErrInvalidCrawlDelay
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.CacheTTL < 0 {
		return ErrInvalidCacheTTL
	}

	return nil
}
