package config

import (
	"time"

	"github.com/nao1215/irasutoya/internal/extract"
)

// File represents the structure of the .irasutoya configuration file.
// Pointer fields distinguish "not set" from an explicit zero, which matters
// for depth 0 and retry 0.
type File struct {
	// BaseURL overrides the front page the crawl starts from.
	BaseURL string `yaml:"base_url,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"user_agent,omitempty"`

	// Cookie is an HTTP cookie sent with every request.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers sent with every request.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Proxy is a SOCKS5 proxy address in "host:port" format.
	Proxy string `yaml:"proxy,omitempty"`

	// Timeout bounds each request, e.g. "30s".
	Timeout *time.Duration `yaml:"timeout,omitempty"`

	Retry       *int           `yaml:"retry,omitempty"`
	Depth       *int           `yaml:"depth,omitempty"`
	Delay       *time.Duration `yaml:"delay,omitempty"`
	DetailDelay *time.Duration `yaml:"detail_delay,omitempty"`
	Concurrency *int           `yaml:"concurrency,omitempty"`
	CacheTTL    *time.Duration `yaml:"cache_ttl,omitempty"`

	// Selectors override the CSS selectors used to read the site template.
	// Omitted selectors keep their defaults.
	Selectors extract.Selectors `yaml:"selectors,omitempty"`
}
