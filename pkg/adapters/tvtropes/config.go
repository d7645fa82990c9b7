package tvtropes

import (
	"fmt"
	"net/url"
	"time"
)

// DefaultBaseURL is the public TV Tropes wiki.
const DefaultBaseURL = "https://tvtropes.org"

// Config controls how the adapter talks to the wiki.
// It is passed explicitly at construction so several sources can target different hosts.
type Config struct {
	// BaseURL is the scheme and host that relative links resolve against.
	BaseURL string `yaml:"base_url" json:"base_url" mapstructure:"base_url"`
	// Delay is the minimum spacing between two requests to the same host.
	Delay time.Duration `yaml:"delay" json:"delay" mapstructure:"delay"`
	// Timeout bounds a single HTTP request.
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
	// MaxRetries is the hard cap of attempts per page (including the first one).
	MaxRetries int `yaml:"max_retries" json:"max_retries" mapstructure:"max_retries"`
	// RetryBackoff is the initial wait between attempts; it grows exponentially.
	RetryBackoff time.Duration `yaml:"retry_backoff" json:"retry_backoff" mapstructure:"retry_backoff"`
	// Concurrency is how many relation pages of one entity are fetched in parallel.
	Concurrency int `yaml:"concurrency" json:"concurrency" mapstructure:"concurrency"`
	// PageCacheSize bounds the number of parsed pages kept in memory.
	PageCacheSize int `yaml:"page_cache_size" json:"page_cache_size" mapstructure:"page_cache_size"`
	// PageCacheTTL is how long a parsed page is reused before it is downloaded again.
	PageCacheTTL time.Duration `yaml:"page_cache_ttl" json:"page_cache_ttl" mapstructure:"page_cache_ttl"`
	// UserAgent is sent with every request.
	UserAgent string `yaml:"user_agent" json:"user_agent" mapstructure:"user_agent"`
}

// DefaultConfig is polite towards the wiki: one request per second.
func DefaultConfig() Config {
	return Config{
		BaseURL:       DefaultBaseURL,
		Delay:         time.Second,
		Timeout:       30 * time.Second,
		MaxRetries:    3,
		RetryBackoff:  500 * time.Millisecond,
		Concurrency:   4,
		PageCacheSize: 4096,
		PageCacheTTL:  time.Hour,
		UserAgent:     "tropelink/0.1 (+https://github.com/aretw0/tropelink)",
	}
}

// Validate checks the configuration and fills zero values with defaults.
func (c *Config) Validate() error {
	def := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = def.BaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q", c.BaseURL)
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay must not be negative")
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 1
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = def.RetryBackoff
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 1
	}
	if c.PageCacheSize <= 0 {
		c.PageCacheSize = def.PageCacheSize
	}
	if c.PageCacheTTL < 0 {
		return fmt.Errorf("page_cache_ttl must not be negative")
	}
	if c.PageCacheTTL == 0 {
		c.PageCacheTTL = def.PageCacheTTL
	}
	if c.UserAgent == "" {
		c.UserAgent = def.UserAgent
	}
	return nil
}
