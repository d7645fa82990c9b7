package tvtropes

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v5"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// maxPageBytes caps how much of a response body is parsed.
const maxPageBytes = 16 << 20

// HTTPClient allows injecting custom transports for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// FetchHook is called once per HTTP attempt.
// status is 0 when the request failed before a response was received.
type FetchHook func(pageURL string, status int, err error, elapsed time.Duration)

// Page is a downloaded and parsed wiki page.
type Page struct {
	URL string
	Doc *goquery.Document
}

// Fetcher downloads wiki pages politely. Requests to the same host are spaced by
// Config.Delay, transient failures are retried up to Config.MaxRetries times, and parsed
// pages are memoized for Config.PageCacheTTL so one URL is downloaded once within that window.
type Fetcher struct {
	cfg    Config
	client HTTPClient
	logger *slog.Logger
	hook   FetchHook

	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	flight singleflight.Group
	pages  *expirable.LRU[string, *Page]
}

// FetcherOption configures the Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPClient) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithFetchHook registers a callback invoked after every HTTP attempt.
func WithFetchHook(h FetchHook) FetcherOption {
	return func(f *Fetcher) { f.hook = h }
}

// NewFetcher creates a Fetcher for the given configuration.
func NewFetcher(cfg Config, opts ...FetcherOption) (*Fetcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pages := expirable.NewLRU[string, *Page](cfg.PageCacheSize, nil, cfg.PageCacheTTL)

	f := &Fetcher{
		cfg:      cfg,
		client:   &http.Client{Timeout: cfg.Timeout},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		limiters: make(map[string]*rate.Limiter),
		pages:    pages,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Config returns the effective configuration.
func (f *Fetcher) Config() Config {
	return f.cfg
}

// Fetch returns the parsed page at pageURL, downloading it at most once.
// Concurrent callers share one download, which runs detached from any single caller:
// a caller whose context ends returns early without failing the others.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p, ok := f.pages.Get(pageURL); ok {
		return p, nil
	}

	ch := f.flight.DoChan(pageURL, func() (any, error) {
		if p, ok := f.pages.Get(pageURL); ok {
			return p, nil
		}
		// Each attempt is bounded by Config.Timeout and attempts by Config.MaxRetries.
		p, err := f.download(context.WithoutCancel(ctx), pageURL)
		if err != nil {
			return nil, err
		}
		f.pages.Add(pageURL, p)
		return p, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Page), nil
	}
}

// download performs the GET with politeness spacing and bounded exponential retry.
func (f *Fetcher) download(ctx context.Context, pageURL string) (*Page, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page url %q: %w", pageURL, err)
	}
	limiter := f.limiterFor(u.Host)

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = f.cfg.RetryBackoff
	policy.MaxInterval = 30 * time.Second

	attempt := func() (*Page, error) {
		if err := limiter.Wait(ctx); err != nil {
			return nil, backoff.Permanent(err)
		}
		return f.get(ctx, pageURL)
	}

	page, err := backoff.Retry(ctx, attempt,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(f.cfg.MaxRetries)),
		backoff.WithNotify(func(err error, next time.Duration) {
			f.logger.Debug("Retrying page fetch", "url", pageURL, "error", err, "backoff", next)
		}),
	)
	if err != nil {
		f.logger.Warn("Page fetch failed", "url", pageURL, "error", err)
		return nil, err
	}
	return page, nil
}

func (f *Fetcher) get(ctx context.Context, pageURL string) (*Page, error) {
	started := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		f.report(pageURL, 0, err, started)
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		statusErr := &StatusError{URL: pageURL, StatusCode: resp.StatusCode}
		f.report(pageURL, resp.StatusCode, statusErr, started)
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		if statusErr.Temporary() {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	f.report(pageURL, resp.StatusCode, err, started)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("parse %s: %w", pageURL, err))
	}

	f.logger.Debug("Fetched page", "url", pageURL, "elapsed", time.Since(started))
	return &Page{URL: pageURL, Doc: doc}, nil
}

func (f *Fetcher) report(pageURL string, status int, err error, started time.Time) {
	if f.hook != nil {
		f.hook(pageURL, status, err, time.Since(started))
	}
}

// limiterFor returns the shared limiter for host, creating it on first use.
func (f *Fetcher) limiterFor(host string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()

	if l, ok := f.limiters[host]; ok {
		return l
	}
	limit := rate.Inf
	if f.cfg.Delay > 0 {
		limit = rate.Every(f.cfg.Delay)
	}
	l := rate.NewLimiter(limit, 1)
	f.limiters[host] = l
	return l
}
