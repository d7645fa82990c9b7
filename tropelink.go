package tropelink

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/tropelink/pkg/adapters/cache"
	"github.com/aretw0/tropelink/pkg/adapters/tvtropes"
	"github.com/aretw0/tropelink/pkg/domain"
	"github.com/aretw0/tropelink/pkg/ports"
	"github.com/aretw0/tropelink/pkg/search"
)

// Endpoint roles reported by domain.EndpointError.
const (
	RoleSource = "source"
	RoleTarget = "target"
)

// Connector is the high-level entry point of the library.
// It validates user supplied endpoints and runs a search between them.
type Connector struct {
	engine    *search.Engine
	source    ports.NeighborSource
	validator ports.EndpointValidator
	names     ports.NameResolver

	wiki          tvtropes.Config
	fetchHook     tvtropes.FetchHook
	neighborCache ports.NeighborCache
	cacheReporter func(cache.Result)
	noCache       bool

	hooks         domain.SearchHooks
	policy        search.Policy
	maxExpansions int
	logger        *slog.Logger
}

// Option defines a functional option for configuring the Connector.
type Option func(*Connector)

// WithSource injects a custom NeighborSource, bypassing the default wiki adapter.
// If the source also implements ports.EndpointValidator or ports.NameResolver it is used for those too.
func WithSource(s ports.NeighborSource) Option {
	return func(c *Connector) {
		c.source = s
	}
}

// WithValidator overrides endpoint validation.
func WithValidator(v ports.EndpointValidator) Option {
	return func(c *Connector) {
		c.validator = v
	}
}

// WithNames overrides display name resolution.
func WithNames(n ports.NameResolver) Option {
	return func(c *Connector) {
		c.names = n
	}
}

// WithWikiConfig configures the default wiki adapter.
func WithWikiConfig(cfg tvtropes.Config) Option {
	return func(c *Connector) {
		c.wiki = cfg
	}
}

// WithFetchHook observes every HTTP attempt of the default wiki adapter.
func WithFetchHook(h tvtropes.FetchHook) Option {
	return func(c *Connector) {
		c.fetchHook = h
	}
}

// WithCache sets the store backing the neighbor memo (default: in memory).
func WithCache(store ports.NeighborCache) Option {
	return func(c *Connector) {
		c.neighborCache = store
	}
}

// WithCacheReporter observes memo hits and misses.
func WithCacheReporter(fn func(cache.Result)) Option {
	return func(c *Connector) {
		c.cacheReporter = fn
	}
}

// WithoutCache disables the neighbor memo.
func WithoutCache() Option {
	return func(c *Connector) {
		c.noCache = true
	}
}

// WithHooks registers search observability hooks.
func WithHooks(hooks domain.SearchHooks) Option {
	return func(c *Connector) {
		c.hooks = hooks
	}
}

// WithPolicy sets the frontier policy (default: breadth-first).
func WithPolicy(p search.Policy) Option {
	return func(c *Connector) {
		c.policy = p
	}
}

// WithMaxExpansions caps the expansions of a single search. Zero means unlimited.
func WithMaxExpansions(n int) Option {
	return func(c *Connector) {
		c.maxExpansions = n
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Connector) {
		c.logger = logger
	}
}

// New initializes a Connector.
// By default it talks to the public wiki; WithSource swaps in any other graph.
func New(opts ...Option) (*Connector, error) {
	c := &Connector{
		wiki:   tvtropes.DefaultConfig(),
		policy: search.PolicyBreadthFirst,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if c.source == nil {
		fetcher, err := tvtropes.NewFetcher(c.wiki,
			tvtropes.WithLogger(c.logger),
			tvtropes.WithFetchHook(c.fetchHook),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize wiki adapter: %w", err)
		}
		c.source = tvtropes.NewSource(fetcher)
		if c.validator == nil {
			c.validator = tvtropes.NewValidator(fetcher)
		}
		if c.names == nil {
			c.names = tvtropes.NewNames(fetcher)
		}
	}

	if c.validator == nil {
		if v, ok := c.source.(ports.EndpointValidator); ok {
			c.validator = v
		} else {
			c.validator = trimValidator{}
		}
	}
	if c.names == nil {
		if n, ok := c.source.(ports.NameResolver); ok {
			c.names = n
		} else {
			c.names = identityNames{}
		}
	}

	neighbors := c.source
	if !c.noCache {
		neighbors = cache.New(c.source,
			cache.WithStore(c.neighborCache),
			cache.WithLogger(c.logger),
			cache.WithReporter(c.cacheReporter),
		)
	}

	c.engine = search.New(neighbors,
		search.WithPolicy(c.policy),
		search.WithLogger(c.logger),
		search.WithHooks(c.hooks),
		search.WithMaxExpansions(c.maxExpansions),
	)
	return c, nil
}

// Connect validates both endpoints, then searches for a chain between them.
// Validation failures are reported as *domain.EndpointError naming the offending role.
func (c *Connector) Connect(ctx context.Context, rawSource, rawTarget string) (*domain.Path, error) {
	source, err := c.Validate(ctx, RoleSource, rawSource)
	if err != nil {
		return nil, err
	}
	target, err := c.Validate(ctx, RoleTarget, rawTarget)
	if err != nil {
		return nil, err
	}
	return c.engine.Search(ctx, source, target)
}

// Validate canonicalizes one endpoint.
func (c *Connector) Validate(ctx context.Context, role, raw string) (string, error) {
	id, err := c.validator.Validate(ctx, raw)
	if err != nil {
		return "", &domain.EndpointError{Role: role, Input: raw, Err: err}
	}
	return id, nil
}

// Names returns the resolver used to present results.
func (c *Connector) Names() ports.NameResolver {
	return c.names
}

// Policy returns the frontier policy of the underlying engine.
func (c *Connector) Policy() search.Policy {
	return c.engine.Policy()
}

// trimValidator accepts any non-blank identifier.
type trimValidator struct{}

func (trimValidator) Validate(_ context.Context, raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", fmt.Errorf("%w: empty identifier", domain.ErrInvalidEndpoint)
	}
	return id, nil
}

type identityNames struct{}

func (identityNames) DisplayName(_ context.Context, id string) (string, error) {
	return id, nil
}
