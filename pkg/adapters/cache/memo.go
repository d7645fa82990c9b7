package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/aretw0/tropelink/pkg/adapters/memory"
	"github.com/aretw0/tropelink/pkg/domain"
	"github.com/aretw0/tropelink/pkg/ports"
)

// Result labels a memo lookup for instrumentation.
type Result string

const (
	Hit  Result = "hit"
	Miss Result = "miss"
)

// Memo decorates a NeighborSource with a cache keyed by canonical entity identifier.
// Concurrent lookups of the same entity share one call to the underlying source.
// Failed lookups are never cached.
type Memo struct {
	source ports.NeighborSource
	store  ports.NeighborCache
	logger *slog.Logger
	report func(Result)
	flight singleflight.Group
	// timeout bounds a shared lookup, which no longer follows any single caller's context.
	timeout time.Duration
}

// DefaultFlightTimeout bounds one underlying lookup shared by concurrent callers.
const DefaultFlightTimeout = 10 * time.Minute

// Option configures the Memo.
type Option func(*Memo)

// WithStore sets the backing cache. Defaults to an in-memory store.
func WithStore(store ports.NeighborCache) Option {
	return func(m *Memo) {
		if store != nil {
			m.store = store
		}
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Memo) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithReporter registers a callback invoked with the outcome of every lookup.
func WithReporter(fn func(Result)) Option {
	return func(m *Memo) { m.report = fn }
}

// WithFlightTimeout bounds each underlying lookup. Zero disables the bound.
func WithFlightTimeout(d time.Duration) Option {
	return func(m *Memo) { m.timeout = d }
}

// New wraps source.
func New(source ports.NeighborSource, opts ...Option) *Memo {
	m := &Memo{
		source:  source,
		store:   memory.NewStore(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout: DefaultFlightTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Neighbors answers from the cache when possible and fills it otherwise.
// A cache that cannot be read or written degrades to direct lookups.
func (m *Memo) Neighbors(ctx context.Context, entity string) ([]domain.Edge, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewLookupError(entity, err)
	}

	edges, err := m.store.Get(ctx, entity)
	switch {
	case err == nil:
		m.observe(Hit)
		return edges, nil
	case !errors.Is(err, domain.ErrNotFound):
		m.logger.Warn("Neighbor cache read failed", "entity", entity, "error", err)
	}
	m.observe(Miss)

	// The shared lookup runs detached from the caller that started it, so a caller that
	// gives up does not fail the others waiting on the same entity.
	ch := m.flight.DoChan(entity, func() (any, error) {
		flightCtx, cancel := m.flightContext(ctx)
		defer cancel()
		// A flight that finished between our read and DoChan has already filled the store.
		if edges, err := m.store.Get(flightCtx, entity); err == nil {
			return edges, nil
		}
		edges, err := m.source.Neighbors(flightCtx, entity)
		if err != nil {
			return nil, err
		}
		if err := m.store.Set(flightCtx, entity, edges); err != nil {
			m.logger.Warn("Neighbor cache write failed", "entity", entity, "error", err)
		}
		return edges, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, domain.NewLookupError(entity, ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, domain.NewLookupError(entity, res.Err)
	}
	v, shared := res.Val, res.Shared
	if shared {
		m.logger.Debug("Shared in-flight lookup", "entity", entity)
	}

	out := v.([]domain.Edge)
	if shared {
		// Callers own their slice.
		out = append([]domain.Edge(nil), out...)
	}
	return out, nil
}

// Forget evicts entity so its next lookup hits the underlying source.
func (m *Memo) Forget(ctx context.Context, entity string) error {
	m.flight.Forget(entity)
	return m.store.Delete(ctx, entity)
}

func (m *Memo) flightContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if m.timeout <= 0 {
		return context.WithCancel(detached)
	}
	return context.WithTimeout(detached, m.timeout)
}

func (m *Memo) observe(r Result) {
	if m.report != nil {
		m.report(r)
	}
}
