package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/tropelink"
	"github.com/aretw0/tropelink/internal/config"
	"github.com/aretw0/tropelink/internal/metrics"
	"github.com/aretw0/tropelink/pkg/adapters/memory"
	"github.com/aretw0/tropelink/pkg/adapters/redis"
	"github.com/aretw0/tropelink/pkg/domain"
	"github.com/aretw0/tropelink/pkg/search"
)

// Stack is a ready to use Connector plus the resources backing it.
type Stack struct {
	Connector *tropelink.Connector
	Metrics   *metrics.Metrics
	Redis     *redis.NeighborStore
	Logger    *slog.Logger
}

// Open loads the configuration described by opts and builds its Stack.
func Open(ctx context.Context, opts Options) (*Stack, *config.Config, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	logger := createLogger(opts.Debug, opts.Quiet, cfg.LogLevel)

	stack, err := NewStack(ctx, cfg, logger, opts.Debug)
	if err != nil {
		return nil, nil, err
	}
	return stack, cfg, nil
}

// NewStack wires the Connector described by cfg: an offline graph file or the wiki,
// behind the configured neighbor cache, with metrics and debug hooks attached.
func NewStack(ctx context.Context, cfg *config.Config, logger *slog.Logger, debug bool) (*Stack, error) {
	policy, err := search.ParsePolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}

	s := &Stack{
		Metrics: metrics.New(),
		Logger:  logger,
	}

	hooks := []domain.SearchHooks{s.Metrics.Hooks()}
	if debug {
		hooks = append(hooks, createDebugHooks(logger))
	}

	opts := []tropelink.Option{
		tropelink.WithLogger(logger),
		tropelink.WithPolicy(policy),
		tropelink.WithMaxExpansions(cfg.MaxExpansions),
		tropelink.WithHooks(domain.MergeHooks(hooks...)),
		tropelink.WithCacheReporter(s.Metrics.CacheReporter()),
	}

	if cfg.Graph != "" {
		g, err := memory.LoadGraph(cfg.Graph)
		if err != nil {
			return nil, err
		}
		logger.Debug("Using offline graph", "path", cfg.Graph, "entities", len(g.Entities()))
		opts = append(opts, tropelink.WithSource(g))
	} else {
		opts = append(opts,
			tropelink.WithWikiConfig(cfg.Wiki),
			tropelink.WithFetchHook(s.Metrics.FetchHook()),
		)
	}

	switch cfg.Cache.Backend {
	case config.CacheMemory:
		opts = append(opts, tropelink.WithCache(memory.NewStore(
			memory.WithTTL(cfg.Cache.TTL),
			memory.WithCapacity(cfg.Cache.Capacity),
		)))
	case config.CacheNone:
		opts = append(opts, tropelink.WithoutCache())
	case config.CacheRedis:
		store, err := OpenRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s.Redis = store
		opts = append(opts, tropelink.WithCache(store))
	}

	conn, err := tropelink.New(opts...)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Connector = conn
	return s, nil
}

// OpenRedis connects to the configured Redis cache and checks it answers.
func OpenRedis(ctx context.Context, cfg *config.Config) (*redis.NeighborStore, error) {
	store := redis.New(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB,
		redis.WithTTL(cfg.Cache.TTL),
		redis.WithPrefix(cfg.Cache.Prefix),
	)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Cache.RedisAddr, err)
	}
	return store, nil
}

// WithRedisCache opens the Redis cache configured for opts, runs fn against it and closes it.
func WithRedisCache(ctx context.Context, opts Options, fn func(*redis.NeighborStore) error) error {
	opts.CacheBackend = config.CacheRedis
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}
	store, err := OpenRedis(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// Close releases the resources of the stack.
func (s *Stack) Close() {
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			s.Logger.Warn("Closing redis cache failed", "error", err)
		}
	}
}
