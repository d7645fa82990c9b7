package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/tropelink/pkg/domain"
)

// DefaultPrefix namespaces every key written by NeighborStore.
const DefaultPrefix = "tropelink:neighbors:"

// NeighborStore implements ports.NeighborCache using Redis.
// Neighbor sets are stored as JSON; an index ZSET tracks cached entities by expiry.
type NeighborStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*NeighborStore)

// WithTTL sets the expiration of cached neighbor sets.
func WithTTL(ttl time.Duration) Option {
	return func(s *NeighborStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *NeighborStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *NeighborStore {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *NeighborStore {
	store := &NeighborStore{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Entity keys and the index live in separate namespaces under the prefix,
// so no entity identifier can collide with the index.
const (
	entityNamespace = "e:"
	indexSuffix     = "_index"
)

func (s *NeighborStore) key(entity string) string {
	return s.prefix + entityNamespace + entity
}

func (s *NeighborStore) indexKey() string {
	return s.prefix + indexSuffix
}

// Set caches the edges of entity.
func (s *NeighborStore) Set(ctx context.Context, entity string, edges []domain.Edge) error {
	if edges == nil {
		edges = []domain.Edge{}
	}
	data, err := json.Marshal(edges)
	if err != nil {
		return fmt.Errorf("failed to marshal edges: %w", err)
	}

	// Score = expiry time, or far future when entries never expire.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(entity), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: entity})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Get returns the cached edges of entity, or domain.ErrNotFound.
func (s *NeighborStore) Get(ctx context.Context, entity string) ([]domain.Edge, error) {
	val, err := s.client.Get(ctx, s.key(entity)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var edges []domain.Edge
	if err := json.Unmarshal(val, &edges); err != nil {
		return nil, fmt.Errorf("failed to unmarshal edges: %w", err)
	}
	return edges, nil
}

// Delete evicts entity.
func (s *NeighborStore) Delete(ctx context.Context, entity string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(entity))
	pipe.ZRem(ctx, s.indexKey(), entity)
	_, err := pipe.Exec(ctx)
	return err
}

// Entities lists cached entities, pruning expired ones from the index first.
func (s *NeighborStore) Entities(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired entries: %w", err)
	}

	entities, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entities, nil
}

// Clear evicts every cached entity and returns how many were removed.
func (s *NeighborStore) Clear(ctx context.Context) (int, error) {
	entities, err := s.Entities(ctx)
	if err != nil {
		return 0, err
	}
	if len(entities) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(entities)+1)
	for _, e := range entities {
		keys = append(keys, s.key(e))
	}
	keys = append(keys, s.indexKey())
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return 0, fmt.Errorf("failed to clear redis cache: %w", err)
	}
	return len(entities), nil
}

// Ping checks connectivity.
func (s *NeighborStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *NeighborStore) Close() error {
	return s.client.Close()
}
