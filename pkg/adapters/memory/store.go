package memory

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/aretw0/tropelink/pkg/domain"
)

// DefaultCapacity bounds the number of entities a Store keeps.
const DefaultCapacity = 10000

// Store implements ports.NeighborCache in memory.
// Entries expire after the configured TTL and the least recently used ones are evicted
// beyond the capacity. Safe for concurrent use.
type Store struct {
	entries  *expirable.LRU[string, []domain.Edge]
	ttl      time.Duration
	capacity int
}

// StoreOption configures the Store.
type StoreOption func(*Store)

// WithTTL sets how long a neighbor set stays valid. Zero keeps entries until evicted.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) { s.ttl = ttl }
}

// WithCapacity bounds the number of cached entities. Zero means unbounded.
func WithCapacity(n int) StoreOption {
	return func(s *Store) { s.capacity = n }
}

// NewStore creates a new in-memory store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(s)
	}
	s.entries = expirable.NewLRU[string, []domain.Edge](s.capacity, nil, s.ttl)
	return s
}

// Set stores the edges of entity.
func (s *Store) Set(ctx context.Context, entity string, edges []domain.Edge) error {
	// Copy to ensure isolation, similar to serialization
	copied := make([]domain.Edge, len(edges))
	copy(copied, edges)
	s.entries.Add(entity, copied)
	return nil
}

// Get retrieves the edges of entity.
func (s *Store) Get(ctx context.Context, entity string) ([]domain.Edge, error) {
	edges, ok := s.entries.Get(entity)
	if !ok {
		return nil, domain.ErrNotFound
	}

	// Copy on read so caller can't mutate store state directly
	ret := make([]domain.Edge, len(edges))
	copy(ret, edges)
	return ret, nil
}

// Delete removes the edges of entity.
func (s *Store) Delete(ctx context.Context, entity string) error {
	s.entries.Remove(entity)
	return nil
}

// Len returns the number of cached entities, expired ones not yet swept included.
func (s *Store) Len() int {
	return s.entries.Len()
}
