package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/tropelink/pkg/domain"
	"github.com/aretw0/tropelink/pkg/ports"
)

// MockCache is a map-backed implementation of NeighborCache for testing purposes.
type MockCache struct {
	data map[string][]domain.Edge
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]domain.Edge),
	}
}

func (m *MockCache) Get(ctx context.Context, entity string) ([]domain.Edge, error) {
	edges, ok := m.data[entity]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return edges, nil
}

func (m *MockCache) Set(ctx context.Context, entity string, edges []domain.Edge) error {
	// Copy to simulate serialization
	m.data[entity] = append([]domain.Edge(nil), edges...)
	return nil
}

func (m *MockCache) Delete(ctx context.Context, entity string) error {
	delete(m.data, entity)
	return nil
}

func TestNeighborCache_Contract(t *testing.T) {
	// The mock serves as the reference for the contract future adapters must follow.
	ports.RunNeighborCacheContract(t, NewMockCache())
}
