package ports

import (
	"context"

	"github.com/aretw0/tropelink/pkg/domain"
)

// NeighborCache stores discovered neighbor sets keyed by canonical entity identifier.
// This allows repeated lookups to be answered without re-issuing remote calls.
type NeighborCache interface {
	// Get returns the cached edges for entity.
	// Returns domain.ErrNotFound if nothing is cached.
	Get(ctx context.Context, entity string) ([]domain.Edge, error)

	// Set stores the edges for entity.
	Set(ctx context.Context, entity string, edges []domain.Edge) error

	// Delete evicts entity from the cache.
	Delete(ctx context.Context, entity string) error
}
