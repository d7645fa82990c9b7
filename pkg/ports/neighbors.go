package ports

import (
	"context"

	"github.com/aretw0/tropelink/pkg/domain"
)

// NeighborSource discovers the one-hop edges of an entity on demand.
// Implementations are typically backed by remote lookups and may be slow.
type NeighborSource interface {
	// Neighbors returns the distinct (relation, entity) pairs reachable from entity in one hop.
	// The queried entity is never part of the result.
	// Failures are reported as *domain.LookupError.
	Neighbors(ctx context.Context, entity string) ([]domain.Edge, error)
}

// EndpointValidator checks that a user-supplied reference denotes a real entity.
type EndpointValidator interface {
	// Validate returns the canonical identifier for raw, or an error wrapping domain.ErrInvalidEndpoint.
	Validate(ctx context.Context, raw string) (string, error)
}

// NameResolver turns identifiers into human-readable names.
// It is used by the presentation layer only, never by the engine.
type NameResolver interface {
	DisplayName(ctx context.Context, id string) (string, error)
}
