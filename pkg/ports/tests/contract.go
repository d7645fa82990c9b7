package tests

import (
	"context"
	"testing"

	"github.com/aretw0/tropelink/pkg/domain"
	"github.com/aretw0/tropelink/pkg/ports"
)

// NeighborSourceContractTest is a reusable test suite that verifies if an adapter complies with ports.NeighborSource.
// expected maps each entity to the edges the adapter must report for it (in any order).
func NeighborSourceContractTest(t *testing.T, source ports.NeighborSource, expected map[string][]domain.Edge) {
	t.Helper()
	ctx := context.Background()

	// 1. Reported edges match the fixture
	t.Run("Neighbors_Match", func(t *testing.T) {
		for entity, want := range expected {
			got, err := source.Neighbors(ctx, entity)
			if err != nil {
				t.Fatalf("unexpected error getting neighbors of %s: %v", entity, err)
			}
			if len(got) != len(want) {
				t.Errorf("expected %d edges for %s, got %d (%v)", len(want), entity, len(got), got)
			}
			lookup := make(map[domain.Edge]bool, len(got))
			for _, e := range got {
				lookup[e] = true
			}
			for _, e := range want {
				if !lookup[e] {
					t.Errorf("edge %v missing for %s", e, entity)
				}
			}
		}
	})

	// 2. No self loops, no duplicates
	t.Run("Neighbors_Distinct", func(t *testing.T) {
		for entity := range expected {
			got, err := source.Neighbors(ctx, entity)
			if err != nil {
				t.Fatalf("unexpected error getting neighbors of %s: %v", entity, err)
			}
			seen := make(map[domain.Edge]bool, len(got))
			for _, e := range got {
				if e.Entity == entity {
					t.Errorf("%s reported as its own neighbor via %s", entity, e.Relation)
				}
				if seen[e] {
					t.Errorf("duplicate edge %v for %s", e, entity)
				}
				seen[e] = true
			}
		}
	})

	// 3. Cancelled context is honored
	t.Run("Neighbors_Cancelled", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		for entity := range expected {
			if _, err := source.Neighbors(cancelled, entity); err == nil {
				t.Errorf("expected error for cancelled lookup of %s, got nil", entity)
			}
			break
		}
	})
}
