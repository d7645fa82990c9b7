package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/tropelink/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunNeighborCacheContract runs a suite of tests to verify that a NeighborCache implementation
// adheres to the defined interface contract.
func RunNeighborCacheContract(t *testing.T, cache NeighborCache) {
	ctx := context.Background()
	entity := "contract-entity-" + time.Now().Format("20060102150405")

	t.Run("Set and Get", func(t *testing.T) {
		edges := []domain.Edge{
			{Relation: "r1", Entity: "A"},
			{Relation: "r2", Entity: "B"},
		}

		err := cache.Set(ctx, entity, edges)
		require.NoError(t, err, "Set should not return error")

		loaded, err := cache.Get(ctx, entity)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, edges, loaded)
	})

	t.Run("Empty Set Is Cached", func(t *testing.T) {
		id := entity + "-leaf"
		require.NoError(t, cache.Set(ctx, id, nil))

		loaded, err := cache.Get(ctx, id)
		require.NoError(t, err, "an entity without neighbors is still a cache hit")
		assert.Empty(t, loaded)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := cache.Get(ctx, "non-existent-"+entity)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := cache.Set(ctx, entity, []domain.Edge{{Relation: "r", Entity: "X"}})
		require.NoError(t, err)

		err = cache.Delete(ctx, entity)
		require.NoError(t, err, "Delete should not return error")

		_, err = cache.Get(ctx, entity)
		assert.ErrorIs(t, err, domain.ErrNotFound, "Get after Delete should return ErrNotFound")
	})
}
