package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/tropelink/pkg/adapters/memory"
	"github.com/aretw0/tropelink/pkg/domain"
	"github.com/aretw0/tropelink/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunNeighborCacheContract(t, memory.NewStore())
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	edges := []domain.Edge{{Relation: "r1", Entity: "A"}}
	require.NoError(t, store.Set(ctx, "S", edges))

	// Mutating the caller's slice must not leak into the store
	edges[0].Entity = "mutated"

	loaded, err := store.Get(ctx, "S")
	require.NoError(t, err)
	assert.Equal(t, "A", loaded[0].Entity)

	// Mutating the returned slice must not leak either
	loaded[0].Entity = "mutated"
	again, err := store.Get(ctx, "S")
	require.NoError(t, err)
	assert.Equal(t, "A", again[0].Entity)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := memory.NewStore(memory.WithTTL(20 * time.Millisecond))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "S", []domain.Edge{{Relation: "r1", Entity: "A"}}))
	_, err := store.Get(ctx, "S")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	_, err = store.Get(ctx, "S")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStore_Capacity(t *testing.T) {
	store := memory.NewStore(memory.WithCapacity(2))
	ctx := context.Background()

	for _, id := range []string{"A", "B", "C"} {
		require.NoError(t, store.Set(ctx, id, nil))
	}

	assert.Equal(t, 2, store.Len())
	_, err := store.Get(ctx, "A")
	assert.ErrorIs(t, err, domain.ErrNotFound, "least recently used entry is evicted")
}
