package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tropelink/pkg/adapters/redis"
	"github.com/aretw0/tropelink/pkg/domain"
	"github.com/aretw0/tropelink/pkg/ports"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	return mr, client
}

func TestNeighborStore_Contract(t *testing.T) {
	_, client := setup(t)
	ports.RunNeighborCacheContract(t, redis.NewFromClient(client))
}

func TestNeighborStore_TTL(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Minute), redis.WithPrefix("test:"))
	ctx := context.Background()

	edges := []domain.Edge{{Relation: "r1", Entity: "B"}}
	require.NoError(t, store.Set(ctx, "A", edges))
	assert.True(t, mr.Exists("test:e:A"))
	assert.Equal(t, time.Minute, mr.TTL("test:e:A"))

	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "A")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNeighborStore_EntitiesAndClear(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "A", []domain.Edge{{Relation: "r1", Entity: "B"}}))
	require.NoError(t, store.Set(ctx, "B", nil))
	assert.True(t, mr.Exists(redis.DefaultPrefix+"e:A"))

	entities, err := store.Entities(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, entities)

	n, err := store.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = store.Get(ctx, "A")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	entities, err = store.Entities(ctx)
	require.NoError(t, err)
	assert.Empty(t, entities)
	require.NoError(t, store.Ping(ctx))
}

func TestNeighborStore_EntityNamedLikeIndex(t *testing.T) {
	_, client := setup(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	for _, id := range []string{"index", "_index", "A"} {
		require.NoError(t, store.Set(ctx, id, []domain.Edge{{Relation: "r", Entity: id + "-next"}}))
	}

	loaded, err := store.Get(ctx, "index")
	require.NoError(t, err)
	assert.Equal(t, []domain.Edge{{Relation: "r", Entity: "index-next"}}, loaded)

	entities, err := store.Entities(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"index", "_index", "A"}, entities)

	n, err := store.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestNeighborStore_Unavailable(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client)
	mr.Close()

	_, err := store.Get(context.Background(), "A")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
