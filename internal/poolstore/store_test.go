package poolstore

import (
	"context"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solanaforge/amm-engine/internal/pool"
)

func testPool(seed uint64) *pool.Pool {
	return &pool.Pool{
		Seed:      seed,
		MintX:     solana.NewWallet().PublicKey(),
		MintY:     solana.NewWallet().PublicKey(),
		MintLP:    solana.NewWallet().PublicKey(),
		Authority: solana.NewWallet().PublicKey(),
		FeeBps:    30,
		DecimalsX: 6,
	}
}

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use different DB for tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	require.NoError(t, client.FlushDB(ctx).Err())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.FlushDB(ctx).Err()
		_ = client.Close()
	})

	return client
}

func TestRedisStore_RoundTrip(t *testing.T) {
	client := setupTestRedis(t)
	store, err := NewRedisStore(client)
	require.NoError(t, err)

	ctx := context.Background()
	p := testPool(7)

	require.NoError(t, store.Upsert(ctx, p))

	got, err := store.Get(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, p.Seed, got.Seed)
	assert.Equal(t, p.MintX, got.MintX)
	assert.Equal(t, p.MintY, got.MintY)
	assert.Equal(t, p.FeeBps, got.FeeBps)
	assert.False(t, got.Locked)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, pool.ErrNotFound)
}

func TestRedisStore_SetLocked(t *testing.T) {
	client := setupTestRedis(t)
	store, err := NewRedisStore(client)
	require.NoError(t, err)

	ctx := context.Background()
	p := testPool(8)
	require.NoError(t, store.Upsert(ctx, p))

	locked, err := store.SetLocked(ctx, p.ID(), true)
	require.NoError(t, err)
	assert.True(t, locked.Locked)

	got, err := store.Get(ctx, p.ID())
	require.NoError(t, err)
	assert.True(t, got.Locked)

	_, err = store.SetLocked(ctx, "missing", true)
	assert.ErrorIs(t, err, pool.ErrNotFound)
}

func TestRedisStore_ListAndDelete(t *testing.T) {
	client := setupTestRedis(t)
	store, err := NewRedisStore(client)
	require.NoError(t, err)

	ctx := context.Background()
	p1, p2 := testPool(1), testPool(2)
	require.NoError(t, store.Upsert(ctx, p1))
	require.NoError(t, store.Upsert(ctx, p2))

	pools, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, pools, 2)

	require.NoError(t, store.Delete(ctx, p1.ID()))
	pools, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, pools, 1)
	assert.Equal(t, p2.ID(), pools[0].ID())
}

func TestRedisStore_RejectsInvalidRecord(t *testing.T) {
	client := setupTestRedis(t)
	store, err := NewRedisStore(client)
	require.NoError(t, err)

	bad := testPool(3)
	bad.MintY = bad.MintX
	assert.Error(t, store.Upsert(context.Background(), bad))

	bad = testPool(4)
	bad.FeeBps = 10000
	assert.Error(t, store.Upsert(context.Background(), bad))
}

func TestMemoryStore_Behavior(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p := testPool(11)
	require.NoError(t, store.Upsert(ctx, p))

	got, err := store.Get(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, p.Seed, got.Seed)

	// Mutating the returned copy must not leak into the store.
	got.Locked = true
	again, err := store.Get(ctx, p.ID())
	require.NoError(t, err)
	assert.False(t, again.Locked)

	locked, err := store.SetLocked(ctx, p.ID(), true)
	require.NoError(t, err)
	assert.True(t, locked.Locked)

	pools, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, pools, 1)

	require.NoError(t, store.Delete(ctx, p.ID()))
	_, err = store.Get(ctx, p.ID())
	assert.ErrorIs(t, err, pool.ErrNotFound)
}
