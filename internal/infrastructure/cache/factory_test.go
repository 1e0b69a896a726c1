package cache

import (
	"context"
	"testing"

	"github.com/colony/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// unreachable points at a port nothing listens on
var unreachable = config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

func TestIdempotencyStoreFactory_RedisDisabled(t *testing.T) {
	store, err := NewIdempotencyStoreFactory(config.RedisConfig{}).CreateStore(context.Background())
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &InMemoryIdempotencyStore{}, store)
}

func TestIdempotencyStoreFactory_FallsBackWhenUnreachable(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	f := NewIdempotencyStoreFactory(unreachable, WithLogger(zap.New(core)))

	store, err := f.CreateStore(context.Background())
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	assert.Equal(t, 1, logs.FilterMessageSnippet("falling back").Len())
}

func TestIdempotencyStoreFactory_NoFallback(t *testing.T) {
	f := NewIdempotencyStoreFactory(unreachable, WithInMemoryFallback(false))

	_, err := f.CreateStore(context.Background())
	assert.ErrorContains(t, err, "redis required")
}

func TestRedisIdempotencyStore_ErrorsAreWrapped(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: unreachable.Addr(), MaxRetries: -1})
	store := NewRedisIdempotencyStore(client, "")
	defer store.Close()
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "k", 0)
	assert.ErrorContains(t, err, "claim idempotency key")

	_, err = store.IsProcessed(ctx, "k")
	assert.ErrorContains(t, err, "check idempotency key")

	assert.ErrorContains(t, store.Release(ctx, "k"), "release idempotency key")
	assert.Equal(t, DefaultKeyPrefix, store.keyPrefix)
}
