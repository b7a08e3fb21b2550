package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wishlist-backend/internal/features/user/models"
	rplatform "wishlist-backend/internal/platform/redis"
)

func newCache(t *testing.T, ttl time.Duration) (*UserCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := rplatform.Open(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return NewUserCache(client, ttl), mr
}

func TestUserCache_SetGet(t *testing.T) {
	cache, mr := newCache(t, time.Minute)
	ctx := context.Background()
	created := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	user := &models.User{ID: 100, Username: "ann", FirstName: "Ann", CreatedAt: created, UpdatedAt: created}
	require.NoError(t, cache.Set(ctx, user))
	assert.True(t, mr.Exists("user:id:100"))
	assert.Equal(t, time.Minute, mr.TTL("user:id:100"))

	got, err := cache.GetByID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, user.Username, got.Username)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestUserCache_MissAndExpiry(t *testing.T) {
	cache, mr := newCache(t, time.Minute)
	ctx := context.Background()

	_, err := cache.GetByID(ctx, 1)
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, &models.User{ID: 1, FirstName: "A"}))
	mr.FastForward(2 * time.Minute)

	_, err = cache.GetByID(ctx, 1)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestUserCache_Invalidate(t *testing.T) {
	cache, mr := newCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &models.User{ID: 7, FirstName: "B"}))
	require.NoError(t, cache.Invalidate(ctx, 7))
	assert.False(t, mr.Exists("user:id:7"))

	// deleting an absent key is fine
	assert.NoError(t, cache.Invalidate(ctx, 7))
}
