package services

import (
	"context"
	"testing"
	"time"

	"poster_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormKeyValueStore(t *testing.T) {
	db := setupTestDB(t)
	store := NewGormKeyValueStore(db, time.Hour)
	ctx := context.Background()

	t.Run("Missing key", func(t *testing.T) {
		val, found, err := store.Get(ctx, "s1", "nothing")
		assert.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, val)
	})

	t.Run("Set then Get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "s1", "k", "v1"))
		val, found, err := store.Get(ctx, "s1", "k")
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "v1", val)
	})

	t.Run("Set overwrites without duplicating", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "s1", "k", "v2"))
		val, _, _ := store.Get(ctx, "s1", "k")
		assert.Equal(t, "v2", val)

		var count int64
		db.Model(&models.SessionItem{}).Where("session_id = ? AND item_key = ?", "s1", "k").Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Sessions are isolated", func(t *testing.T) {
		_, found, err := store.Get(ctx, "s2", "k")
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "s1", "gone", "x"))
		require.NoError(t, store.Delete(ctx, "s1", "gone"))
		_, found, _ := store.Get(ctx, "s1", "gone")
		assert.False(t, found)
		assert.NoError(t, store.Delete(ctx, "s1"))
	})
}

func TestGormKeyValueStoreExpiry(t *testing.T) {
	db := setupTestDB(t)
	store := NewGormKeyValueStore(db, time.Minute)
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "old", "k", "v"))
	now = now.Add(30 * time.Second)
	require.NoError(t, store.Set(ctx, "fresh", "k", "v"))

	now = now.Add(45 * time.Second)
	_, found, err := store.Get(ctx, "old", "k")
	assert.NoError(t, err)
	assert.False(t, found, "expired item must not be returned")

	_, found, _ = store.Get(ctx, "fresh", "k")
	assert.True(t, found)

	n, err := store.DeleteExpired(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var count int64
	db.Model(&models.SessionItem{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestNewGormKeyValueStoreDefaultsTTL(t *testing.T) {
	store := NewGormKeyValueStore(nil, 0)
	assert.Equal(t, DefaultSessionTTL, store.ttl)
}

func TestRedisKeyValueStore(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisKeyValueStore(client, time.Hour)
	ctx := context.Background()

	_, found, err := store.Get(ctx, "s1", "k")
	assert.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "s1", "k", "v"))
	val, found, err := store.Get(ctx, "s1", "k")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", val)
	assert.Equal(t, time.Hour, mr.TTL("poster:session:s1"))

	require.NoError(t, store.Delete(ctx, "s1", "k"))
	_, found, _ = store.Get(ctx, "s1", "k")
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "s2", "k", "v"))
	mr.FastForward(2 * time.Hour)
	_, found, _ = store.Get(ctx, "s2", "k")
	assert.False(t, found, "redis expires the session hash")

	n, err := store.DeleteExpired(ctx)
	assert.NoError(t, err)
	assert.Zero(t, n)
}
