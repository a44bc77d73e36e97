package repository

import (
	"ClipHub/internal/model"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestRedisCatalogCache(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisCatalogCache(client, time.Minute)
	ctx := context.Background()

	got, err := cache.GetVideo(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got, "miss")

	video := &model.Video{VideoID: "abc", Title: "Heist", Duration: "2:05", ViewCount: "1.5K"}
	require.NoError(t, cache.SetVideo(ctx, video))

	got, err = cache.GetVideo(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Heist", got.Title)
	assert.Equal(t, "1.5K", got.ViewCount)

	// TTL在[ttl, ttl+60s)之间
	ttl := mr.TTL("catalog:video:abc")
	assert.GreaterOrEqual(t, ttl, time.Minute)
	assert.Less(t, ttl, 2*time.Minute)

	mr.FastForward(2 * time.Minute)
	got, err = cache.GetVideo(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got, "expired")
}

func TestRedisCatalogCacheCorruptEntry(t *testing.T) {
	client, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("catalog:video:bad", "{not json"))

	_, err := NewRedisCatalogCache(client, 0).GetVideo(context.Background(), "bad")
	assert.Error(t, err)
}
