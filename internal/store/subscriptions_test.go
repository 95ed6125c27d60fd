// internal/store/subscriptions_test.go
package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediarelay/internal/common/database"
	"mediarelay/internal/common/errors"
	"mediarelay/internal/common/logger"
	"mediarelay/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return New(&database.RedisClient{Client: rdb}, logger.NewTestLogger(t))
}

func TestStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sub := models.Subscription{
		ChannelID:   "chan-1",
		GuildName:   "Media Friends",
		ChannelName: "downloads",
	}
	require.NoError(t, s.UpdateWebhookSource(ctx, models.SourceRadarr, "guild-1", sub))

	subs, err := s.GetWebhookSource(ctx, models.SourceRadarr)
	require.NoError(t, err)
	require.Len(t, subs, 1)

	got := subs["guild-1"]
	assert.Equal(t, "chan-1", got.ChannelID)
	assert.Equal(t, "Media Friends", got.GuildName)
	assert.Equal(t, "downloads", got.ChannelName)
	assert.False(t, got.UpdatedAt.IsZero(), "UpdatedAt must be stamped on write")
}

func TestStore_MissingBucketIsEmptyMap(t *testing.T) {
	s := newTestStore(t)

	subs, err := s.GetWebhookSource(context.Background(), models.SourceTdarr)
	require.NoError(t, err)
	assert.NotNil(t, subs)
	assert.Empty(t, subs)

	_, ok := subs["never-stored"]
	assert.False(t, ok)
}

func TestStore_DeleteMissingEntry(t *testing.T) {
	s := newTestStore(t)

	found, err := s.DeleteWebhookSource(context.Background(), models.SourceSonarr, "guild-x")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_DeleteRemovesEmptyBucket(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpdateWebhookSource(ctx, models.SourceOverseerr, "guild-1", models.Subscription{
		ChannelID: "c", GuildName: "g", ChannelName: "n",
	}))

	found, err := s.DeleteWebhookSource(ctx, models.SourceOverseerr, "guild-1")
	require.NoError(t, err)
	assert.True(t, found)

	exists, err := s.redis.Client.Exists(ctx, "webhook:overseerr").Result()
	require.NoError(t, err)
	assert.Zero(t, exists, "empty bucket must be removed")
}

func TestStore_UnreachableRedisIsStoreOperationError(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	s := New(&database.RedisClient{Client: rdb}, logger.NewTestLogger(t))

	mr.Close()

	_, err := s.GetWebhookSource(context.Background(), models.SourceRadarr)
	require.Error(t, err)

	var serr *errors.StandardError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, errors.ErrStoreOperation, serr.Code)
	assert.True(t, serr.Retryable)
}

func TestStore_UpdateOverwritesEntry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpdateWebhookSource(ctx, models.SourceRadarr, "guild-1", models.Subscription{
		ChannelID: "old", GuildName: "g", ChannelName: "old-chan",
	}))
	require.NoError(t, s.UpdateWebhookSource(ctx, models.SourceRadarr, "guild-1", models.Subscription{
		ChannelID: "new", GuildName: "g", ChannelName: "new-chan",
	}))

	subs, err := s.GetWebhookSource(ctx, models.SourceRadarr)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "new", subs["guild-1"].ChannelID)
}
