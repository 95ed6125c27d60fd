// internal/commands/managesource_test.go
package commands

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediarelay/internal/chat"
	"mediarelay/internal/common/database"
	"mediarelay/internal/common/logger"
	"mediarelay/internal/models"
	"mediarelay/internal/store"
)

// fakeResolver resolves any channel in known and records every resolution.
type fakeResolver struct {
	known    map[string]*chat.Channel
	resolved []string
}

func (f *fakeResolver) Resolve(_ context.Context, channelID string, _ chat.Strategy) (*chat.Channel, error) {
	f.resolved = append(f.resolved, channelID)
	ch, ok := f.known[channelID]
	if !ok {
		return nil, fmt.Errorf("channel %s does not exist", channelID)
	}
	return ch, nil
}

func newTestCommand(t *testing.T, resolver ChannelResolver) *ManageSource {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	log := logger.NewTestLogger(t)
	return NewManageSource(store.New(&database.RedisClient{Client: rdb}, log), resolver, log)
}

func TestAssociateAndDissociate(t *testing.T) {
	cmd := newTestCommand(t, nil)
	ctx := context.Background()

	reply, err := cmd.Associate(ctx, models.SourceRadarr, "guild-1", "Media Friends", "chan-1", "downloads")
	require.NoError(t, err)
	assert.Contains(t, reply, "✅")
	assert.Contains(t, reply, "<#chan-1>")

	bindings, err := cmd.List(ctx, "guild-1")
	require.NoError(t, err)
	require.Len(t, bindings, 1)
	assert.Equal(t, "chan-1", bindings[models.SourceRadarr].ChannelID)

	reply, err = cmd.Dissociate(ctx, models.SourceRadarr, "guild-1")
	require.NoError(t, err)
	assert.Contains(t, reply, "✅")
	assert.Contains(t, reply, "downloads")

	bindings, err = cmd.List(ctx, "guild-1")
	require.NoError(t, err)
	assert.Empty(t, bindings)
}

func TestAssociateRequiresChannel(t *testing.T) {
	cmd := newTestCommand(t, nil)

	reply, err := cmd.Associate(context.Background(), models.SourceSonarr, "guild-1", "g", "", "")
	require.NoError(t, err)
	assert.Contains(t, reply, "❌")
}

func TestAssociatePrimesChannelCache(t *testing.T) {
	resolver := &fakeResolver{known: map[string]*chat.Channel{
		"chan-1": {ID: "chan-1", GuildID: "guild-1", Name: "media"},
	}}
	cmd := newTestCommand(t, resolver)

	reply, err := cmd.Associate(context.Background(), models.SourceRadarr, "guild-1", "Alpha", "chan-1", "media")
	require.NoError(t, err)
	assert.Contains(t, reply, "✅")
	assert.Equal(t, []string{"chan-1"}, resolver.resolved)
}

func TestAssociateRefusesUnresolvableChannel(t *testing.T) {
	resolver := &fakeResolver{known: map[string]*chat.Channel{}}
	cmd := newTestCommand(t, resolver)
	ctx := context.Background()

	reply, err := cmd.Associate(ctx, models.SourceRadarr, "guild-1", "Alpha", "ghost-chan", "media")
	require.NoError(t, err)
	assert.Contains(t, reply, "❌")

	bindings, err := cmd.List(ctx, "guild-1")
	require.NoError(t, err)
	assert.Empty(t, bindings, "a refused association must not be stored")
}

func TestDissociateMissingBinding(t *testing.T) {
	cmd := newTestCommand(t, nil)

	reply, err := cmd.Dissociate(context.Background(), models.SourceTdarr, "guild-9")
	require.NoError(t, err)
	assert.Contains(t, reply, "❌")
	assert.Contains(t, reply, "No association")
}

func TestCooldownTracker(t *testing.T) {
	c := NewCooldownTracker()
	base := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	ok, _ := c.Check("user-1", "managesource", 10*time.Second)
	assert.True(t, ok)

	ok, remaining := c.Check("user-1", "managesource", 10*time.Second)
	assert.False(t, ok)
	assert.Equal(t, 10*time.Second, remaining)

	// Another user or command is unaffected.
	ok, _ = c.Check("user-2", "managesource", 10*time.Second)
	assert.True(t, ok)
	ok, _ = c.Check("user-1", "help", 10*time.Second)
	assert.True(t, ok)

	// Past the window the entry re-arms.
	base = base.Add(11 * time.Second)
	ok, _ = c.Check("user-1", "managesource", 10*time.Second)
	assert.True(t, ok)
}
