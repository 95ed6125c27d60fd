// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediarelay/internal/chat"
	"mediarelay/internal/commands"
	"mediarelay/internal/common/config"
	"mediarelay/internal/common/database"
	"mediarelay/internal/common/logger"
	"mediarelay/internal/dispatch"
	"mediarelay/internal/fanout"
	"mediarelay/internal/handlers/radarr"
	"mediarelay/internal/handlers/tdarr"
	"mediarelay/internal/models"
	"mediarelay/internal/store"
	"mediarelay/internal/translate"
)

// chatAPIStub fakes the chat platform REST surface: channel lookup plus
// message posting, recording everything it receives.
type chatAPIStub struct {
	mu       sync.Mutex
	channels map[string]chat.Channel
	messages map[string][]json.RawMessage
}

func newChatAPIStub() *chatAPIStub {
	return &chatAPIStub{
		channels: make(map[string]chat.Channel),
		messages: make(map[string][]json.RawMessage),
	}
}

func (s *chatAPIStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/channels/", func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/channels/"), "/")
		channelID := parts[0]

		s.mu.Lock()
		defer s.mu.Unlock()

		ch, ok := s.channels[channelID]
		if !ok {
			http.Error(w, "unknown channel", http.StatusNotFound)
			return
		}

		if r.Method == http.MethodPost {
			var body json.RawMessage
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				s.messages[channelID] = append(s.messages[channelID], body)
			}
			fmt.Fprint(w, `{}`)
			return
		}

		json.NewEncoder(w).Encode(ch)
	})
	return mux
}

func (s *chatAPIStub) messageCount(channelID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages[channelID])
}

func (s *chatAPIStub) lastMessage(channelID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.messages[channelID]
	if len(msgs) == 0 {
		return ""
	}
	return string(msgs[len(msgs)-1])
}

type pipeline struct {
	router  *dispatch.Router
	sources *commands.ManageSource
	stub    *chatAPIStub
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	log := logger.NewTestLogger(t)

	stub := newChatAPIStub()
	stub.channels["admin-chan"] = chat.Channel{ID: "admin-chan", GuildID: "admin-guild", Name: "notifications"}
	stub.channels["sub-chan"] = chat.Channel{ID: "sub-chan", GuildID: "guild-1", Name: "media"}
	api := httptest.NewServer(stub.handler())
	t.Cleanup(api.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	client := chat.NewRestClient(config.ChatConfig{
		BaseURL: api.URL,
		Token:   "test-token",
		Timeout: 5000,
	}, log)
	resolver := chat.NewResolver(client, log)

	subscriptions := store.New(&database.RedisClient{Client: rdb}, log)
	deliverer := fanout.New(client, resolver, subscriptions, nil, "admin-chan", log)

	translator := translate.New()
	router := dispatch.NewRouter(deliverer, nil, log)
	router.Register(radarr.NewHandler(translator, nil, log))
	router.Register(tdarr.NewHandler(tdarr.Config{}, translator, nil, log))

	return &pipeline{
		router:  router,
		sources: commands.NewManageSource(subscriptions, resolver, log),
		stub:    stub,
	}
}

func TestWebhookToSubscriberDelivery(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	// Associate must prime the resolver itself: the subscriber fan-out path
	// is cache-only and no restart happens between binding and delivery.
	_, err := p.sources.Associate(ctx, models.SourceRadarr, "guild-1", "Alpha", "sub-chan", "media")
	require.NoError(t, err)

	payload := json.RawMessage(`{
		"eventType": "Download",
		"movie": {"title": "Dune", "year": 2021, "quality": {"quality": {"name": "HD-1080p"}}}
	}`)
	result := p.router.Dispatch(ctx, models.SourceRadarr, payload)

	require.NotNil(t, result)
	assert.Equal(t, []string{"Alpha - #media", "Admin - default channel"}, result.Success)
	assert.Empty(t, result.Failed)
	assert.Equal(t, 2, result.TotalSent)

	assert.Equal(t, 1, p.stub.messageCount("sub-chan"))
	assert.Equal(t, 1, p.stub.messageCount("admin-chan"))

	assert.Contains(t, p.stub.lastMessage("sub-chan"), "Dune")
	assert.Contains(t, p.stub.lastMessage("admin-chan"), "delivered to 1 server(s)")
}

func TestWebhookWithoutSubscribersStillReachesAdmin(t *testing.T) {
	p := newPipeline(t)

	payload := json.RawMessage(`{
		"eventType": "Grab",
		"movie": {"title": "Arrival", "year": 2016}
	}`)
	result := p.router.Dispatch(context.Background(), models.SourceRadarr, payload)

	assert.Equal(t, 1, result.TotalSent)
	assert.Contains(t, p.stub.lastMessage("admin-chan"), "delivered to 0 server(s)")
}

func TestSuppressedEventProducesNothing(t *testing.T) {
	p := newPipeline(t)

	payload := json.RawMessage(`{
		"event": "file_processing",
		"originalFilePath": "/media/show.mkv"
	}`)
	result := p.router.Dispatch(context.Background(), models.SourceTdarr, payload)

	assert.Equal(t, 0, result.TotalSent)
	assert.Equal(t, 0, p.stub.messageCount("admin-chan"))
}

func TestDissociatedGuildStopsReceiving(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	_, err := p.sources.Associate(ctx, models.SourceRadarr, "guild-1", "Alpha", "sub-chan", "media")
	require.NoError(t, err)

	_, err = p.sources.Dissociate(ctx, models.SourceRadarr, "guild-1")
	require.NoError(t, err)

	payload := json.RawMessage(`{"eventType": "Download", "movie": {"title": "Up"}}`)
	p.router.Dispatch(ctx, models.SourceRadarr, payload)

	assert.Equal(t, 0, p.stub.messageCount("sub-chan"))
	assert.Equal(t, 1, p.stub.messageCount("admin-chan"))
}
