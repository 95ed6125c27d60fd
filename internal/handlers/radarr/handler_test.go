// internal/handlers/radarr/handler_test.go
package radarr

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediarelay/internal/common/logger"
	"mediarelay/internal/translate"
)

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(translate.New(), nil, logger.NewTestLogger(t))
}

func TestHandleNotification_GrabFieldOrder(t *testing.T) {
	h := newTestHandler(t)

	payload := json.RawMessage(`{
		"eventType": "Grab",
		"instanceName": "radarr-main",
		"movie": {
			"title": "Dune", "year": 2021,
			"imdbId": "tt1160419", "tmdbId": 438631,
			"quality": {"quality": {"name": "HD-1080p"}}
		},
		"release": {
			"releaseTitle": "Dune.2021.1080p.BluRay.x264",
			"indexer": "NZBgeek",
			"size": 4831838208
		}
	}`)

	msg, err := h.HandleNotification(context.Background(), payload)
	require.NoError(t, err)
	require.NotNil(t, msg)

	assert.Equal(t, "🎯 Release grabbed", msg.Title)
	assert.Equal(t, "**Dune** (2021)", msg.Description)
	assert.Equal(t, 0xffff00, msg.Color)

	names := make([]string, 0, len(msg.Fields))
	for _, f := range msg.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"📡 Instance", "🎬 Quality", "📦 Release", "💾 Size", "🔍 Indexer", "🔗 Links"}, names)

	assert.Equal(t, "High Definition (1080p)", msg.Fields[1].Value)
	assert.Equal(t, "4.5 GB", msg.Fields[3].Value)
	assert.Equal(t, "[IMDb](https://www.imdb.com/title/tt1160419) • [TMDb](https://www.themoviedb.org/movie/438631)", msg.Fields[5].Value)
}

func TestHandleNotification_RenameShowsPath(t *testing.T) {
	h := newTestHandler(t)

	payload := json.RawMessage(`{
		"eventType": "Rename",
		"movie": {"title": "Heat", "path": "/movies/Heat (1995)"}
	}`)

	msg, err := h.HandleNotification(context.Background(), payload)
	require.NoError(t, err)
	require.NotNil(t, msg)

	require.Len(t, msg.Fields, 1)
	assert.Equal(t, "📁 Path", msg.Fields[0].Name)
	assert.Equal(t, "/movies/Heat (1995)", msg.Fields[0].Value)
	assert.Equal(t, 0x0099ff, msg.Color)
}

func TestHandleNotification_UnknownEventFallsBack(t *testing.T) {
	h := newTestHandler(t)

	payload := json.RawMessage(`{
		"eventType": "ManualInteractionRequired",
		"movie": {"title": "Alien"}
	}`)

	msg, err := h.HandleNotification(context.Background(), payload)
	require.NoError(t, err)
	require.NotNil(t, msg, "unknown event types must still render")

	assert.Equal(t, "📡 ManualInteractionRequired", msg.Title)
	assert.Equal(t, defaultColor, msg.Color)
}

func TestHandleNotification_RemoteMovieFallback(t *testing.T) {
	h := newTestHandler(t)

	payload := json.RawMessage(`{
		"eventType": "Grab",
		"remoteMovie": {"title": "Arrival", "year": 2016}
	}`)

	msg, err := h.HandleNotification(context.Background(), payload)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "**Arrival** (2016)", msg.Description)
}

func TestHandleNotification_MissingMovieReturnsNil(t *testing.T) {
	h := newTestHandler(t)

	msg, err := h.HandleNotification(context.Background(), json.RawMessage(`{"eventType": "Download"}`))
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestHandleNotification_MissingEventTypeReturnsNil(t *testing.T) {
	h := newTestHandler(t)

	msg, err := h.HandleNotification(context.Background(), json.RawMessage(`{"movie": {"title": "Up"}}`))
	require.NoError(t, err)
	assert.Nil(t, msg)
}
