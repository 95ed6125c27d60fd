// internal/chat/resolver.go
package chat

import (
	"context"
	"fmt"
	"sync"

	"mediarelay/internal/common/logger"
)

// Strategy selects how far channel resolution may go.
type Strategy int

const (
	// CacheOnly never issues a remote fetch. Used on the subscriber fan-out
	// path to bound per-notification latency and API call volume.
	CacheOnly Strategy = iota
	// CacheThenFetch falls back to a remote fetch on a cache miss. Used on
	// the lower-frequency audit and admin-copy paths.
	CacheThenFetch
)

// Resolver is the single channel-resolution point for every delivery path.
// The cache is owned by the instance; concurrent resolution of the same
// destination may issue duplicate fetches, which is accepted at this volume.
type Resolver struct {
	client Client
	logger logger.Logger

	mu       sync.RWMutex
	channels map[string]*Channel
}

func NewResolver(client Client, log logger.Logger) *Resolver {
	return &Resolver{
		client:   client,
		logger:   log.WithFields(map[string]interface{}{"component": "resolver"}),
		channels: make(map[string]*Channel),
	}
}

// Resolve returns the channel for channelID. A cache hit short-circuits the
// remote fetch regardless of strategy.
func (r *Resolver) Resolve(ctx context.Context, channelID string, strategy Strategy) (*Channel, error) {
	r.mu.RLock()
	ch, ok := r.channels[channelID]
	r.mu.RUnlock()
	if ok {
		return ch, nil
	}

	if strategy == CacheOnly {
		return nil, fmt.Errorf("channel %s not cached", channelID)
	}

	ch, err := r.client.FetchChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.channels[channelID] = ch
	r.mu.Unlock()

	r.logger.Debug("channel resolved", map[string]interface{}{
		"channelId": channelID,
		"name":      ch.Name,
	})
	return ch, nil
}

// Prime inserts a channel into the cache. Used at startup to warm known
// destinations and by tests.
func (r *Resolver) Prime(ch *Channel) {
	r.mu.Lock()
	r.channels[ch.ID] = ch
	r.mu.Unlock()
}
