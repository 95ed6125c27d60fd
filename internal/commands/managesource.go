// internal/commands/managesource.go
package commands

import (
	"context"
	"fmt"

	"mediarelay/internal/chat"
	"mediarelay/internal/common/logger"
	"mediarelay/internal/models"
	"mediarelay/internal/store"
)

// ChannelResolver primes the delivery cache for a channel. Subscriber fan-out
// resolves cache-only, so a binding must enter the cache when it is created,
// not at the next restart.
type ChannelResolver interface {
	Resolve(ctx context.Context, channelID string, strategy chat.Strategy) (*chat.Channel, error)
}

// ManageSource implements the admin operations that bind a webhook source to
// a channel per guild. Replies are user-facing strings; state errors surface
// as Go errors for the caller's transport to translate.
type ManageSource struct {
	store    *store.Store
	resolver ChannelResolver
	logger   logger.Logger
}

func NewManageSource(s *store.Store, resolver ChannelResolver, log logger.Logger) *ManageSource {
	return &ManageSource{
		store:    s,
		resolver: resolver,
		logger:   log.WithFields(map[string]interface{}{"command": "managesource"}),
	}
}

// Associate binds source notifications for a guild to a channel, replacing
// any previous binding. The channel is resolved (and cached) up front: a
// binding the fan-out cannot reach is refused rather than stored.
func (m *ManageSource) Associate(ctx context.Context, source models.Source, guildID, guildName, channelID, channelName string) (string, error) {
	if channelID == "" {
		return "❌ A channel is required for association.", nil
	}

	if m.resolver != nil {
		if _, err := m.resolver.Resolve(ctx, channelID, chat.CacheThenFetch); err != nil {
			m.logger.Warn("association refused, channel unresolvable", map[string]interface{}{
				"source":    source.String(),
				"guildId":   guildID,
				"channelId": channelID,
				"error":     err.Error(),
			})
			return fmt.Sprintf("❌ Channel <#%s> could not be resolved; association not saved.", channelID), nil
		}
	}

	sub := models.Subscription{
		ChannelID:   channelID,
		GuildName:   guildName,
		ChannelName: channelName,
	}
	if err := m.store.UpdateWebhookSource(ctx, source, guildID, sub); err != nil {
		return "", err
	}

	return fmt.Sprintf("✅ Source **%s** associated with channel <#%s> on this server.", source, channelID), nil
}

// Dissociate removes the guild's binding for source. A missing binding is a
// user-level miss, not an error.
func (m *ManageSource) Dissociate(ctx context.Context, source models.Source, guildID string) (string, error) {
	subs, err := m.store.GetWebhookSource(ctx, source)
	if err != nil {
		return "", err
	}

	sub, ok := subs[guildID]
	if !ok {
		return fmt.Sprintf("❌ No association found for source **%s** on this server.", source), nil
	}

	if _, err := m.store.DeleteWebhookSource(ctx, source, guildID); err != nil {
		return "", err
	}

	return fmt.Sprintf("✅ Source **%s** dissociated from channel **%s** on this server.", source, sub.ChannelName), nil
}

// List reports the current binding for every source in a guild.
func (m *ManageSource) List(ctx context.Context, guildID string) (map[models.Source]models.Subscription, error) {
	out := make(map[models.Source]models.Subscription)
	for _, source := range models.Sources {
		subs, err := m.store.GetWebhookSource(ctx, source)
		if err != nil {
			return nil, err
		}
		if sub, ok := subs[guildID]; ok {
			out[source] = sub
		}
	}
	return out, nil
}
