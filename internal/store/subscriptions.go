// internal/store/subscriptions.go
package store

import (
	"context"
	"fmt"
	"time"

	"mediarelay/internal/common/database"
	"mediarelay/internal/common/errors"
	"mediarelay/internal/common/logger"
	"mediarelay/internal/models"
)

// Store maps source -> {guildID -> subscription} on top of Redis. Each source
// bucket lives under one key as a JSON document; association changes are rare
// and human-triggered, so last-write-wins on the bucket is accepted.
type Store struct {
	redis  *database.RedisClient
	logger logger.Logger
}

func New(redis *database.RedisClient, log logger.Logger) *Store {
	return &Store{
		redis:  redis,
		logger: log.WithFields(map[string]interface{}{"component": "store"}),
	}
}

func sourceKey(source models.Source) string {
	return fmt.Sprintf("webhook:%s", source)
}

// GetWebhookSource returns every subscription for a source. A missing bucket
// yields an empty map, never an absence signal.
func (s *Store) GetWebhookSource(ctx context.Context, source models.Source) (map[string]models.Subscription, error) {
	subs := make(map[string]models.Subscription)
	if _, err := s.redis.GetJSON(ctx, sourceKey(source), &subs); err != nil {
		return nil, errors.NewStoreOperationError("get", fmt.Errorf("subscriptions for %s: %w", source, err))
	}
	return subs, nil
}

// UpdateWebhookSource creates or replaces the association for (source, guild)
// and stamps UpdatedAt.
func (s *Store) UpdateWebhookSource(ctx context.Context, source models.Source, guildID string, sub models.Subscription) error {
	subs, err := s.GetWebhookSource(ctx, source)
	if err != nil {
		return err
	}

	sub.UpdatedAt = time.Now().UTC()
	subs[guildID] = sub

	if err := s.redis.SetJSON(ctx, sourceKey(source), subs); err != nil {
		return errors.NewStoreOperationError("update", fmt.Errorf("subscription for %s/%s: %w", source, guildID, err))
	}

	s.logger.Info("subscription updated", map[string]interface{}{
		"source":    source.String(),
		"guildId":   guildID,
		"channelId": sub.ChannelID,
	})
	return nil
}

// DeleteWebhookSource removes the association for (source, guild). It reports
// found=false without error when no entry exists. An emptied bucket is
// deleted to keep the keyspace small.
func (s *Store) DeleteWebhookSource(ctx context.Context, source models.Source, guildID string) (bool, error) {
	subs, err := s.GetWebhookSource(ctx, source)
	if err != nil {
		return false, err
	}

	if _, ok := subs[guildID]; !ok {
		return false, nil
	}
	delete(subs, guildID)

	key := sourceKey(source)
	if len(subs) == 0 {
		if err := s.redis.Del(ctx, key); err != nil {
			return false, errors.NewStoreOperationError("delete", fmt.Errorf("empty bucket %s: %w", key, err))
		}
		return true, nil
	}

	if err := s.redis.SetJSON(ctx, key, subs); err != nil {
		return false, errors.NewStoreOperationError("delete", fmt.Errorf("subscription for %s/%s: %w", source, guildID, err))
	}
	return true, nil
}
