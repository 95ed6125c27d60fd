// internal/fanout/fanout.go
package fanout

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"mediarelay/internal/chat"
	"mediarelay/internal/common/errors"
	"mediarelay/internal/common/logger"
	"mediarelay/internal/models"
)

// SubscriptionSource lists the guilds subscribed to a webhook source.
type SubscriptionSource interface {
	GetWebhookSource(ctx context.Context, source models.Source) (map[string]models.Subscription, error)
}

// Auditor records the raw payload of a delivered notification. Recording is
// best-effort and never blocks delivery.
type Auditor interface {
	RecordPayload(ctx context.Context, source models.Source, payload json.RawMessage)
	RecordOutcome(ctx context.Context, source models.Source, result *models.DeliveryResult)
}

// Fanout delivers a rendered notification to every subscribed channel plus
// the admin copy. Per-destination failures are collected, never propagated:
// one unreachable channel must not starve the rest.
type Fanout struct {
	client         chat.Client
	resolver       *chat.Resolver
	subscriptions  SubscriptionSource
	auditor        Auditor
	adminChannelID string
	logger         logger.Logger
}

func New(client chat.Client, resolver *chat.Resolver, subs SubscriptionSource, auditor Auditor, adminChannelID string, log logger.Logger) *Fanout {
	return &Fanout{
		client:         client,
		resolver:       resolver,
		subscriptions:  subs,
		auditor:        auditor,
		adminChannelID: adminChannelID,
		logger:         log.WithFields(map[string]interface{}{"component": "fanout"}),
	}
}

// Deliver fans msg out to the source's subscribers, then posts the admin copy
// with a delivery summary appended to the footer. The returned result is
// always non-nil.
func (f *Fanout) Deliver(ctx context.Context, source models.Source, msg *models.NotificationMessage, raw json.RawMessage) *models.DeliveryResult {
	result := &models.DeliveryResult{}

	if f.auditor != nil {
		f.auditor.RecordPayload(ctx, source, raw)
	}

	subs, err := f.subscriptions.GetWebhookSource(ctx, source)
	if err != nil {
		f.logger.Error("subscription lookup failed", map[string]interface{}{
			"source": source.String(),
			"error":  err.Error(),
		})
		result.AddFailure(fmt.Sprintf("subscription lookup for %s failed: %v", source, err))
		subs = nil
	}

	for _, guildID := range sortedGuildIDs(subs) {
		sub := subs[guildID]
		destination := fmt.Sprintf("%s - #%s", sub.GuildName, sub.ChannelName)

		if _, err := f.resolver.Resolve(ctx, sub.ChannelID, chat.CacheOnly); err != nil {
			f.logDeliveryError(destination, errors.NewChannelResolutionError(sub.ChannelID, err.Error()))
			result.AddFailure(fmt.Sprintf("channel %s on %s not found", sub.ChannelName, sub.GuildName))
			continue
		}

		if err := f.client.SendMessage(ctx, sub.ChannelID, msg); err != nil {
			f.logDeliveryError(destination, errors.NewSendFailedError(sub.ChannelID, err))
			result.AddFailure(fmt.Sprintf("send to %s failed: %v", destination, err))
			continue
		}
		result.AddSuccess(destination)
	}

	f.deliverAdminCopy(ctx, source, msg, result)

	if f.auditor != nil {
		f.auditor.RecordOutcome(ctx, source, result)
	}

	f.logger.Info("fanout complete", map[string]interface{}{
		"source":    source.String(),
		"totalSent": result.TotalSent,
		"failed":    len(result.Failed),
	})
	return result
}

// deliverAdminCopy posts msg to the admin notification channel with the
// delivery count footer. The count reflects subscriber deliveries only; the
// admin copy itself is counted afterwards.
func (f *Fanout) deliverAdminCopy(ctx context.Context, source models.Source, msg *models.NotificationMessage, result *models.DeliveryResult) {
	if f.adminChannelID == "" {
		result.AddFailure("admin notification channel not configured")
		return
	}

	if _, err := f.resolver.Resolve(ctx, f.adminChannelID, chat.CacheThenFetch); err != nil {
		result.AddFailure(fmt.Sprintf("admin notification channel unavailable: %v", err))
		return
	}

	adminMsg := *msg
	adminMsg.Footer = models.Footer{
		Text: AppendFooter(msg.Footer.Text,
			fmt.Sprintf("[%s] delivered to %d server(s)", source.Upper(), result.TotalSent)),
		IconURL: msg.Footer.IconURL,
	}

	if err := f.client.SendMessage(ctx, f.adminChannelID, &adminMsg); err != nil {
		result.AddFailure(fmt.Sprintf("admin copy send failed: %v", err))
		return
	}
	result.AddSuccess("Admin - default channel")
}

func (f *Fanout) logDeliveryError(destination string, serr *errors.StandardError) {
	f.logger.Warn("subscriber delivery failed", map[string]interface{}{
		"destination": destination,
		"error":       serr.Error(),
		"category":    errors.GetErrorCategory(serr.Code),
		"retryable":   errors.IsRetryableErrorCode(serr.Code),
	})
}

// AppendFooter joins an existing footer text with a suffix using the embed
// separator dot.
func AppendFooter(existing, suffix string) string {
	if existing == "" {
		return suffix
	}
	return existing + " • " + suffix
}

func sortedGuildIDs(subs map[string]models.Subscription) []string {
	ids := make([]string, 0, len(subs))
	for id := range subs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
