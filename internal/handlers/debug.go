// internal/handlers/debug.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"mediarelay/internal/chat"
	"mediarelay/internal/common/logger"
	"mediarelay/internal/models"
)

// DebugNotifier ships the raw payload of a webhook to the admin channel
// dedicated to its source. Sends are best-effort: a failure is logged and
// never interrupts notification processing.
type DebugNotifier struct {
	client    chat.Client
	channelID string
	logger    logger.Logger
}

// NewDebugNotifier returns nil when no channel is configured; a nil notifier
// is safe to call.
func NewDebugNotifier(client chat.Client, channelID string, log logger.Logger) *DebugNotifier {
	if channelID == "" {
		return nil
	}
	return &DebugNotifier{
		client:    client,
		channelID: channelID,
		logger:    log,
	}
}

// Send posts the event type and pretty-printed payload to the admin channel.
func (d *DebugNotifier) Send(ctx context.Context, source models.Source, eventType string, payload json.RawMessage) {
	if d == nil {
		return
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, payload, "", "  "); err != nil {
		pretty.Write(payload)
	}

	content := fmt.Sprintf("🚀 **%s webhook received**\n**Type:** %s\n**Payload:** ```json\n%s```",
		source, eventType, pretty.String())

	if err := d.client.SendText(ctx, d.channelID, content); err != nil {
		d.logger.Warn("debug copy send failed", map[string]interface{}{
			"source":    source.String(),
			"channelId": d.channelID,
			"error":     err.Error(),
		})
	}
}
