// internal/audit/audit.go
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mediarelay/internal/chat"
	"mediarelay/internal/common/database"
	"mediarelay/internal/common/logger"
	"mediarelay/internal/models"
)

// Recorder keeps a trail of received payloads and delivery outcomes. Every
// operation is best-effort: the audit trail must never block or fail a
// delivery, so errors are logged and swallowed.
type Recorder struct {
	es             *database.ElasticsearchClient
	client         chat.Client
	debugChannelID string
	index          string
	logger         logger.Logger
}

// New builds a Recorder. Both sinks are optional: a nil es skips indexing and
// an empty debugChannelID skips the file attachment.
func New(es *database.ElasticsearchClient, client chat.Client, debugChannelID, index string, log logger.Logger) *Recorder {
	return &Recorder{
		es:             es,
		client:         client,
		debugChannelID: debugChannelID,
		index:          index,
		logger:         log.WithFields(map[string]interface{}{"component": "audit"}),
	}
}

type payloadDocument struct {
	Source     string          `json:"source"`
	ReceivedAt time.Time       `json:"receivedAt"`
	Payload    json.RawMessage `json:"payload"`
}

// RecordPayload archives the raw payload: indexed for search, attached as a
// file to the debug channel for quick inspection.
func (r *Recorder) RecordPayload(ctx context.Context, source models.Source, payload json.RawMessage) {
	if r == nil || len(payload) == 0 {
		return
	}

	if r.es != nil {
		doc, err := json.Marshal(payloadDocument{
			Source:     source.String(),
			ReceivedAt: time.Now().UTC(),
			Payload:    payload,
		})
		if err == nil {
			err = r.es.IndexDocument(ctx, r.index, uuid.NewString(), doc)
		}
		if err != nil {
			r.logger.Warn("payload indexing failed", map[string]interface{}{
				"source": source.String(),
				"error":  err.Error(),
			})
		}
	}

	if r.debugChannelID != "" {
		filename := fmt.Sprintf("%s-%s.json", source, time.Now().UTC().Format("20060102-150405"))
		comment := fmt.Sprintf("📄 Raw %s payload", source)
		if err := r.client.SendFile(ctx, r.debugChannelID, filename, payload, comment); err != nil {
			r.logger.Warn("payload attachment failed", map[string]interface{}{
				"source":    source.String(),
				"channelId": r.debugChannelID,
				"error":     err.Error(),
			})
		}
	}
}

type outcomeDocument struct {
	Source     string    `json:"source"`
	RecordedAt time.Time `json:"recordedAt"`
	Success    []string  `json:"success"`
	Failed     []string  `json:"failed"`
	TotalSent  int       `json:"totalSent"`
}

// RecordOutcome indexes the delivery result of one dispatch.
func (r *Recorder) RecordOutcome(ctx context.Context, source models.Source, result *models.DeliveryResult) {
	if r == nil || r.es == nil || result == nil {
		return
	}

	doc, err := json.Marshal(outcomeDocument{
		Source:     source.String(),
		RecordedAt: time.Now().UTC(),
		Success:    result.Success,
		Failed:     result.Failed,
		TotalSent:  result.TotalSent,
	})
	if err == nil {
		err = r.es.IndexDocument(ctx, r.index, uuid.NewString(), doc)
	}
	if err != nil {
		r.logger.Warn("outcome indexing failed", map[string]interface{}{
			"source": source.String(),
			"error":  err.Error(),
		})
	}
}
