// internal/handlers/overseerr/handler.go
package overseerr

import (
	"context"
	"encoding/json"
	"time"

	"mediarelay/internal/common/errors"
	"mediarelay/internal/common/logger"
	"mediarelay/internal/common/validation"
	"mediarelay/internal/handlers"
	"mediarelay/internal/mediaapi"
	"mediarelay/internal/models"
	"mediarelay/internal/translate"
)

// MetadataService is the external lookup used to enrich notifications with
// canonical title and overview text.
type MetadataService interface {
	GetMovie(ctx context.Context, tmdbID string) (*mediaapi.MediaDetails, error)
	GetTv(ctx context.Context, tmdbID string) (*mediaapi.MediaDetails, error)
}

type Handler struct {
	metadata   MetadataService
	translator *translate.Translator
	debug      *handlers.DebugNotifier
	logger     logger.Logger
}

func NewHandler(metadata MetadataService, tr *translate.Translator, debug *handlers.DebugNotifier, log logger.Logger) *Handler {
	return &Handler{
		metadata:   metadata,
		translator: tr,
		debug:      debug,
		logger:     log.WithFields(map[string]interface{}{"handler": "overseerr"}),
	}
}

func (h *Handler) Source() models.Source {
	return models.SourceOverseerr
}

func (h *Handler) HandleNotification(ctx context.Context, raw json.RawMessage) (*models.NotificationMessage, error) {
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Warn("undecodable overseerr payload", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, nil
	}

	if res := h.validate(&p); !res.Valid() {
		handlers.LogInvalidPayload(h.logger, models.SourceOverseerr, res)
		return nil, nil
	}

	h.debug.Send(ctx, models.SourceOverseerr, p.eventName(), raw)

	title, description := h.mediaInfo(ctx, p.Media)
	fields := h.buildFields(&p)

	msg := &models.NotificationMessage{
		Author: models.Author{
			Name: h.translator.Translate("overseerr", "event", p.eventName()),
		},
		Title:        title,
		Description:  description,
		Color:        embedColor(p.Event, p.NotificationType),
		Fields:       fields,
		ThumbnailURL: p.Image,
		Timestamp:    time.Now().UTC(),
		Footer: models.Footer{
			Text:    footerText,
			IconURL: footerIconURL,
		},
	}

	h.logger.Info("overseerr notification rendered", map[string]interface{}{
		"event": p.eventName(),
		"title": title,
	})
	return msg, nil
}

func (h *Handler) validate(p *Payload) *validation.Result {
	res := &validation.Result{}
	if p.Event == "" && p.NotificationType == "" {
		res.AddMissing("event")
	}
	return res
}

// mediaInfo fetches canonical title/overview for the referenced item.
// Enrichment failure is non-fatal: placeholders keep the notification alive.
func (h *Handler) mediaInfo(ctx context.Context, media *Media) (string, string) {
	if media == nil || media.MediaType == "" || media.TmdbID == "" {
		return "Unknown media", "No information available"
	}

	var (
		details *mediaapi.MediaDetails
		err     error
	)
	switch media.MediaType {
	case "movie":
		details, err = h.metadata.GetMovie(ctx, media.TmdbID.String())
	case "tv":
		details, err = h.metadata.GetTv(ctx, media.TmdbID.String())
	default:
		h.logger.Warn("unsupported media type", map[string]interface{}{
			"mediaType": media.MediaType,
		})
		return "Unsupported media type", "Type: " + media.MediaType
	}

	if err != nil {
		serr := errors.NewEnrichmentFailedError(media.MediaType, err)
		h.logger.Error("metadata lookup failed", map[string]interface{}{
			"tmdbId":    media.TmdbID.String(),
			"error":     serr.Error(),
			"retryable": serr.Retryable,
		})
		return "Unknown title", "Unknown description"
	}

	title := details.DisplayTitle()
	if title == "" {
		title = "Unknown title"
	}
	description := details.Overview
	if description == "" {
		description = "No description available"
	}
	return title, description
}

// buildFields assembles the embed fields in their fixed order: request
// status, requester, requested season.
func (h *Handler) buildFields(p *Payload) []models.Field {
	var fields []models.Field

	if p.Media != nil && p.Media.Status != "" {
		fields = append(fields, models.Field{
			Name:   "Request status",
			Value:  h.translator.Translate("overseerr", "media_status", p.Media.Status),
			Inline: true,
		})
	}

	if p.Request != nil && p.Request.RequestedByUsername != "" {
		fields = append(fields, models.Field{
			Name:   "Requested by",
			Value:  p.Request.RequestedByUsername,
			Inline: true,
		})
	}

	if len(p.Extra) > 0 {
		value := p.Extra[0].Value
		if value == "" {
			value = "Not specified"
		}
		fields = append(fields, models.Field{
			Name:   "Requested season",
			Value:  value,
			Inline: true,
		})
	}

	return fields
}
