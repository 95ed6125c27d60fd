// internal/handlers/tdarr/handler.go
package tdarr

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"mediarelay/internal/common/format"
	"mediarelay/internal/common/logger"
	"mediarelay/internal/common/validation"
	"mediarelay/internal/handlers"
	"mediarelay/internal/models"
	"mediarelay/internal/translate"
)

type Handler struct {
	config     Config
	translator *translate.Translator
	debug      *handlers.DebugNotifier
	logger     logger.Logger
}

func NewHandler(cfg Config, tr *translate.Translator, debug *handlers.DebugNotifier, log logger.Logger) *Handler {
	return &Handler{
		config:     cfg,
		translator: tr,
		debug:      debug,
		logger:     log.WithFields(map[string]interface{}{"handler": "tdarr"}),
	}
}

func (h *Handler) Source() models.Source {
	return models.SourceTdarr
}

func (h *Handler) HandleNotification(ctx context.Context, raw json.RawMessage) (*models.NotificationMessage, error) {
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Warn("undecodable tdarr payload", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, nil
	}

	if res := h.validate(&p); !res.Valid() {
		handlers.LogInvalidPayload(h.logger, models.SourceTdarr, res)
		return nil, nil
	}

	if !h.config.ShouldNotify(p.Event) {
		h.logger.Debug("tdarr event suppressed", map[string]interface{}{
			"event": p.Event,
		})
		return nil, nil
	}

	h.debug.Send(ctx, models.SourceTdarr, p.Event, raw)

	title, description := fileInfo(&p)

	msg := &models.NotificationMessage{
		Author: models.Author{
			Name: fmt.Sprintf("%s %s", eventIcon(p.Event), h.eventLabel(p.Event)),
		},
		Title:       title,
		Description: description,
		Color:       embedColor(p.Event),
		Fields:      buildFields(&p),
		Timestamp:   time.Now().UTC(),
		Footer: models.Footer{
			Text:    footerText,
			IconURL: footerIconURL,
		},
	}

	h.logger.Info("tdarr notification rendered", map[string]interface{}{
		"event": p.Event,
		"file":  title,
	})
	return msg, nil
}

func (h *Handler) validate(p *Payload) *validation.Result {
	res := &validation.Result{}
	if p.Event == "" {
		res.AddMissing("event")
	}
	if strings.HasPrefix(p.Event, "file_") && p.OriginalFilePath == "" && p.File == "" {
		res.AddMissing("originalFilePath")
	}
	return res
}

// eventLabel resolves the display label for an event, falling back to the
// uppercased raw event name for types the table does not know.
func (h *Handler) eventLabel(event string) string {
	if label := h.translator.Translate("tdarr", "event", event); label != event {
		return label
	}
	return strings.ToUpper(strings.ReplaceAll(event, "_", " "))
}

func fileInfo(p *Payload) (string, string) {
	if p.OriginalFilePath == "" {
		title := p.File
		if title == "" {
			title = "Unknown file"
		}
		return title, "File processing job"
	}

	title := fileName(p.OriginalFilePath)
	if dir := parentDir(p.OriginalFilePath); dir != "" {
		return title, "Folder: " + dir
	}
	return title, "File processing job"
}

// buildFields assembles the embed fields: original file, size delta, process
// time, worker, library, progress block, then the error tail.
func buildFields(p *Payload) []models.Field {
	var fields []models.Field

	if p.OriginalFilePath != "" {
		fields = append(fields, models.Field{
			Name:  "Original file",
			Value: fmt.Sprintf("`%s`", fileName(p.OriginalFilePath)),
		})
	}

	if p.OriginalFileSize > 0 && p.OutputFileSize > 0 {
		originalMB := p.OriginalFileSize / (1024 * 1024)
		outputMB := p.OutputFileSize / (1024 * 1024)
		value := fmt.Sprintf("%d MB → %d MB", originalMB, outputMB)
		if reduction := (p.OriginalFileSize - p.OutputFileSize) * 100 / p.OriginalFileSize; reduction > 0 {
			value = fmt.Sprintf("%s (-%d%%)", value, reduction)
		}
		fields = append(fields, models.Field{
			Name:   "Size",
			Value:  value,
			Inline: true,
		})
	}

	if p.ProcessTime > 0 {
		fields = append(fields, models.Field{
			Name:   "Process time",
			Value:  format.Duration(p.ProcessTime),
			Inline: true,
		})
	}

	if p.Worker != "" {
		fields = append(fields, models.Field{
			Name:   "Worker",
			Value:  p.Worker.String(),
			Inline: true,
		})
	}

	if p.Library != "" {
		fields = append(fields, models.Field{
			Name:   "Library",
			Value:  p.Library,
			Inline: true,
		})
	}

	if p.Percentage != nil {
		fields = append(fields, models.Field{
			Name:   "Progress",
			Value:  fmt.Sprintf("%g%%", *p.Percentage),
			Inline: true,
		})
	}

	if p.ETA != "" {
		fields = append(fields, models.Field{
			Name:   "ETA",
			Value:  p.ETA,
			Inline: true,
		})
	}

	if p.FPS != "" || p.Bitrate != "" {
		var parts []string
		if p.FPS != "" {
			parts = append(parts, p.FPS.String()+" FPS")
		}
		if p.Bitrate != "" {
			parts = append(parts, p.Bitrate.String()+" kb/s")
		}
		fields = append(fields, models.Field{
			Name:   "Performance",
			Value:  strings.Join(parts, " • "),
			Inline: true,
		})
	}

	if p.Error != "" {
		fields = append(fields, models.Field{
			Name:  "Error",
			Value: fmt.Sprintf("```%s```", format.Truncate(p.Error, 200)),
		})
	}

	return fields
}
