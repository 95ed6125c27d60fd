// internal/handlers/radarr/handler.go
package radarr

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mediarelay/internal/common/format"
	"mediarelay/internal/common/logger"
	"mediarelay/internal/common/validation"
	"mediarelay/internal/handlers"
	"mediarelay/internal/models"
	"mediarelay/internal/translate"
)

type Handler struct {
	translator *translate.Translator
	debug      *handlers.DebugNotifier
	logger     logger.Logger
}

func NewHandler(tr *translate.Translator, debug *handlers.DebugNotifier, log logger.Logger) *Handler {
	return &Handler{
		translator: tr,
		debug:      debug,
		logger:     log.WithFields(map[string]interface{}{"handler": "radarr"}),
	}
}

func (h *Handler) Source() models.Source {
	return models.SourceRadarr
}

func (h *Handler) HandleNotification(ctx context.Context, raw json.RawMessage) (*models.NotificationMessage, error) {
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Warn("undecodable radarr payload", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, nil
	}

	if res := h.validate(&p); !res.Valid() {
		handlers.LogInvalidPayload(h.logger, models.SourceRadarr, res)
		return nil, nil
	}

	h.debug.Send(ctx, models.SourceRadarr, p.EventType, raw)

	info := eventTypeInfo(p.EventType)
	movie := p.Movie
	if movie == nil {
		movie = p.RemoteMovie
	}

	description := fmt.Sprintf("**%s**", movieTitle(movie))
	if movie.Year > 0 {
		description = fmt.Sprintf("%s (%d)", description, movie.Year)
	}

	msg := &models.NotificationMessage{
		Author: models.Author{
			Name:    authorName,
			IconURL: authorIconURL,
		},
		Title:       fmt.Sprintf("%s %s", info.Emoji, info.Name),
		Description: description,
		Color:       info.Color,
		Fields:      h.buildFields(&p, movie),
		Timestamp:   time.Now().UTC(),
		Footer: models.Footer{
			Text:    authorName,
			IconURL: footerIconURL,
		},
	}

	h.logger.Info("radarr notification rendered", map[string]interface{}{
		"eventType": p.EventType,
		"movie":     movieTitle(movie),
	})
	return msg, nil
}

func (h *Handler) validate(p *Payload) *validation.Result {
	res := &validation.Result{}
	if p.EventType == "" {
		res.AddMissing("eventType")
	}
	if p.Movie == nil && p.RemoteMovie == nil {
		res.AddMissing("movie")
	}
	return res
}

func movieTitle(m *Movie) string {
	if m == nil || m.Title == "" {
		return "Unknown movie"
	}
	return m.Title
}

// buildFields assembles the embed fields: instance first, then the
// event-specific block, then external links.
func (h *Handler) buildFields(p *Payload, movie *Movie) []models.Field {
	var fields []models.Field

	if p.InstanceName != "" {
		fields = append(fields, models.Field{
			Name:   "📡 Instance",
			Value:  p.InstanceName,
			Inline: true,
		})
	}

	switch p.EventType {
	case "Download", "Grab":
		if name := h.quality(movie, p.Release); name != "" {
			fields = append(fields, models.Field{
				Name:   "🎬 Quality",
				Value:  name,
				Inline: true,
			})
		}
		if p.Release != nil {
			fields = append(fields, models.Field{
				Name:  "📦 Release",
				Value: releaseTitle(p.Release),
			})
			if p.Release.Size > 0 {
				fields = append(fields, models.Field{
					Name:   "💾 Size",
					Value:  format.FileSize(p.Release.Size),
					Inline: true,
				})
			}
			if p.Release.Indexer != "" {
				fields = append(fields, models.Field{
					Name:   "🔍 Indexer",
					Value:  p.Release.Indexer,
					Inline: true,
				})
			}
		}

	case "Rename", "MovieFileDelete":
		if movie.Path != "" {
			fields = append(fields, models.Field{
				Name:  "📁 Path",
				Value: movie.Path,
			})
		}

	default:
		if name := h.quality(movie, nil); name != "" {
			fields = append(fields, models.Field{
				Name:   "🎬 Quality",
				Value:  name,
				Inline: true,
			})
		}
	}

	if links := externalLinks(movie); links != "" {
		fields = append(fields, models.Field{
			Name:  "🔗 Links",
			Value: links,
		})
	}

	return fields
}

// quality prefers the movie's own quality descriptor, then the release's,
// translating known profile names to readable labels.
func (h *Handler) quality(movie *Movie, release *Release) string {
	name := movie.Quality.Name()
	if name == "" && release != nil {
		name = release.Quality.Name()
	}
	if name == "" {
		return ""
	}
	return h.translator.Translate("radarr", "quality", name)
}

func releaseTitle(r *Release) string {
	if r.ReleaseTitle == "" {
		return "Unknown release"
	}
	return r.ReleaseTitle
}

func externalLinks(m *Movie) string {
	var links string
	if m.ImdbID != "" {
		links = fmt.Sprintf("[IMDb](https://www.imdb.com/title/%s)", m.ImdbID)
	}
	if m.TmdbID > 0 {
		if links != "" {
			links += " • "
		}
		links += fmt.Sprintf("[TMDb](https://www.themoviedb.org/movie/%d)", m.TmdbID)
	}
	return links
}
