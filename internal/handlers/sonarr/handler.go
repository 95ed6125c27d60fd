// internal/handlers/sonarr/handler.go
package sonarr

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
	translator *translate.Translator
	debug      *handlers.DebugNotifier
	logger     logger.Logger
}

func NewHandler(tr *translate.Translator, debug *handlers.DebugNotifier, log logger.Logger) *Handler {
	return &Handler{
		translator: tr,
		debug:      debug,
		logger:     log.WithFields(map[string]interface{}{"handler": "sonarr"}),
	}
}

func (h *Handler) Source() models.Source {
	return models.SourceSonarr
}

func (h *Handler) HandleNotification(ctx context.Context, raw json.RawMessage) (*models.NotificationMessage, error) {
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Warn("undecodable sonarr payload", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, nil
	}

	if res := h.validate(&p); !res.Valid() {
		handlers.LogInvalidPayload(h.logger, models.SourceSonarr, res)
		return nil, nil
	}

	h.debug.Send(ctx, models.SourceSonarr, p.EventType, raw)

	info := eventTypeInfo(p.EventType)
	series := p.Series
	if series == nil {
		series = p.RemoteSeries
	}
	episode := summarizeEpisodes(&p)

	msg := &models.NotificationMessage{
		Author: models.Author{
			Name:    authorName,
			IconURL: authorIconURL,
		},
		Title:       fmt.Sprintf("%s %s", info.Emoji, info.Name),
		Description: buildDescription(series, episode, p.EventType),
		Color:       info.Color,
		Fields:      h.buildFields(&p, series, episode),
		Timestamp:   time.Now().UTC(),
		Footer: models.Footer{
			Text:    authorName,
			IconURL: footerIconURL,
		},
	}

	h.logger.Info("sonarr notification rendered", map[string]interface{}{
		"eventType": p.EventType,
		"series":    seriesTitle(series),
	})
	return msg, nil
}

func (h *Handler) validate(p *Payload) *validation.Result {
	res := &validation.Result{}
	if p.EventType == "" {
		res.AddMissing("eventType")
	}
	if p.Series == nil && p.RemoteSeries == nil {
		res.AddMissing("series")
	}
	return res
}

func seriesTitle(s *Series) string {
	if s == nil || s.Title == "" {
		return "Unknown series"
	}
	return s.Title
}

// episodeSummary condenses the payload's episode list into one displayable
// unit, either a single episode or a multi-episode roll-up.
type episodeSummary struct {
	Label   string
	Title   string
	AirDate string
	Quality string
	Count   int
}

func summarizeEpisodes(p *Payload) *episodeSummary {
	if len(p.Episodes) == 0 {
		return nil
	}

	fileQuality := ""
	if p.EpisodeFile != nil {
		fileQuality = p.EpisodeFile.Quality.Name()
	}

	if len(p.Episodes) == 1 {
		ep := p.Episodes[0]
		quality := ep.Quality.Name()
		if quality == "" {
			quality = fileQuality
		}
		return &episodeSummary{
			Label:   fmt.Sprintf("S%02dE%02d", ep.SeasonNumber, ep.EpisodeNumber),
			Title:   ep.Title,
			AirDate: ep.AirDate,
			Quality: quality,
			Count:   1,
		}
	}

	seasons := map[int]struct{}{}
	numbers := make([]string, 0, len(p.Episodes))
	for _, ep := range p.Episodes {
		seasons[ep.SeasonNumber] = struct{}{}
		numbers = append(numbers, fmt.Sprintf("E%02d", ep.EpisodeNumber))
	}

	label := strings.Join(numbers, ", ")
	if len(seasons) == 1 {
		label = fmt.Sprintf("S%02d %s", p.Episodes[0].SeasonNumber, label)
	} else {
		label = "Multiple seasons " + label
	}

	quality := p.Episodes[0].Quality.Name()
	if quality == "" {
		quality = fileQuality
	}

	return &episodeSummary{
		Label:   label,
		Title:   fmt.Sprintf("%d episodes", len(p.Episodes)),
		Quality: quality,
		Count:   len(p.Episodes),
	}
}

// formatAirDate renders the upstream ISO date in long form; unparseable
// values pass through untouched.
func formatAirDate(airDate string) string {
	t, err := time.Parse("2006-01-02", airDate)
	if err != nil {
		return airDate
	}
	return t.Format("January 2, 2006")
}

func buildDescription(series *Series, episode *episodeSummary, eventType string) string {
	description := fmt.Sprintf("**%s**", seriesTitle(series))
	if series != nil && series.Year > 0 {
		description = fmt.Sprintf("%s (%d)", description, series.Year)
	}

	switch eventType {
	case "Download", "Grab", "EpisodeFileDelete":
		if episode != nil {
			description += "\n" + episode.Label
			if episode.Count == 1 && episode.Title != "" {
				description += " - " + episode.Title
			}
		}
	}
	return description
}

// buildFields assembles the embed fields: instance, episode block, series
// block, Grab release block, path, then external links.
func (h *Handler) buildFields(p *Payload, series *Series, episode *episodeSummary) []models.Field {
	var fields []models.Field

	if p.InstanceName != "" {
		fields = append(fields, models.Field{
			Name:   "📡 Instance",
			Value:  p.InstanceName,
			Inline: true,
		})
	}

	if episode != nil {
		value := episode.Label
		if episode.Title != "" {
			value += " - " + episode.Title
		}
		fields = append(fields, models.Field{
			Name:  "📺 Episode",
			Value: value,
		})

		if episode.Quality != "" {
			fields = append(fields, models.Field{
				Name:   "🎬 Quality",
				Value:  episode.Quality,
				Inline: true,
			})
		}
		if episode.AirDate != "" {
			fields = append(fields, models.Field{
				Name:   "📅 Air date",
				Value:  formatAirDate(episode.AirDate),
				Inline: true,
			})
		}
		if episode.Count > 1 {
			fields = append(fields, models.Field{
				Name:   "📊 Episode count",
				Value:  fmt.Sprintf("%d", episode.Count),
				Inline: true,
			})
		}
	}

	if series != nil {
		if series.Network != "" {
			fields = append(fields, models.Field{
				Name:   "📡 Network",
				Value:  series.Network,
				Inline: true,
			})
		}
		if series.Status != "" {
			fields = append(fields, models.Field{
				Name:   "📊 Status",
				Value:  h.translator.Translate("sonarr", "status", series.Status),
				Inline: true,
			})
		}
	}

	if p.EventType == "Grab" && p.Release != nil {
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

	if (p.EventType == "Rename" || p.EventType == "EpisodeFileDelete") && series != nil && series.Path != "" {
		fields = append(fields, models.Field{
			Name:  "📁 Path",
			Value: series.Path,
		})
	}

	if links := externalLinks(series); links != "" {
		fields = append(fields, models.Field{
			Name:  "🔗 Links",
			Value: links,
		})
	}

	return fields
}

func releaseTitle(r *Release) string {
	if r.ReleaseTitle == "" {
		return "Unknown release"
	}
	return r.ReleaseTitle
}

func externalLinks(s *Series) string {
	if s == nil {
		return ""
	}
	var links []string
	if s.ImdbID != "" {
		links = append(links, fmt.Sprintf("[IMDb](https://www.imdb.com/title/%s)", s.ImdbID))
	}
	if s.TmdbID > 0 {
		links = append(links, fmt.Sprintf("[TMDb](https://www.themoviedb.org/tv/%d)", s.TmdbID))
	}
	if s.TvdbID > 0 {
		links = append(links, fmt.Sprintf("[TVDB](https://thetvdb.com/series/%d)", s.TvdbID))
	}
	return strings.Join(links, " • ")
}
