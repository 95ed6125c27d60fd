// internal/mediaapi/overseerr.go
package mediaapi

import (
	"context"
	"fmt"

	"mediarelay/internal/common/config"
	"mediarelay/internal/common/logger"
)

// MediaDetails is the canonical title/overview pair returned by the metadata
// lookup. Movie responses carry "title", series responses carry "name".
type MediaDetails struct {
	Title    string `json:"title"`
	Name     string `json:"name"`
	Overview string `json:"overview"`
}

// DisplayTitle returns whichever title variant the response populated.
func (d *MediaDetails) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

// Overseerr queries the request-system API for canonical media metadata.
type Overseerr struct {
	client *Client
}

func NewOverseerr(cfg config.MediaAPIConfig, log logger.Logger) *Overseerr {
	headers := map[string]string{
		"Content-Type": "application/json",
		"X-Api-Key":    cfg.Token,
	}
	return &Overseerr{
		client: newClient(cfg, headers, log.WithFields(map[string]interface{}{"service": "overseerr"})),
	}
}

func (o *Overseerr) GetMovie(ctx context.Context, tmdbID string) (*MediaDetails, error) {
	var details MediaDetails
	if err := o.client.GetJSON(ctx, fmt.Sprintf("/api/v1/movie/%s", tmdbID), nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (o *Overseerr) GetTv(ctx context.Context, tmdbID string) (*MediaDetails, error) {
	var details MediaDetails
	if err := o.client.GetJSON(ctx, fmt.Sprintf("/api/v1/tv/%s", tmdbID), nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}
