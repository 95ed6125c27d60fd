// internal/mediaapi/radarr.go
package mediaapi

import (
	"context"

	"mediarelay/internal/common/config"
	"mediarelay/internal/common/logger"
)

// SystemStatus is the subset of the fetcher status endpoints consumed by the
// command surface.
type SystemStatus struct {
	Version      string `json:"version"`
	InstanceName string `json:"instanceName"`
}

// Radarr queries the movie-fetcher API.
type Radarr struct {
	client *Client
}

func NewRadarr(cfg config.MediaAPIConfig, log logger.Logger) *Radarr {
	headers := map[string]string{
		"Content-Type": "application/json",
		"X-Api-Key":    cfg.Token,
	}
	return &Radarr{
		client: newClient(cfg, headers, log.WithFields(map[string]interface{}{"service": "radarr"})),
	}
}

func (r *Radarr) SystemStatus(ctx context.Context) (*SystemStatus, error) {
	var status SystemStatus
	if err := r.client.GetJSON(ctx, "/api/v3/system/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
