// internal/mediaapi/sonarr.go
package mediaapi

import (
	"context"

	"mediarelay/internal/common/config"
	"mediarelay/internal/common/logger"
)

// Sonarr queries the tv-fetcher API.
type Sonarr struct {
	client *Client
}

func NewSonarr(cfg config.MediaAPIConfig, log logger.Logger) *Sonarr {
	headers := map[string]string{
		"Content-Type": "application/json",
		"X-Api-Key":    cfg.Token,
	}
	return &Sonarr{
		client: newClient(cfg, headers, log.WithFields(map[string]interface{}{"service": "sonarr"})),
	}
}

func (s *Sonarr) SystemStatus(ctx context.Context) (*SystemStatus, error) {
	var status SystemStatus
	if err := s.client.GetJSON(ctx, "/api/v3/system/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
