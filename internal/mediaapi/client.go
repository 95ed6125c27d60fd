// internal/mediaapi/client.go
package mediaapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"mediarelay/internal/common/config"
	"mediarelay/internal/common/errors"
	commonhttp "mediarelay/internal/common/http"
	"mediarelay/internal/common/logger"
)

// Client is the shared base for the media-management service APIs. Each
// service wraps it with typed endpoints.
type Client struct {
	http    *commonhttp.Client
	baseURL string
	headers map[string]string
	logger  logger.Logger
}

func newClient(cfg config.MediaAPIConfig, headers map[string]string, log logger.Logger) *Client {
	return &Client{
		http:    commonhttp.NewClient(time.Duration(cfg.Timeout) * time.Millisecond),
		baseURL: cfg.URL,
		headers: headers,
		logger:  log,
	}
}

// GetJSON performs a GET against path and decodes the response into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.DoWithContext(ctx, req)
	if err != nil {
		c.logger.Error("GET failed", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		if ctx.Err() == context.DeadlineExceeded {
			return errors.NewTimeoutError(path, err)
		}
		return errors.NewExternalServiceError(path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.NewExternalServiceError(path, fmt.Errorf("status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}
