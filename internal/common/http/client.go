// internal/common/http/client.go

// Package http wraps the outbound HTTP client shared by the chat REST client
// and the media-management API clients, so every upstream call carries the
// same per-service timeout policy.
package http

import (
	"context"
	"net/http"
	"time"
)

// Client is a timeout-bound HTTP client. One instance per upstream service;
// the timeout comes from that service's config block.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

// DoWithContext executes req under ctx, so callers can cut an upstream call
// short of the client timeout.
func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	return c.httpClient.Do(req)
}
