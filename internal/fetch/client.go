package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is the fast path: one GET with browser headers. Any network error
// or non-2xx status is reported to the caller, which decides whether to fall
// back to the renderer.
type Client struct {
	url    string
	client *http.Client
}

// NewClient creates a fast-path fetcher for the given URL.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch performs the GET and returns the response body.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range browserHeaders {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("GET %s failed: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("GET %s returned status %d", c.url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(body), nil
}
