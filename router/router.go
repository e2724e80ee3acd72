// Package router is the HTTP client for the external command-router backend
// that interprets recognized intents.
package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	baseURL string
	http    *http.Client
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("missing parameter: cfg")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("missing parameter: cfg.BaseURL")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// Send forwards one recognized intent to the backend and returns its reply
// text. The controller knows nothing of the backend protocol beyond this.
func (c *Client) Send(ctx context.Context, intent string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/command", nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	q := req.URL.Query()
	q.Add("intent", intent)
	req.URL.RawQuery = q.Encode()

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send intent: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read reply: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("command router: status %d: %s", resp.StatusCode, body)
	}

	return string(body), nil
}
