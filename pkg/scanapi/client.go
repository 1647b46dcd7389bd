// Package scanapi reads scanning results from the spam detection backend.
package scanapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"spamwatch-admin/models"
	"spamwatch-admin/pkg/auth"
	apperrors "spamwatch-admin/pkg/errors"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	tokens     auth.TokenSource
	httpClient *http.Client
}

func NewClient(cfg Config, tokens auth.TokenSource) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// ListMessages returns the scanned messages matching filters, in the order
// the backend sent them.
func (c *Client) ListMessages(ctx context.Context, filters models.Filters) ([]models.Message, error) {
	path := "/admin/messages"
	if q := filters.Query(); len(q) > 0 {
		path += "?" + q.Encode()
	}

	var messages []models.Message
	if err := c.get(ctx, path, &messages); err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}

// GetStats returns the backend's scanning overview.
func (c *Client) GetStats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	if err := c.get(ctx, "/admin/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return apperrors.NewDataLoad("error obtaining backend token", 0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return apperrors.NewDataLoad("error creating request", 0, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewDataLoad("error sending request", 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewDataLoad("error reading response body", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		loadErr := apperrors.NewDataLoad(
			fmt.Sprintf("backend returned status %d", resp.StatusCode),
			resp.StatusCode,
			fmt.Errorf("GET %s: %s", path, truncate(string(body), 200)),
		)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return apperrors.NewForbidden(resp.StatusCode, loadErr)
		}
		return loadErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.NewDataLoad("error parsing response", resp.StatusCode, err)
	}
	return nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
