// Package authapi calls the external API-key validation service.
package authapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sophialabs/inkwell/internal/domain/debug"
)

// DefaultBaseURL points at a local development instance of the auth service.
const DefaultBaseURL = "http://localhost:8787"

const (
	keyHeader   = "X-Api-Key"
	keyPath     = "/v1/auth/api-key"
	maxBodySize = 1 << 20 // 1 MB
)

var _ debug.KeyValidator = (*Client)(nil)

// Client validates API keys against the auth service. It performs a single
// GET per validation with no retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client. An empty baseURL falls back to DefaultBaseURL; a
// zero timeout leaves the transport default in place.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Validate sends the raw key in the X-Api-Key header and decodes the
// service's response. Any transport failure or non-2xx status is an error;
// callers are expected to treat the key as invalid and discard the reason.
func (c *Client) Validate(ctx context.Context, key string) (*debug.APIKeyInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+keyPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build validation request: %w", err)
	}
	req.Header.Set(keyHeader, key)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("validation request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, fmt.Errorf("validation returned status %d", resp.StatusCode)
	}

	var info debug.APIKeyInfo
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode validation response: %w", err)
	}
	return &info, nil
}
