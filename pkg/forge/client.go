package forge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	aberrors "github.com/astralsight/abcc-cli/internal/errors"
	"github.com/astralsight/abcc-cli/pkg/utils"
)

// Client wraps the code-hosting REST API. One capability per operation; every
// non-success status surfaces as an *APIError carrying status code and body.
// No automatic retry: callers treat a failed call as terminal for the current
// step and re-trigger it.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     utils.Logger
}

// NewClient creates a forge client. The token may be empty; operations fail
// with a precondition error before any network call in that case.
func NewClient(baseURL, token string, logger utils.Logger) *Client {
	if logger == nil {
		logger = utils.NewLogger()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Token returns the bearer credential the client was built with
func (c *Client) Token() string {
	return c.token
}

func (c *Client) ensureToken() error {
	if c.token == "" {
		return aberrors.Precondition("forge.no_token", "not signed in to the code-hosting service")
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	if err := c.ensureToken(); err != nil {
		return err
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Cache-Control", "no-cache")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("forge %s %s", method, path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return aberrors.Wrap(aberrors.ErrorTypeCancelled, "forge.cancelled", "request cancelled", err)
		}
		return aberrors.Wrap(aberrors.ErrorTypeNetwork, "forge.network", "forge request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return aberrors.Wrap(aberrors.ErrorTypeNetwork, "forge.read", "failed to read forge response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode forge response: %w", err)
		}
	}

	return nil
}

func escapePath(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
