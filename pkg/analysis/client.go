// Package analysis is the read-only client for the creator analytics
// dashboards: pure fetch-and-display, no invariants of its own.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	aberrors "github.com/astralsight/abcc-cli/internal/errors"
	"github.com/astralsight/abcc-cli/pkg/models"
)

// Client queries the AstroBox analytics endpoints
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates an analytics client for the given backend and token
func NewClient(cfg models.ServerConfig, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if c.token == "" {
		return aberrors.Precondition("analysis.no_token", "not signed in to AstroBox")
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build analytics request: %w", err)
	}
	req.Header.Set("X-ASTROBOX-TOKEN", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("analytics request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read analytics response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("analytics endpoint returned %d: %s", resp.StatusCode, string(data))
	}
	return json.Unmarshal(data, out)
}

// Heatmap fetches the creator download heatmap for a map scope and period
func (c *Client) Heatmap(ctx context.Context, scope models.AnalysisMapScope, period models.AnalysisPeriod) (*models.AnalysisHeatmapResponse, error) {
	if period == "" {
		period = models.AnalysisPeriod30d
	}
	query := url.Values{}
	query.Set("scope", string(scope))
	query.Set("period", string(period))

	var resp models.AnalysisHeatmapResponse
	if err := c.get(ctx, "/analysis/api/creator-console/heatmap", query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Overview fetches the creator overview for a period
func (c *Client) Overview(ctx context.Context, period models.AnalysisPeriod) (*models.AnalysisOverviewResponse, error) {
	if period == "" {
		period = models.AnalysisPeriod30d
	}
	query := url.Values{}
	query.Set("period", string(period))

	var resp models.AnalysisOverviewResponse
	if err := c.get(ctx, "/analysis/api/creator-console/overview", query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Dashboard fetches the creator console home dashboard
func (c *Client) Dashboard(ctx context.Context) (*models.DashboardResponse, error) {
	var resp models.DashboardResponse
	if err := c.get(ctx, "/dashboard/api/creator-console/home", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
