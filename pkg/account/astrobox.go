package account

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/astralsight/abcc-cli/pkg/models"
)

// AstroboxClient talks to the AstroBox backend for identity-provider sign-in
type AstroboxClient struct {
	baseURL    string
	signInURL  string
	httpClient *http.Client
}

// NewAstroboxClient creates a backend client
func NewAstroboxClient(cfg models.ServerConfig) *AstroboxClient {
	return &AstroboxClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		signInURL: cfg.SignInURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SignInURL returns the hosted sign-in page the user opens in a browser. The
// callback delivers an authorization code to exchange with ExchangeCode.
func (c *AstroboxClient) SignInURL() string {
	if c.signInURL != "" {
		return c.signInURL
	}
	return c.baseURL + "/auth/signin"
}

// ExchangeCode trades a sign-in authorization code for a bearer token
func (c *AstroboxClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/api/exchangeCode", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build exchange request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("code exchange failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read exchange response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("code exchange returned %d: %s", resp.StatusCode, string(data))
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("failed to parse exchange response: %w", err)
	}
	if payload.Token == "" {
		return "", fmt.Errorf("code exchange returned an empty token")
	}
	return payload.Token, nil
}

// FetchProfile queries the backend for profile data keyed by the token
func (c *AstroboxClient) FetchProfile(ctx context.Context, token string) (models.AstroboxAccount, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/auth/api/getUserInfo", nil)
	if err != nil {
		return models.AstroboxAccount{}, fmt.Errorf("failed to build profile request: %w", err)
	}
	req.Header.Set("X-ASTROBOX-TOKEN", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.AstroboxAccount{}, fmt.Errorf("profile request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.AstroboxAccount{}, fmt.Errorf("failed to read profile response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return models.AstroboxAccount{}, fmt.Errorf("profile endpoint returned %d: %s", resp.StatusCode, string(data))
	}

	var payload struct {
		Avatar string `json:"avatar"`
		Name   string `json:"name"`
		Plan   string `json:"plan"`
		Email  string `json:"email"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return models.AstroboxAccount{}, fmt.Errorf("failed to parse profile response: %w", err)
	}

	return models.AstroboxAccount{
		Avatar: payload.Avatar,
		Name:   payload.Name,
		Plan:   payload.Plan,
		Email:  payload.Email,
		Token:  token,
	}, nil
}

// Login exchanges a callback code, fetches the profile and stores the account
func (c *AstroboxClient) Login(ctx context.Context, store *Store, code string) (*models.AstroboxAccount, error) {
	token, err := c.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}
	account, err := c.FetchProfile(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := store.SetAstroboxAccount(account); err != nil {
		return nil, err
	}
	return &account, nil
}
