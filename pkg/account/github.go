package account

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	aberrors "github.com/astralsight/abcc-cli/internal/errors"
	"github.com/astralsight/abcc-cli/pkg/models"
)

// DeviceFlow runs the code-hosting OAuth device authorization flow
type DeviceFlow struct {
	cfg        models.OAuthConfig
	httpClient *http.Client
}

// NewDeviceFlow creates a device-flow client
func NewDeviceFlow(cfg models.OAuthConfig) *DeviceFlow {
	return &DeviceFlow{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// DeviceSession is an in-flight device authorization
type DeviceSession struct {
	DeviceCode              string
	UserCode                string
	VerificationURI         string
	VerificationURIComplete string
	ExpiresIn               int
	Interval                int
	Scopes                  []string
}

// TokenPayload is a granted access token
type TokenPayload struct {
	AccessToken string
	TokenType   string
	Scopes      []string
}

func (f *DeviceFlow) ensureClientID() error {
	if f.cfg.ClientID == "" {
		return aberrors.Precondition("oauth.no_client_id",
			"OAuth client id is missing; set oauth.client_id or ABCC_OAUTH_CLIENT_ID")
	}
	return nil
}

func (f *DeviceFlow) postForm(ctx context.Context, endpoint string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build OAuth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return aberrors.Wrap(aberrors.ErrorTypeCancelled, "oauth.cancelled", "login cancelled", err)
		}
		return aberrors.Wrap(aberrors.ErrorTypeNetwork, "oauth.network", "OAuth request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return aberrors.Wrap(aberrors.ErrorTypeNetwork, "oauth.read", "failed to read OAuth response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("OAuth endpoint returned %d: %s", resp.StatusCode, string(data))
	}
	return json.Unmarshal(data, out)
}

// Start requests a device code and user verification code
func (f *DeviceFlow) Start(ctx context.Context) (*DeviceSession, error) {
	if err := f.ensureClientID(); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("client_id", f.cfg.ClientID)
	form.Set("scope", strings.Join(f.cfg.Scopes, " "))

	var resp struct {
		DeviceCode              string `json:"device_code"`
		UserCode                string `json:"user_code"`
		VerificationURI         string `json:"verification_uri"`
		VerificationURIComplete string `json:"verification_uri_complete"`
		ExpiresIn               int    `json:"expires_in"`
		Interval                int    `json:"interval"`
	}
	if err := f.postForm(ctx, f.cfg.DeviceCodeURL, form, &resp); err != nil {
		return nil, err
	}

	return &DeviceSession{
		DeviceCode:              resp.DeviceCode,
		UserCode:                resp.UserCode,
		VerificationURI:         resp.VerificationURI,
		VerificationURIComplete: resp.VerificationURIComplete,
		ExpiresIn:               resp.ExpiresIn,
		Interval:                resp.Interval,
		Scopes:                  f.cfg.Scopes,
	}, nil
}

// wait sleeps for the poll interval, converting cancellation into an error
// without leaving a pending timer behind.
func wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return aberrors.Wrap(aberrors.ErrorTypeCancelled, "oauth.cancelled", "login cancelled", err)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return aberrors.Wrap(aberrors.ErrorTypeCancelled, "oauth.cancelled", "login cancelled", ctx.Err())
	}
}

// Poll polls the token endpoint until the user authorizes, the flow fails
// terminally, or ctx is cancelled. The poll interval starts at the advertised
// value (floor 5s) and grows by one second on each slow_down response.
func (f *DeviceFlow) Poll(ctx context.Context, session *DeviceSession, onStatus func(string)) (*TokenPayload, error) {
	if err := f.ensureClientID(); err != nil {
		return nil, err
	}

	interval := session.Interval
	if interval < 5 {
		interval = 5
	}

	for {
		if onStatus != nil {
			onStatus("waiting for authorization")
		}

		form := url.Values{}
		form.Set("client_id", f.cfg.ClientID)
		form.Set("device_code", session.DeviceCode)
		form.Set("grant_type", "urn:ietf:params:oauth:grant-type:device_code")

		var resp struct {
			AccessToken      string `json:"access_token"`
			TokenType        string `json:"token_type"`
			Scope            string `json:"scope"`
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		if err := f.postForm(ctx, f.cfg.TokenURL, form, &resp); err != nil {
			return nil, err
		}

		switch resp.Error {
		case "authorization_pending":
			if err := wait(ctx, time.Duration(interval)*time.Second); err != nil {
				return nil, err
			}
			continue
		case "slow_down":
			interval++
			if err := wait(ctx, time.Duration(interval)*time.Second); err != nil {
				return nil, err
			}
			continue
		case "":
		default:
			message := resp.ErrorDescription
			if message == "" {
				message = resp.Error
			}
			return nil, fmt.Errorf("device authorization failed: %s", message)
		}

		if resp.AccessToken == "" || resp.TokenType == "" {
			return nil, fmt.Errorf("device authorization returned an empty token")
		}

		scopes := parseScopes(resp.Scope)
		if len(scopes) == 0 {
			scopes = session.Scopes
		}
		return &TokenPayload{
			AccessToken: resp.AccessToken,
			TokenType:   resp.TokenType,
			Scopes:      scopes,
		}, nil
	}
}

var scopeSeparator = regexp.MustCompile(`[,\s]+`)

func parseScopes(value string) []string {
	if value == "" {
		return nil
	}
	var scopes []string
	for _, item := range scopeSeparator.Split(value, -1) {
		item = strings.TrimSpace(item)
		if item != "" {
			scopes = append(scopes, item)
		}
	}
	return scopes
}

type githubProfile struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

func (f *DeviceFlow) getJSON(ctx context.Context, endpoint, token string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("profile request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read profile response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("profile endpoint returned %d: %s", resp.StatusCode, string(data))
	}
	return json.Unmarshal(data, out)
}

// FetchProfile loads the user profile and, when the profile carries no public
// email, falls back to the primary verified address. The email lookup is
// optional: its failure is swallowed.
func (f *DeviceFlow) FetchProfile(ctx context.Context, token string) (githubProfile, string, error) {
	var profile githubProfile
	if err := f.getJSON(ctx, f.cfg.ProfileURL, token, &profile); err != nil {
		return githubProfile{}, "", err
	}

	email := profile.Email
	if email == "" {
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := f.getJSON(ctx, f.cfg.EmailsURL, token, &emails); err == nil {
			for _, item := range emails {
				if item.Primary && item.Verified {
					email = item.Email
					break
				}
			}
			if email == "" && len(emails) > 0 {
				email = emails[0].Email
			}
		}
	}

	return profile, email, nil
}

// Finalize fetches the profile for a granted token and stores the account
func (f *DeviceFlow) Finalize(ctx context.Context, store *Store, payload *TokenPayload) (*models.GithubAccount, error) {
	profile, email, err := f.FetchProfile(ctx, payload.AccessToken)
	if err != nil {
		return nil, err
	}

	name := profile.Name
	if name == "" {
		name = profile.Login
	}

	account := models.GithubAccount{
		Avatar:     profile.AvatarURL,
		Username:   profile.Login,
		Name:       name,
		Email:      email,
		Token:      payload.AccessToken,
		Scopes:     payload.Scopes,
		ProfileURL: profile.HTMLURL,
	}
	if err := store.SetGithubAccount(account); err != nil {
		return nil, err
	}
	return &account, nil
}
