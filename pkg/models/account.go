package models

// Provider names an identity provider
type Provider string

const (
	ProviderAstrobox Provider = "astrobox"
	ProviderGithub   Provider = "github"
)

// AstroboxAccount holds the identity-provider account of the current user
type AstroboxAccount struct {
	Avatar string `json:"avatar"`
	Name   string `json:"name"`
	Plan   string `json:"plan"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// GithubAccount holds the code-hosting account of the current user
type GithubAccount struct {
	Avatar     string   `json:"avatar"`
	Username   string   `json:"username"`
	Name       string   `json:"name,omitempty"`
	Email      string   `json:"email,omitempty"`
	Token      string   `json:"token"`
	Scopes     []string `json:"scopes"`
	ProfileURL string   `json:"profile_url,omitempty"`
}

// AccountState is the versioned account-state blob persisted as a single
// atomic document.
type AccountState struct {
	ActiveProvider Provider         `json:"active_provider,omitempty"`
	Astrobox       *AstroboxAccount `json:"astrobox,omitempty"`
	Github         *GithubAccount   `json:"github,omitempty"`
}

// DisplayAccount is the merged read-only view shown to the user
type DisplayAccount struct {
	Provider       Provider `json:"provider,omitempty"`
	Name           string   `json:"name,omitempty"`
	Email          string   `json:"email,omitempty"`
	Plan           string   `json:"plan,omitempty"`
	Avatar         string   `json:"avatar,omitempty"`
	AvatarFallback string   `json:"avatar_fallback,omitempty"`
	HasAstrobox    bool     `json:"has_astrobox"`
	HasGithub      bool     `json:"has_github"`
}
