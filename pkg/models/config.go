package models

// Config represents the full CLI configuration
type Config struct {
	Forge   ForgeConfig   `mapstructure:"forge"`
	OAuth   OAuthConfig   `mapstructure:"oauth"`
	Publish PublishConfig `mapstructure:"publish"`
	Server  ServerConfig  `mapstructure:"server"`
	Devices DevicesConfig `mapstructure:"devices"`
	Account AccountConfig `mapstructure:"account"`
}

// ForgeConfig contains the code-hosting REST API endpoints
type ForgeConfig struct {
	APIBaseURL string `mapstructure:"api_base_url"`
	RawBaseURL string `mapstructure:"raw_base_url"`
}

// OAuthConfig contains the device-flow OAuth endpoints and client settings
type OAuthConfig struct {
	ClientID      string   `mapstructure:"client_id"`
	Scopes        []string `mapstructure:"scopes"`
	DeviceCodeURL string   `mapstructure:"device_code_url"`
	TokenURL      string   `mapstructure:"token_url"`
	ProfileURL    string   `mapstructure:"profile_url"`
	EmailsURL     string   `mapstructure:"emails_url"`
}

// PublishConfig contains the catalog and resource repository settings
type PublishConfig struct {
	ManifestFileName  string `mapstructure:"manifest_file_name"`
	MediaDirectory    string `mapstructure:"media_directory"`
	DownloadsDir      string `mapstructure:"downloads_directory"`
	DefaultBranch     string `mapstructure:"default_branch"`
	RepoNamePrefix    string `mapstructure:"repo_name_prefix"`
	UpstreamRepoOwner string `mapstructure:"upstream_repo_owner"`
	UpstreamRepoName  string `mapstructure:"upstream_repo_name"`
	TargetPrRepoOwner string `mapstructure:"target_pr_repo_owner"`
	TargetPrRepoName  string `mapstructure:"target_pr_repo_name"`
	CatalogFilePath   string `mapstructure:"catalog_file_path"`
	DefaultPrTitle    string `mapstructure:"default_pr_title"`
}

// ServerConfig contains the AstroBox backend settings
type ServerConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	SignInURL string `mapstructure:"sign_in_url"`
}

// DevicesConfig contains the device catalog settings
type DevicesConfig struct {
	CatalogURL string `mapstructure:"catalog_url"`
}

// AccountConfig contains local account state settings
type AccountConfig struct {
	StatePath string `mapstructure:"state_path"`
}
