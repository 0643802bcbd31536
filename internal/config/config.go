package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/astralsight/abcc-cli/pkg/models"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var defaultConfig = models.Config{
	Forge: models.ForgeConfig{
		APIBaseURL: "https://api.github.com",
		RawBaseURL: "https://raw.githubusercontent.com",
	},
	OAuth: models.OAuthConfig{
		Scopes:        []string{"public_repo", "read:user", "user:email"},
		DeviceCodeURL: "https://github.com/login/device/code",
		TokenURL:      "https://github.com/login/oauth/access_token",
		ProfileURL:    "https://api.github.com/user",
		EmailsURL:     "https://api.github.com/user/emails",
	},
	Publish: models.PublishConfig{
		ManifestFileName:  "manifest_v2.json",
		MediaDirectory:    "media",
		DownloadsDir:      "downloads",
		DefaultBranch:     "main",
		RepoNamePrefix:    "astrobox-resource-",
		UpstreamRepoOwner: "AstralSightStudios",
		UpstreamRepoName:  "ABRepo-TestEnv",
		TargetPrRepoOwner: "AstralSightStudios",
		TargetPrRepoName:  "ABRepo-TestEnv",
		CatalogFilePath:   "index_v2.csv",
		DefaultPrTitle:    "[ABCC] Add new resource",
	},
	Server: models.ServerConfig{
		BaseURL: "https://serverless.astrobox.online",
	},
	Devices: models.DevicesConfig{
		CatalogURL: "https://raw.githubusercontent.com/AstralSightStudios/AstroBox-Repo/refs/heads/main/devices_v2.json",
	},
}

// Load loads configuration from file and environment
func Load(configPath string) (*models.Config, error) {
	viper.SetConfigType("yaml")

	setDefaults()

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("abcc")
		viper.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "abcc"))
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is not an error, we'll use defaults
	}

	viper.SetEnvPrefix("ABCC")
	viper.AutomaticEnv()

	var config models.Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Account.StatePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		config.Account.StatePath = filepath.Join(home, ".config", "abcc", "account_state_v2.json")
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("forge.api_base_url", defaultConfig.Forge.APIBaseURL)
	viper.SetDefault("forge.raw_base_url", defaultConfig.Forge.RawBaseURL)
	viper.SetDefault("oauth.scopes", defaultConfig.OAuth.Scopes)
	viper.SetDefault("oauth.device_code_url", defaultConfig.OAuth.DeviceCodeURL)
	viper.SetDefault("oauth.token_url", defaultConfig.OAuth.TokenURL)
	viper.SetDefault("oauth.profile_url", defaultConfig.OAuth.ProfileURL)
	viper.SetDefault("oauth.emails_url", defaultConfig.OAuth.EmailsURL)
	viper.SetDefault("publish.manifest_file_name", defaultConfig.Publish.ManifestFileName)
	viper.SetDefault("publish.media_directory", defaultConfig.Publish.MediaDirectory)
	viper.SetDefault("publish.downloads_directory", defaultConfig.Publish.DownloadsDir)
	viper.SetDefault("publish.default_branch", defaultConfig.Publish.DefaultBranch)
	viper.SetDefault("publish.repo_name_prefix", defaultConfig.Publish.RepoNamePrefix)
	viper.SetDefault("publish.upstream_repo_owner", defaultConfig.Publish.UpstreamRepoOwner)
	viper.SetDefault("publish.upstream_repo_name", defaultConfig.Publish.UpstreamRepoName)
	viper.SetDefault("publish.target_pr_repo_owner", defaultConfig.Publish.TargetPrRepoOwner)
	viper.SetDefault("publish.target_pr_repo_name", defaultConfig.Publish.TargetPrRepoName)
	viper.SetDefault("publish.catalog_file_path", defaultConfig.Publish.CatalogFilePath)
	viper.SetDefault("publish.default_pr_title", defaultConfig.Publish.DefaultPrTitle)
	viper.SetDefault("server.base_url", defaultConfig.Server.BaseURL)
	viper.SetDefault("devices.catalog_url", defaultConfig.Devices.CatalogURL)
}

// SaveTemplate writes a commented configuration template with current defaults
func SaveTemplate(path string) error {
	type templateDoc struct {
		Forge   map[string]interface{} `yaml:"forge"`
		OAuth   map[string]interface{} `yaml:"oauth"`
		Publish map[string]interface{} `yaml:"publish"`
		Server  map[string]interface{} `yaml:"server"`
		Devices map[string]interface{} `yaml:"devices"`
	}

	doc := templateDoc{
		Forge: map[string]interface{}{
			"api_base_url": defaultConfig.Forge.APIBaseURL,
			"raw_base_url": defaultConfig.Forge.RawBaseURL,
		},
		OAuth: map[string]interface{}{
			"client_id": "",
			"scopes":    defaultConfig.OAuth.Scopes,
		},
		Publish: map[string]interface{}{
			"upstream_repo_owner":  defaultConfig.Publish.UpstreamRepoOwner,
			"upstream_repo_name":   defaultConfig.Publish.UpstreamRepoName,
			"target_pr_repo_owner": defaultConfig.Publish.TargetPrRepoOwner,
			"target_pr_repo_name":  defaultConfig.Publish.TargetPrRepoName,
			"default_branch":       defaultConfig.Publish.DefaultBranch,
		},
		Server: map[string]interface{}{
			"base_url": defaultConfig.Server.BaseURL,
		},
		Devices: map[string]interface{}{
			"catalog_url": defaultConfig.Devices.CatalogURL,
		},
	}

	body, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal config template: %w", err)
	}

	header := "# AstroBox Creator Console configuration\n" +
		"# Values may also be supplied via ABCC_* environment variables.\n\n"

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return os.WriteFile(path, append([]byte(header), body...), 0o644)
}
