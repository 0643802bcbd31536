package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://api.github.com", cfg.Forge.APIBaseURL)
	assert.Equal(t, "manifest_v2.json", cfg.Publish.ManifestFileName)
	assert.Equal(t, "media", cfg.Publish.MediaDirectory)
	assert.Equal(t, "downloads", cfg.Publish.DownloadsDir)
	assert.Equal(t, "main", cfg.Publish.DefaultBranch)
	assert.Equal(t, "astrobox-resource-", cfg.Publish.RepoNamePrefix)
	assert.Equal(t, "AstralSightStudios", cfg.Publish.UpstreamRepoOwner)
	assert.Equal(t, "ABRepo-TestEnv", cfg.Publish.UpstreamRepoName)
	assert.Equal(t, "index_v2.csv", cfg.Publish.CatalogFilePath)
	assert.Equal(t, "[ABCC] Add new resource", cfg.Publish.DefaultPrTitle)
	assert.Equal(t, "https://serverless.astrobox.online", cfg.Server.BaseURL)
	assert.NotEmpty(t, cfg.Devices.CatalogURL)
	assert.NotEmpty(t, cfg.Account.StatePath)
}

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abcc.yaml")
	content := "publish:\n  default_branch: develop\n  repo_name_prefix: custom-\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "develop", cfg.Publish.DefaultBranch)
	assert.Equal(t, "custom-", cfg.Publish.RepoNamePrefix)
	// Values absent from the file keep their defaults.
	assert.Equal(t, "index_v2.csv", cfg.Publish.CatalogFilePath)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "abcc.yaml")

	require.NoError(t, SaveTemplate(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "upstream_repo_owner")
	assert.Contains(t, string(data), "client_id")
}
