package account

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astralsight/abcc-cli/pkg/models"
)

func statePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "nested", "account_state_v2.json")
}

func TestNewStoreMissingFileStartsSignedOut(t *testing.T) {
	store, err := NewStore(statePath(t))
	require.NoError(t, err)

	state := store.State()
	assert.Nil(t, state.Astrobox)
	assert.Nil(t, state.Github)
	assert.Empty(t, state.ActiveProvider)
}

func TestNewStoreCorruptFileDegradesToSignedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store, err := NewStore(path)
	require.NoError(t, err)
	assert.Nil(t, store.State().Github)
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	path := statePath(t)

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SetGithubAccount(models.GithubAccount{
		Username: "alice",
		Token:    "gh-token",
	}))

	reloaded, err := NewStore(path)
	require.NoError(t, err)

	state := reloaded.State()
	require.NotNil(t, state.Github)
	assert.Equal(t, "alice", state.Github.Username)
	assert.Equal(t, "gh-token", reloaded.GithubToken())
	assert.Equal(t, models.ProviderGithub, state.ActiveProvider)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestNormalizeFillsGithubNameAndScopes(t *testing.T) {
	store, err := NewStore(statePath(t))
	require.NoError(t, err)

	require.NoError(t, store.SetGithubAccount(models.GithubAccount{
		Username: "  alice  ",
		Token:    "tok",
	}))

	github := store.State().Github
	require.NotNil(t, github)
	assert.Equal(t, "alice", github.Username)
	assert.Equal(t, "alice", github.Name)
	assert.NotNil(t, github.Scopes)
}

func TestLogoutSwitchesActiveProvider(t *testing.T) {
	store, err := NewStore(statePath(t))
	require.NoError(t, err)
	require.NoError(t, store.SetGithubAccount(models.GithubAccount{Username: "alice", Token: "t1"}))
	require.NoError(t, store.SetAstroboxAccount(models.AstroboxAccount{Name: "Alice", Token: "t2"}))

	assert.Equal(t, models.ProviderAstrobox, store.State().ActiveProvider)

	require.NoError(t, store.Logout(models.ProviderAstrobox))
	state := store.State()
	assert.Nil(t, state.Astrobox)
	require.NotNil(t, state.Github)
	assert.Equal(t, models.ProviderGithub, state.ActiveProvider)

	require.NoError(t, store.Logout(models.ProviderGithub))
	state = store.State()
	assert.Nil(t, state.Github)
	assert.Empty(t, state.ActiveProvider)
	assert.Empty(t, store.GithubToken())
}

func TestSubscribeObservesWritesUntilUnsubscribed(t *testing.T) {
	store, err := NewStore(statePath(t))
	require.NoError(t, err)

	var seen []models.Provider
	unsubscribe := store.Subscribe(func(state models.AccountState) {
		seen = append(seen, state.ActiveProvider)
	})

	require.NoError(t, store.SetGithubAccount(models.GithubAccount{Username: "alice", Token: "t"}))
	unsubscribe()
	require.NoError(t, store.Logout(models.ProviderGithub))

	assert.Equal(t, []models.Provider{models.ProviderGithub}, seen)
}

func TestDisplayFromStatePrefersAstrobox(t *testing.T) {
	display := DisplayFromState(models.AccountState{
		ActiveProvider: models.ProviderAstrobox,
		Astrobox: &models.AstroboxAccount{
			Name:   "Alice",
			Email:  "alice@example.com",
			Plan:   "creatorplus",
			Avatar: "https://a.example/avatar.png",
		},
		Github: &models.GithubAccount{
			Username: "alice-gh",
			Avatar:   "https://gh.example/avatar.png",
		},
	})

	assert.Equal(t, models.ProviderAstrobox, display.Provider)
	assert.Equal(t, "Alice", display.Name)
	assert.Equal(t, "creatorplus", display.Plan)
	assert.Equal(t, "https://a.example/avatar.png", display.Avatar)
	assert.Equal(t, "https://gh.example/avatar.png", display.AvatarFallback)
	assert.True(t, display.HasAstrobox)
	assert.True(t, display.HasGithub)
}

func TestDisplayFromStateGithubOnly(t *testing.T) {
	display := DisplayFromState(models.AccountState{
		Github: &models.GithubAccount{
			Username: "alice",
			Email:    "alice@users.example",
		},
	})

	assert.Equal(t, models.ProviderGithub, display.Provider)
	assert.Equal(t, "alice", display.Name)
	assert.Equal(t, "alice@users.example", display.Email)
	assert.Empty(t, display.AvatarFallback)
}
