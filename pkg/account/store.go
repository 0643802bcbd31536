// Package account manages the local account state and the sign-in flows for
// both identity providers.
package account

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/astralsight/abcc-cli/pkg/models"
)

// Store holds the versioned account-state blob. State is persisted as a
// single atomic document; in-process subscribers observe every write.
type Store struct {
	path string

	mu          sync.RWMutex
	state       models.AccountState
	subscribers map[int]func(models.AccountState)
	nextSubID   int
}

// NewStore loads (or initializes) the account state at path
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:        path,
		subscribers: map[int]func(models.AccountState){},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read account state: %w", err)
	}

	var state models.AccountState
	if err := json.Unmarshal(data, &state); err != nil {
		// A corrupt state file degrades to signed-out rather than blocking.
		return s, nil
	}
	s.state = normalizeState(state)
	return s, nil
}

// State returns a copy of the current account state
func (s *Store) State() models.AccountState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Save normalizes and persists the given state, then notifies subscribers
func (s *Store) Save(state models.AccountState) error {
	normalized := normalizeState(state)

	s.mu.Lock()
	s.state = normalized
	subscribers := make([]func(models.AccountState), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.Unlock()

	if err := s.persist(normalized); err != nil {
		return err
	}

	for _, fn := range subscribers {
		fn(normalized)
	}
	return nil
}

func (s *Store) persist(state models.AccountState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode account state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	// Write-then-rename keeps the document atomic for concurrent readers.
	tmp, err := os.CreateTemp(dir, ".account-state-*")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write account state: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set state file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close state file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace account state: %w", err)
	}
	return nil
}

// Subscribe registers a listener for state changes and returns an
// unsubscribe function.
func (s *Store) Subscribe(fn func(models.AccountState)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// SetGithubAccount stores the code-hosting account and makes it active
func (s *Store) SetGithubAccount(account models.GithubAccount) error {
	state := s.State()
	state.ActiveProvider = models.ProviderGithub
	state.Github = &account
	return s.Save(state)
}

// SetAstroboxAccount stores the identity-provider account and makes it active
func (s *Store) SetAstroboxAccount(account models.AstroboxAccount) error {
	state := s.State()
	state.ActiveProvider = models.ProviderAstrobox
	state.Astrobox = &account
	return s.Save(state)
}

// Logout removes one provider's account. The remaining provider, if any,
// becomes active.
func (s *Store) Logout(provider models.Provider) error {
	state := s.State()

	switch provider {
	case models.ProviderAstrobox:
		state.Astrobox = nil
	case models.ProviderGithub:
		state.Github = nil
	}

	switch {
	case provider == models.ProviderAstrobox && state.Github != nil:
		state.ActiveProvider = models.ProviderGithub
	case provider == models.ProviderGithub && state.Astrobox != nil:
		state.ActiveProvider = models.ProviderAstrobox
	default:
		state.ActiveProvider = ""
	}

	return s.Save(state)
}

// GithubToken returns the stored forge credential, or the empty string
func (s *Store) GithubToken() string {
	state := s.State()
	if state.Github == nil {
		return ""
	}
	return state.Github.Token
}

// AstroboxToken returns the stored identity-provider token, or the empty string
func (s *Store) AstroboxToken() string {
	state := s.State()
	if state.Astrobox == nil {
		return ""
	}
	return state.Astrobox.Token
}

// Display returns the merged read-only view of the account state
func (s *Store) Display() models.DisplayAccount {
	return DisplayFromState(s.State())
}

// DisplayFromState merges a state into the user-facing account view
func DisplayFromState(state models.AccountState) models.DisplayAccount {
	provider := state.ActiveProvider
	if provider == "" {
		switch {
		case state.Astrobox != nil:
			provider = models.ProviderAstrobox
		case state.Github != nil:
			provider = models.ProviderGithub
		}
	}

	var astroAvatar, githubAvatar string
	if state.Astrobox != nil {
		astroAvatar = strings.TrimSpace(state.Astrobox.Avatar)
	}
	if state.Github != nil {
		githubAvatar = strings.TrimSpace(state.Github.Avatar)
	}

	var name string
	switch provider {
	case models.ProviderAstrobox:
		if state.Astrobox != nil && state.Astrobox.Name != "" {
			name = state.Astrobox.Name
		} else if state.Github != nil {
			name = firstNonEmpty(state.Github.Name, state.Github.Username)
		}
	case models.ProviderGithub:
		if state.Github != nil {
			name = firstNonEmpty(state.Github.Name, state.Github.Username)
		}
		if name == "" && state.Astrobox != nil {
			name = state.Astrobox.Name
		}
	}

	var email, plan string
	if state.Astrobox != nil {
		email = state.Astrobox.Email
		plan = state.Astrobox.Plan
	}
	if email == "" && state.Github != nil {
		email = state.Github.Email
	}

	avatar := firstNonEmpty(astroAvatar, githubAvatar)
	avatarFallback := ""
	if astroAvatar != "" && githubAvatar != "" && astroAvatar != githubAvatar {
		avatarFallback = githubAvatar
	}

	return models.DisplayAccount{
		Provider:       provider,
		Name:           name,
		Email:          email,
		Plan:           plan,
		Avatar:         avatar,
		AvatarFallback: avatarFallback,
		HasAstrobox:    state.Astrobox != nil,
		HasGithub:      state.Github != nil,
	}
}

func normalizeState(state models.AccountState) models.AccountState {
	if state.Astrobox != nil {
		astrobox := models.AstroboxAccount{
			Avatar: strings.TrimSpace(state.Astrobox.Avatar),
			Name:   strings.TrimSpace(state.Astrobox.Name),
			Plan:   strings.TrimSpace(state.Astrobox.Plan),
			Email:  strings.TrimSpace(state.Astrobox.Email),
			Token:  state.Astrobox.Token,
		}
		state.Astrobox = &astrobox
	}

	if state.Github != nil {
		github := models.GithubAccount{
			Avatar:     strings.TrimSpace(state.Github.Avatar),
			Username:   strings.TrimSpace(state.Github.Username),
			Name:       strings.TrimSpace(state.Github.Name),
			Email:      strings.TrimSpace(state.Github.Email),
			Token:      state.Github.Token,
			Scopes:     state.Github.Scopes,
			ProfileURL: state.Github.ProfileURL,
		}
		if github.Name == "" {
			github.Name = github.Username
		}
		if github.Scopes == nil {
			github.Scopes = []string{}
		}
		state.Github = &github
	}

	if state.ActiveProvider == "" {
		switch {
		case state.Astrobox != nil:
			state.ActiveProvider = models.ProviderAstrobox
		case state.Github != nil:
			state.ActiveProvider = models.ProviderGithub
		}
	}

	return state
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
