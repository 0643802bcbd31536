package forge

import (
	"context"
	"fmt"
	"net/http"

	"github.com/astralsight/abcc-cli/pkg/models"
)

type repoResponse struct {
	Name          string `json:"name"`
	DefaultBranch string `json:"default_branch"`
	HTMLURL       string `json:"html_url"`
	Owner         struct {
		Login string `json:"login"`
	} `json:"owner"`
}

func (r repoResponse) toRepoInfo(fallbackBranch string) models.RepoInfo {
	branch := r.DefaultBranch
	if branch == "" {
		branch = fallbackBranch
	}
	return models.RepoInfo{
		Owner:   r.Owner.Login,
		Name:    r.Name,
		Branch:  branch,
		HTMLURL: r.HTMLURL,
	}
}

// GetRepo fetches a repository by owner and name
func (c *Client) GetRepo(ctx context.Context, owner, name string) (models.RepoInfo, error) {
	var resp repoResponse
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s", owner, name), nil, nil, &resp)
	if err != nil {
		return models.RepoInfo{}, err
	}
	return resp.toRepoInfo(""), nil
}

// CreateOrGetUserRepo creates a repository under the current user. When the
// forge reports the name already exists, it falls back to fetching the
// existing repository, making the operation idempotent for the caller. This
// is the only place a forge error is auto-recovered.
func (c *Client) CreateOrGetUserRepo(ctx context.Context, login, name, description, defaultBranch string) (models.RepoInfo, error) {
	body := map[string]interface{}{
		"name":           name,
		"description":    description,
		"private":        false,
		"auto_init":      true,
		"default_branch": defaultBranch,
	}

	var resp repoResponse
	err := c.do(ctx, http.MethodPost, "/user/repos", nil, body, &resp)
	if err == nil {
		return resp.toRepoInfo(defaultBranch), nil
	}
	if !IsAlreadyExists(err) {
		return models.RepoInfo{}, err
	}

	existing, getErr := c.GetRepo(ctx, login, name)
	if getErr != nil {
		return models.RepoInfo{}, getErr
	}
	if existing.Branch == "" {
		existing.Branch = defaultBranch
	}
	return existing, nil
}

// ForkInfo identifies a fork created (or already present) under the user
type ForkInfo struct {
	Owner         string
	Name          string
	DefaultBranch string
}

// Fork creates a fork of owner/repo under the current user. The forge returns
// the existing fork when one is already present.
func (c *Client) Fork(ctx context.Context, owner, repo string) (ForkInfo, error) {
	var resp repoResponse
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/repos/%s/%s/forks", owner, repo), nil, nil, &resp)
	if err != nil {
		return ForkInfo{}, err
	}
	return ForkInfo{
		Owner:         resp.Owner.Login,
		Name:          resp.Name,
		DefaultBranch: resp.DefaultBranch,
	}, nil
}
