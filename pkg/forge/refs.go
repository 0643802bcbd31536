package forge

import (
	"context"
	"fmt"
	"net/http"
)

// GetRefSHA resolves a ref (e.g. "heads/main") to its commit SHA
func (c *Client) GetRefSHA(ctx context.Context, owner, repo, ref string) (string, error) {
	var resp struct {
		Object struct {
			SHA string `json:"sha"`
		} `json:"object"`
	}
	err := c.do(ctx, http.MethodGet,
		fmt.Sprintf("/repos/%s/%s/git/ref/%s", owner, repo, ref),
		nil, nil, &resp)
	if err != nil {
		return "", err
	}
	return resp.Object.SHA, nil
}

// CreateBranch creates refs/heads/<branch> at baseSHA
func (c *Client) CreateBranch(ctx context.Context, owner, repo, baseSHA, branch string) error {
	body := map[string]string{
		"ref": "refs/heads/" + branch,
		"sha": baseSHA,
	}
	return c.do(ctx, http.MethodPost,
		fmt.Sprintf("/repos/%s/%s/git/refs", owner, repo),
		nil, body, nil)
}

// MergeBranch merges head ("owner:branch") into base within owner/repo. Used
// to fast-forward a PR head branch against upstream before rewriting it.
func (c *Client) MergeBranch(ctx context.Context, owner, repo, base, head string) error {
	body := map[string]string{
		"base": base,
		"head": head,
	}
	return c.do(ctx, http.MethodPost,
		fmt.Sprintf("/repos/%s/%s/merges", owner, repo),
		nil, body, nil)
}
