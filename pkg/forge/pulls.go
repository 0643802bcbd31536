package forge

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// PullRequest is the subset of the pulls API this system depends on
type PullRequest struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	HTMLURL   string `json:"html_url"`
	CreatedAt string `json:"created_at"`
	User      struct {
		Login string `json:"login"`
	} `json:"user"`
	Head struct {
		Ref  string `json:"ref"`
		SHA  string `json:"sha"`
		Repo *struct {
			Name  string `json:"name"`
			Owner struct {
				Login string `json:"login"`
			} `json:"owner"`
		} `json:"repo"`
	} `json:"head"`
}

// PullRequestInput describes a pull request to open
type PullRequestInput struct {
	Title      string
	Body       string
	BaseBranch string
	HeadOwner  string
	HeadBranch string
}

// CreatePullRequest opens a pull request against baseOwner/baseRepo with a
// cross-repository head of the form "owner:branch".
func (c *Client) CreatePullRequest(ctx context.Context, baseOwner, baseRepo string, input PullRequestInput) (*PullRequest, error) {
	body := map[string]string{
		"title": input.Title,
		"body":  input.Body,
		"base":  input.BaseBranch,
		"head":  input.HeadOwner + ":" + input.HeadBranch,
	}

	var resp PullRequest
	err := c.do(ctx, http.MethodPost,
		fmt.Sprintf("/repos/%s/%s/pulls", baseOwner, baseRepo),
		nil, body, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListOpenPullRequests lists open pull requests against owner/repo
func (c *Client) ListOpenPullRequests(ctx context.Context, owner, repo string) ([]PullRequest, error) {
	query := url.Values{}
	query.Set("state", "open")
	query.Set("per_page", "50")

	var resp []PullRequest
	err := c.do(ctx, http.MethodGet,
		fmt.Sprintf("/repos/%s/%s/pulls", owner, repo),
		query, nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// PullFile is one changed file of a pull request, with its unified diff patch
type PullFile struct {
	Filename string `json:"filename"`
	Patch    string `json:"patch"`
}

// ListPullFiles lists the files changed by a pull request
func (c *Client) ListPullFiles(ctx context.Context, owner, repo string, number int) ([]PullFile, error) {
	query := url.Values{}
	query.Set("per_page", "100")

	var resp []PullFile
	err := c.do(ctx, http.MethodGet,
		fmt.Sprintf("/repos/%s/%s/pulls/%d/files", owner, repo, number),
		query, nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// IssueComment is one comment on a pull request's issue thread
type IssueComment struct {
	Body string `json:"body"`
	User struct {
		Login string `json:"login"`
	} `json:"user"`
}

// ListIssueComments lists the comments on an issue or pull request
func (c *Client) ListIssueComments(ctx context.Context, owner, repo string, number int) ([]IssueComment, error) {
	query := url.Values{}
	query.Set("per_page", "100")

	var resp []IssueComment
	err := c.do(ctx, http.MethodGet,
		fmt.Sprintf("/repos/%s/%s/issues/%d/comments", owner, repo, number),
		query, nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
