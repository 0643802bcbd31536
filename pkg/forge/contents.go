package forge

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// FileContent is the contents API view of one file at a ref
type FileContent struct {
	Path    string `json:"path"`
	SHA     string `json:"sha"`
	Content string `json:"content"`
}

// Decode returns the raw bytes of a base64 contents payload
func (f *FileContent) Decode() ([]byte, error) {
	cleaned := strings.ReplaceAll(f.Content, "\n", "")
	data, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to decode file content: %w", err)
	}
	return data, nil
}

// GetFile fetches a file's content and blob SHA at an optional ref.
// A 404 means the file does not exist; use IsNotFound to probe.
func (c *Client) GetFile(ctx context.Context, owner, repo, path, ref string) (*FileContent, error) {
	query := url.Values{}
	if ref != "" {
		query.Set("ref", ref)
	}

	var resp FileContent
	err := c.do(ctx, http.MethodGet,
		fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, escapePath(path)),
		query, nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetFileSHA probes for an existing file's blob SHA on a branch. A missing
// file is not an error: it returns the empty string.
func (c *Client) GetFileSHA(ctx context.Context, owner, repo, path, ref string) (string, error) {
	file, err := c.GetFile(ctx, owner, repo, path, ref)
	if err != nil {
		if IsNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return file.SHA, nil
}

// PutFileInput describes one sha-guarded content write
type PutFileInput struct {
	Message string
	Content []byte
	// SHA is the current blob SHA when updating an existing file. Leaving it
	// empty creates the file; a stale SHA is rejected by the forge.
	SHA    string
	Branch string
}

// PutFileResult reports the commit an upload produced
type PutFileResult struct {
	CommitSHA  string
	ContentSHA string
}

// PutFile creates or updates a file through the contents API. The SHA field
// is the compare-and-swap guard; use IsConflict to detect a mismatch and
// re-read rather than overwrite.
func (c *Client) PutFile(ctx context.Context, owner, repo, path string, input PutFileInput) (*PutFileResult, error) {
	body := map[string]interface{}{
		"message": input.Message,
		"content": base64.StdEncoding.EncodeToString(input.Content),
	}
	if input.Branch != "" {
		body["branch"] = input.Branch
	}
	if input.SHA != "" {
		body["sha"] = input.SHA
	}

	var resp struct {
		Commit struct {
			SHA string `json:"sha"`
		} `json:"commit"`
		Content struct {
			SHA string `json:"sha"`
		} `json:"content"`
	}
	err := c.do(ctx, http.MethodPut,
		fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, escapePath(path)),
		nil, body, &resp)
	if err != nil {
		return nil, err
	}
	return &PutFileResult{
		CommitSHA:  resp.Commit.SHA,
		ContentSHA: resp.Content.SHA,
	}, nil
}
