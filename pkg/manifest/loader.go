package manifest

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	aberrors "github.com/astralsight/abcc-cli/internal/errors"
	"github.com/astralsight/abcc-cli/pkg/forge"
	"github.com/astralsight/abcc-cli/pkg/models"
)

// LoadResult is a manifest fetched from a resource repository
type LoadResult struct {
	Manifest models.ManifestDocument
	Raw      []byte
	Repo     models.RepoInfo
	SHA      string
}

// FetchForCatalogEntry loads a catalog entry's manifest at its pinned commit
// (or an explicit ref override).
func FetchForCatalogEntry(ctx context.Context, client *forge.Client, cfg models.PublishConfig, entry models.CatalogEntry, ref string) (*LoadResult, error) {
	repo := models.RepoInfo{
		Owner:  entry.RepoOwner,
		Name:   entry.RepoName,
		Branch: cfg.DefaultBranch,
	}
	fetchRef := ref
	if fetchRef == "" {
		fetchRef = entry.RepoCommitHash
	}
	if fetchRef == "" {
		fetchRef = cfg.DefaultBranch
	}

	file, err := client.GetFile(ctx, repo.Owner, repo.Name, cfg.ManifestFileName, fetchRef)
	if err != nil {
		return nil, err
	}
	raw, err := file.Decode()
	if err != nil {
		return nil, err
	}

	var doc models.ManifestDocument
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, aberrors.Wrap(aberrors.ErrorTypeValidation, "manifest.invalid",
				"manifest_v2.json is missing or invalid", err)
		}
	}
	if doc.Item.ID == "" {
		return nil, aberrors.Validation("manifest.invalid", "manifest_v2.json is missing or invalid")
	}

	return &LoadResult{
		Manifest: doc,
		Raw:      raw,
		Repo:     repo,
		SHA:      file.SHA,
	}, nil
}

// BuildRawFileURL returns the raw-content URL for a repo file at a ref
func BuildRawFileURL(rawBaseURL, owner, repo, ref, path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.TrimRight(rawBaseURL, "/") + "/" + owner + "/" + repo + "/" + ref + "/" + strings.Join(parts, "/")
}
