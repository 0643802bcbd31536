package publish

import (
	"context"
	"fmt"

	"github.com/astralsight/abcc-cli/pkg/forge"
	"github.com/astralsight/abcc-cli/pkg/manifest"
	"github.com/astralsight/abcc-cli/pkg/models"
)

// Progress receives one human-readable line per upload step
type Progress func(message string)

// Uploader publishes a manifest and its assets into the resource's own
// repository, one commit per file, recording the most recent commit SHA.
type Uploader struct {
	forge    *forge.Client
	cfg      models.PublishConfig
	progress Progress
}

// NewUploader creates an uploader
func NewUploader(client *forge.Client, cfg models.PublishConfig, progress Progress) *Uploader {
	if progress == nil {
		progress = func(string) {}
	}
	return &Uploader{forge: client, cfg: cfg, progress: progress}
}

// UploadRequest is one publish-files run for a new resource
type UploadRequest struct {
	Build            *manifest.BuildResult
	ItemID           string
	ItemName         string
	Description      string
	Login            string
	RepoNameOverride string
}

// UploadNew creates (or reuses) the resource repository and uploads previews,
// icon, cover, download packages and finally the manifest, in that order.
// Uploads are independent commits against the same branch; ordering exists
// for log readability. Returns the repo with CommitSHA set to the last commit.
func (u *Uploader) UploadNew(ctx context.Context, req UploadRequest) (models.RepoInfo, error) {
	repoName := req.RepoNameOverride
	if repoName == "" {
		slug := req.ItemID
		if slug == "" {
			slug = req.ItemName
		}
		if slug == "" {
			slug = "resource"
		}
		repoName = BuildRepoName(u.cfg.RepoNamePrefix, slug)
	}

	description := req.Description
	if description == "" {
		description = req.ItemName
	}
	if description == "" {
		description = repoName
	}

	u.progress(fmt.Sprintf("creating repository %s", repoName))
	repo, err := u.forge.CreateOrGetUserRepo(ctx, req.Login, repoName, description, u.cfg.DefaultBranch)
	if err != nil {
		return models.RepoInfo{}, err
	}
	if repo.Branch == "" {
		repo.Branch = u.cfg.DefaultBranch
	}

	lastSHA := ""
	upload := func(asset manifest.AssetDescriptor, message string) error {
		if asset.SkipUpload {
			return nil
		}
		u.progress(fmt.Sprintf("uploading %s", asset.Path))
		res, err := u.forge.PutFile(ctx, repo.Owner, repo.Name, asset.Path, forge.PutFileInput{
			Message: message,
			Content: asset.Data,
			Branch:  repo.Branch,
		})
		if err != nil {
			return err
		}
		if res.CommitSHA != "" {
			lastSHA = res.CommitSHA
		}
		return nil
	}

	for _, asset := range req.Build.PreviewAssets {
		if err := upload(asset, "Add preview "+asset.Path); err != nil {
			return models.RepoInfo{}, err
		}
	}
	if req.Build.IconAsset != nil {
		if err := upload(*req.Build.IconAsset, "Add icon"); err != nil {
			return models.RepoInfo{}, err
		}
	}
	if req.Build.CoverAsset != nil {
		if err := upload(*req.Build.CoverAsset, "Add cover"); err != nil {
			return models.RepoInfo{}, err
		}
	}
	for _, asset := range req.Build.DownloadAssets {
		if err := upload(asset.AssetDescriptor, "Add package for "+asset.PlatformID); err != nil {
			return models.RepoInfo{}, err
		}
	}

	u.progress("uploading " + u.cfg.ManifestFileName)
	res, err := u.forge.PutFile(ctx, repo.Owner, repo.Name, u.cfg.ManifestFileName, forge.PutFileInput{
		Message: "Add " + u.cfg.ManifestFileName,
		Content: req.Build.ManifestJSON,
		Branch:  repo.Branch,
	})
	if err != nil {
		return models.RepoInfo{}, err
	}
	if res.CommitSHA != "" {
		lastSHA = res.CommitSHA
	}

	repo.CommitSHA = lastSHA
	return repo, nil
}

// UploadUpsert re-publishes into an existing repository. Every upload first
// probes for the current blob SHA at that path (404 tolerated as "new file"),
// turning each write into an upsert so retrying a failed step is always safe.
func (u *Uploader) UploadUpsert(ctx context.Context, build *manifest.BuildResult, repo models.RepoInfo) (models.RepoInfo, error) {
	if repo.Branch == "" {
		repo.Branch = u.cfg.DefaultBranch
	}

	lastSHA := ""
	upload := func(asset manifest.AssetDescriptor, message string) error {
		if asset.SkipUpload {
			return nil
		}
		sha, err := u.forge.GetFileSHA(ctx, repo.Owner, repo.Name, asset.Path, repo.Branch)
		if err != nil {
			// Probe failures fall back to a create; the guarded write still
			// decides whether the path truly exists.
			sha = ""
		}
		u.progress(fmt.Sprintf("uploading %s", asset.Path))
		res, err := u.forge.PutFile(ctx, repo.Owner, repo.Name, asset.Path, forge.PutFileInput{
			Message: message,
			Content: asset.Data,
			SHA:     sha,
			Branch:  repo.Branch,
		})
		if err != nil {
			return err
		}
		if res.CommitSHA != "" {
			lastSHA = res.CommitSHA
		}
		return nil
	}

	for _, asset := range build.PreviewAssets {
		if err := upload(asset, "Update "+asset.Path); err != nil {
			return models.RepoInfo{}, err
		}
	}
	if build.IconAsset != nil {
		if err := upload(*build.IconAsset, "Update icon"); err != nil {
			return models.RepoInfo{}, err
		}
	}
	if build.CoverAsset != nil {
		if err := upload(*build.CoverAsset, "Update cover"); err != nil {
			return models.RepoInfo{}, err
		}
	}
	for _, asset := range build.DownloadAssets {
		if err := upload(asset.AssetDescriptor, "Update package for "+asset.PlatformID); err != nil {
			return models.RepoInfo{}, err
		}
	}

	manifestSHA, err := u.forge.GetFileSHA(ctx, repo.Owner, repo.Name, u.cfg.ManifestFileName, repo.Branch)
	if err != nil {
		manifestSHA = ""
	}
	u.progress("updating " + u.cfg.ManifestFileName)
	res, err := u.forge.PutFile(ctx, repo.Owner, repo.Name, u.cfg.ManifestFileName, forge.PutFileInput{
		Message: "Update " + u.cfg.ManifestFileName,
		Content: build.ManifestJSON,
		SHA:     manifestSHA,
		Branch:  repo.Branch,
	})
	if err != nil {
		return models.RepoInfo{}, err
	}
	if res.CommitSHA != "" {
		lastSHA = res.CommitSHA
	}

	repo.CommitSHA = lastSHA
	return repo, nil
}

// OpenPullRequest opens the catalog pull request from a staged fork branch
func (u *Uploader) OpenPullRequest(ctx context.Context, headOwner, headBranch, title, body string) (*forge.PullRequest, error) {
	if title == "" {
		title = u.cfg.DefaultPrTitle
	}
	return u.forge.CreatePullRequest(ctx, u.cfg.TargetPrRepoOwner, u.cfg.TargetPrRepoName, forge.PullRequestInput{
		Title:      title,
		Body:       body,
		BaseBranch: u.cfg.DefaultBranch,
		HeadOwner:  headOwner,
		HeadBranch: headBranch,
	})
}
