package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/astralsight/abcc-cli/pkg/forge"
	"github.com/astralsight/abcc-cli/pkg/models"
	"github.com/astralsight/abcc-cli/pkg/utils"
)

// Store drives catalog reads and the propose-change protocol over the forge
type Store struct {
	forge  *forge.Client
	cfg    models.PublishConfig
	logger utils.Logger
	now    func() time.Time
}

// NewStore creates a catalog store
func NewStore(client *forge.Client, cfg models.PublishConfig, logger utils.Logger) *Store {
	if logger == nil {
		logger = utils.NewLogger()
	}
	return &Store{
		forge:  client,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Snapshot is the catalog file as read at one ref
type Snapshot struct {
	Entries []models.CatalogEntry
	CSV     string
	SHA     string
	Owner   string
	Repo    string
	Ref     string
}

// FetchOptions overrides where the catalog is read from; zero values fall
// back to the configured upstream default branch.
type FetchOptions struct {
	Owner string
	Repo  string
	Ref   string
}

// FetchEntries reads and parses the catalog file
func (s *Store) FetchEntries(ctx context.Context, opts FetchOptions) (*Snapshot, error) {
	owner := opts.Owner
	if owner == "" {
		owner = s.cfg.UpstreamRepoOwner
	}
	repo := opts.Repo
	if repo == "" {
		repo = s.cfg.UpstreamRepoName
	}
	ref := opts.Ref
	if ref == "" {
		ref = s.cfg.DefaultBranch
	}

	file, err := s.forge.GetFile(ctx, owner, repo, s.cfg.CatalogFilePath, ref)
	if err != nil {
		return nil, err
	}
	raw, err := file.Decode()
	if err != nil {
		return nil, err
	}
	csv := string(raw)

	return &Snapshot{
		Entries: Parse(csv),
		CSV:     csv,
		SHA:     file.SHA,
		Owner:   owner,
		Repo:    repo,
		Ref:     ref,
	}, nil
}

// Proposal is a staged catalog change, ready to be turned into a pull request
type Proposal struct {
	ForkOwner string
	ForkRepo  string
	Branch    string
}

// ProposeChange stages a catalog upsert on a fresh, uniquely named branch of
// the user's fork: fork-or-reuse, read the upstream head SHA, branch from it,
// read-modify-write the catalog file guarded by the SHA read on that branch.
// Failure at any step aborts the proposal; an abandoned branch is disposable
// and not cleaned up.
func (s *Store) ProposeChange(ctx context.Context, entry models.CatalogEntry) (*Proposal, error) {
	if err := ValidateEntry(entry); err != nil {
		return nil, err
	}

	fork, err := s.forge.Fork(ctx, s.cfg.UpstreamRepoOwner, s.cfg.UpstreamRepoName)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("using fork %s/%s", fork.Owner, fork.Name)

	upstreamSHA, err := s.forge.GetRefSHA(ctx, s.cfg.UpstreamRepoOwner, s.cfg.UpstreamRepoName,
		"heads/"+s.cfg.DefaultBranch)
	if err != nil {
		return nil, err
	}

	branch := fmt.Sprintf("astrobox-submit-%d", s.now().UnixMilli())
	if err := s.forge.CreateBranch(ctx, fork.Owner, fork.Name, upstreamSHA, branch); err != nil {
		return nil, err
	}

	if err := s.upsertOnBranch(ctx, fork.Owner, fork.Name, branch, entry,
		fmt.Sprintf("Add %s to catalog", entry.ID)); err != nil {
		return nil, err
	}

	return &Proposal{
		ForkOwner: fork.Owner,
		ForkRepo:  fork.Name,
		Branch:    branch,
	}, nil
}

// UpdateEntryOnBranch performs the same read-modify-write upsert against an
// already-open PR's head branch.
func (s *Store) UpdateEntryOnBranch(ctx context.Context, owner, repo, branch string, entry models.CatalogEntry) error {
	if err := ValidateEntry(entry); err != nil {
		return err
	}
	return s.upsertOnBranch(ctx, owner, repo, branch, entry,
		fmt.Sprintf("Update %s in catalog", entry.ID))
}

func (s *Store) upsertOnBranch(ctx context.Context, owner, repo, branch string, entry models.CatalogEntry, message string) error {
	file, err := s.forge.GetFile(ctx, owner, repo, s.cfg.CatalogFilePath, branch)
	if err != nil {
		return err
	}
	raw, err := file.Decode()
	if err != nil {
		return err
	}

	updated := UpsertRow(string(raw), entry)

	_, err = s.forge.PutFile(ctx, owner, repo, s.cfg.CatalogFilePath, forge.PutFileInput{
		Message: message,
		Content: []byte(updated),
		SHA:     file.SHA,
		Branch:  branch,
	})
	return err
}

// SyncBranchWithUpstream fast-forwards a fork branch with the upstream
// default branch, so an in-place catalog rewrite does not clobber reviewer
// changes that landed upstream in the meantime.
func (s *Store) SyncBranchWithUpstream(ctx context.Context, forkOwner, forkRepo, targetBranch string) error {
	head := s.cfg.UpstreamRepoOwner + ":" + s.cfg.DefaultBranch
	return s.forge.MergeBranch(ctx, forkOwner, forkRepo, targetBranch, head)
}

// BuildEntryInput carries everything needed to form a catalog row
type BuildEntryInput struct {
	Repo      models.RepoInfo
	IconPath  string
	CoverPath string
	Tags      []string
	Devices   []models.DeviceSelection
	ItemID    string
	ItemName  string
	Restype   string
	PaidType  string
}

// BuildEntry forms the catalog row for a published resource, deduplicating
// vendors and device ids while keeping their first-seen order.
func BuildEntry(input BuildEntryInput) models.CatalogEntry {
	var vendors []string
	seenVendor := map[string]bool{}
	var deviceIDs []string
	seenDevice := map[string]bool{}
	for _, d := range input.Devices {
		if d.Vendor != "" && !seenVendor[d.Vendor] {
			seenVendor[d.Vendor] = true
			vendors = append(vendors, d.Vendor)
		}
		if !seenDevice[d.ID] {
			seenDevice[d.ID] = true
			deviceIDs = append(deviceIDs, d.ID)
		}
	}

	return models.CatalogEntry{
		ID:             strings.TrimSpace(input.ItemID),
		Name:           strings.TrimSpace(input.ItemName),
		Restype:        input.Restype,
		RepoOwner:      input.Repo.Owner,
		RepoName:       input.Repo.Name,
		RepoCommitHash: input.Repo.CommitSHA,
		Icon:           input.IconPath,
		Cover:          input.CoverPath,
		Tags:           strings.Join(input.Tags, ";"),
		DeviceVendors:  strings.Join(vendors, ";"),
		Devices:        strings.Join(deviceIDs, ";"),
		PaidType:       strings.TrimSpace(input.PaidType),
	}
}
