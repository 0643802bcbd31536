// Package resources reconstructs, for the current user, the set of
// in-progress submissions and owned catalog entries. Both views are
// read-heavy multi-call sequences with no shared transaction; a resource that
// changes between calls may appear inconsistently, accepted as an
// eventual-consistency read.
package resources

import (
	"context"
	"sort"
	"strings"

	aberrors "github.com/astralsight/abcc-cli/internal/errors"
	"github.com/astralsight/abcc-cli/pkg/catalog"
	"github.com/astralsight/abcc-cli/pkg/forge"
	"github.com/astralsight/abcc-cli/pkg/models"
	"github.com/astralsight/abcc-cli/pkg/review"
	"github.com/astralsight/abcc-cli/pkg/utils"
)

// PublishingResource is one in-progress submission reconstructed from an
// open pull request.
type PublishingResource struct {
	ID        string
	Name      string
	Restype   string
	Status    review.State
	Needs     []review.NeedFixItem
	CreatedAt string
	PrNumber  int
	PrTitle   string
	PrURL     string
	PrHead    models.PrHead
	Catalog   models.CatalogContext
}

// Discovery queries the forge and catalog for the current user's resources
type Discovery struct {
	forge    *forge.Client
	store    *catalog.Store
	cfg      models.PublishConfig
	username string
	logger   utils.Logger
}

// NewDiscovery creates a discovery service for the signed-in user
func NewDiscovery(client *forge.Client, store *catalog.Store, cfg models.PublishConfig, username string, logger utils.Logger) *Discovery {
	if logger == nil {
		logger = utils.NewLogger()
	}
	return &Discovery{
		forge:    client,
		store:    store,
		cfg:      cfg,
		username: username,
		logger:   logger,
	}
}

func (d *Discovery) requireUser() error {
	if d.username == "" {
		return aberrors.Precondition("resources.no_user", "sign in to the code-hosting service first")
	}
	return nil
}

// OwnedCatalogResources lists catalog rows whose repo_owner is the current
// user, as read from the upstream default branch.
func (d *Discovery) OwnedCatalogResources(ctx context.Context) ([]models.CatalogContext, error) {
	if err := d.requireUser(); err != nil {
		return nil, err
	}

	snapshot, err := d.store.FetchEntries(ctx, catalog.FetchOptions{})
	if err != nil {
		return nil, err
	}

	var owned []models.CatalogContext
	for _, entry := range snapshot.Entries {
		if entry.RepoOwner != d.username {
			continue
		}
		owned = append(owned, models.CatalogContext{
			Entry: entry,
			Owner: snapshot.Owner,
			Repo:  snapshot.Repo,
			Ref:   snapshot.Ref,
			SHA:   snapshot.SHA,
		})
	}
	return owned, nil
}

// InProgressResources lists the user's open submissions: open pull requests
// authored by the user, each cross-referenced with its review status and the
// catalog rows its diff adds. One PR may carry several resources.
func (d *Discovery) InProgressResources(ctx context.Context) ([]PublishingResource, error) {
	if err := d.requireUser(); err != nil {
		return nil, err
	}

	pulls, err := d.forge.ListOpenPullRequests(ctx, d.cfg.TargetPrRepoOwner, d.cfg.TargetPrRepoName)
	if err != nil {
		return nil, err
	}

	var results []PublishingResource
	for _, pr := range pulls {
		if pr.Head.Repo == nil {
			continue
		}
		if pr.User.Login != d.username {
			continue
		}

		resources, err := d.resourcesForPull(ctx, pr)
		if err != nil {
			// One broken PR must not hide the rest of the list.
			d.logger.Warn("failed to process PR #%d: %v", pr.Number, err)
			continue
		}
		results = append(results, resources...)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt > results[j].CreatedAt
	})
	return results, nil
}

func (d *Discovery) resourcesForPull(ctx context.Context, pr forge.PullRequest) ([]PublishingResource, error) {
	comments, err := d.forge.ListIssueComments(ctx, d.cfg.TargetPrRepoOwner, d.cfg.TargetPrRepoName, pr.Number)
	if err != nil {
		return nil, err
	}
	files, err := d.forge.ListPullFiles(ctx, d.cfg.TargetPrRepoOwner, d.cfg.TargetPrRepoName, pr.Number)
	if err != nil {
		return nil, err
	}

	bodies := make([]string, len(comments))
	for i, comment := range comments {
		bodies[i] = comment.Body
	}
	status := review.Derive(bodies)

	entries := d.entriesFromPullFiles(files)

	head := models.PrHead{
		Owner: pr.Head.Repo.Owner.Login,
		Repo:  pr.Head.Repo.Name,
		Ref:   pr.Head.Ref,
	}

	resources := make([]PublishingResource, 0, len(entries))
	for _, entry := range entries {
		resources = append(resources, PublishingResource{
			ID:        entry.ID,
			Name:      entry.Name,
			Restype:   entry.Restype,
			Status:    status.State,
			Needs:     status.Items,
			CreatedAt: pr.CreatedAt,
			PrNumber:  pr.Number,
			PrTitle:   pr.Title,
			PrURL:     pr.HTMLURL,
			PrHead:    head,
			Catalog: models.CatalogContext{
				Entry: entry,
				Owner: head.Owner,
				Repo:  head.Repo,
				Ref:   head.Ref,
				SHA:   pr.Head.SHA,
			},
		})
	}
	return resources, nil
}

// entriesFromPullFiles scans the catalog file's diff for added rows
func (d *Discovery) entriesFromPullFiles(files []forge.PullFile) []models.CatalogEntry {
	byID := map[string]models.CatalogEntry{}
	var order []string

	for _, file := range files {
		if !d.isCatalogFile(file.Filename) {
			continue
		}
		for _, entry := range entriesFromPatch(file.Patch) {
			if _, seen := byID[entry.ID]; !seen {
				order = append(order, entry.ID)
			}
			byID[entry.ID] = entry
		}
	}

	entries := make([]models.CatalogEntry, 0, len(order))
	for _, id := range order {
		entries = append(entries, byID[id])
	}
	return entries
}

func (d *Discovery) isCatalogFile(filename string) bool {
	if filename == "" {
		return false
	}
	return filename == d.cfg.CatalogFilePath ||
		strings.HasSuffix(filename, "/"+d.cfg.CatalogFilePath)
}

// entriesFromPatch extracts catalog rows from the added lines of a unified
// diff patch. Last row wins per id within one patch.
func entriesFromPatch(patch string) []models.CatalogEntry {
	if patch == "" {
		return nil
	}

	byID := map[string]models.CatalogEntry{}
	var order []string
	for _, line := range strings.Split(patch, "\n") {
		if !strings.HasPrefix(line, "+") || strings.HasPrefix(line, "+++") {
			continue
		}
		row := strings.TrimSpace(strings.TrimSuffix(line[1:], "\r"))
		if row == "" || row == catalog.Header {
			continue
		}
		entry, ok := catalog.ParseRow(row)
		if !ok {
			continue
		}
		if _, seen := byID[entry.ID]; !seen {
			order = append(order, entry.ID)
		}
		byID[entry.ID] = entry
	}

	entries := make([]models.CatalogEntry, 0, len(order))
	for _, id := range order {
		entries = append(entries, byID[id])
	}
	return entries
}
