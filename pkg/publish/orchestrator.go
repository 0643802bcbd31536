// Package publish sequences a submission through the forge: manifest and
// asset uploads into the resource's own repository, then the catalog
// proposal, then the pull request. The caller drives stage by stage; a failed
// step halts the run and may be re-run safely because every write is an
// idempotent upsert.
package publish

import (
	"context"
	"fmt"
	"time"

	aberrors "github.com/astralsight/abcc-cli/internal/errors"
	"github.com/astralsight/abcc-cli/pkg/catalog"
	"github.com/astralsight/abcc-cli/pkg/forge"
	"github.com/astralsight/abcc-cli/pkg/manifest"
	"github.com/astralsight/abcc-cli/pkg/models"
	"github.com/astralsight/abcc-cli/pkg/utils"
)

// StepStatus is the lifecycle of one orchestration step
type StepStatus string

const (
	StepPending StepStatus = "pending"
	StepRunning StepStatus = "running"
	StepDone    StepStatus = "done"
	StepError   StepStatus = "error"
)

// Step is one unit of the submission pipeline
type Step struct {
	Name   string
	Status StepStatus
	Err    error

	run func(ctx context.Context) error
}

// SubmissionInput is everything one orchestration run consumes
type SubmissionInput struct {
	Build            *manifest.BuildResult
	ItemID           string
	ItemName         string
	Description      string
	Restype          models.ResourceType
	Tags             []string
	Devices          []models.DeviceSelection
	PaidType         string
	Login            string
	RepoNameOverride string
	PrTitle          string
	PrBody           string
	// Edit carries the coordinates of an existing resource being edited;
	// nil means a first-time submission.
	Edit *models.ResourceEditContext
}

// State is the observable outcome of the steps run so far
type State struct {
	Repo     *models.RepoInfo
	Proposal *catalog.Proposal
	PrNumber int
	PrURL    string
	Log      []LogEntry
}

// LogEntry is one timestamped progress line
type LogEntry struct {
	At      time.Time
	Message string
}

// Orchestrator runs the compose → publish-files → propose-catalog-change
// pipeline. Steps execute strictly in order; step N+1 starts only after step
// N's response is observed, respecting the contents API's SHA contract.
type Orchestrator struct {
	forge  *forge.Client
	store  *catalog.Store
	cfg    models.PublishConfig
	logger utils.Logger
	input  SubmissionInput
	state  State
	steps  []*Step
}

// NewOrchestrator creates an orchestrator for one submission
func NewOrchestrator(client *forge.Client, store *catalog.Store, cfg models.PublishConfig, logger utils.Logger, input SubmissionInput) *Orchestrator {
	if logger == nil {
		logger = utils.NewLogger()
	}
	o := &Orchestrator{
		forge:  client,
		store:  store,
		cfg:    cfg,
		logger: logger,
		input:  input,
	}
	o.steps = []*Step{
		{Name: "validate", Status: StepPending, run: func(ctx context.Context) error {
			return o.Validate()
		}},
		{Name: "publish-files", Status: StepPending, run: o.PublishFiles},
		{Name: "propose-catalog-change", Status: StepPending, run: o.ProposeCatalogChange},
	}
	return o
}

// Steps returns the current step list with statuses
func (o *Orchestrator) Steps() []Step {
	steps := make([]Step, len(o.steps))
	for i, s := range o.steps {
		steps[i] = *s
	}
	return steps
}

// State returns the observable orchestration state
func (o *Orchestrator) State() State {
	return o.state
}

func (o *Orchestrator) logf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	o.state.Log = append(o.state.Log, LogEntry{At: time.Now(), Message: message})
	o.logger.Info("%s", message)
}

// Run executes all pending steps in order, stopping at the first failure.
// Completed steps are not re-run, so a second call resumes where the failed
// run stopped.
func (o *Orchestrator) Run(ctx context.Context) error {
	for _, step := range o.steps {
		if step.Status == StepDone {
			continue
		}
		step.Status = StepRunning
		step.Err = nil
		if err := step.run(ctx); err != nil {
			step.Status = StepError
			step.Err = err
			return err
		}
		step.Status = StepDone
	}
	return nil
}

// ResumeFrom marks every step at index k and later as pending again, so the
// next Run re-executes from that step.
func (o *Orchestrator) ResumeFrom(k int) {
	for i, step := range o.steps {
		if i >= k {
			step.Status = StepPending
			step.Err = nil
		}
	}
}

// PublishFiles runs the upload stage. For a first-time submission it creates
// the resource repository and uploads each file as a fresh commit; when
// editing, every upload probes for the existing blob SHA first.
func (o *Orchestrator) PublishFiles(ctx context.Context) error {
	uploader := NewUploader(o.forge, o.cfg, func(message string) {
		o.logf("%s", message)
	})

	var repo models.RepoInfo
	var err error
	if o.input.Edit != nil {
		entry := o.input.Edit.Catalog.Entry
		target := models.RepoInfo{
			Owner:  entry.RepoOwner,
			Name:   entry.RepoName,
			Branch: o.cfg.DefaultBranch,
		}
		repo, err = uploader.UploadUpsert(ctx, o.input.Build, target)
	} else {
		repo, err = uploader.UploadNew(ctx, UploadRequest{
			Build:            o.input.Build,
			ItemID:           o.input.ItemID,
			ItemName:         o.input.ItemName,
			Description:      o.input.Description,
			Login:            o.input.Login,
			RepoNameOverride: o.input.RepoNameOverride,
		})
	}
	if err != nil {
		return err
	}

	o.state.Repo = &repo
	o.logf("files at rest in %s/%s @ %s", repo.Owner, repo.Name, repo.CommitSHA)
	return nil
}

// ProposeCatalogChange runs the catalog stage. A pull request must never be
// opened pointing at a repo snapshot that does not exist yet, so the
// publish-files commit SHA is a hard precondition.
func (o *Orchestrator) ProposeCatalogChange(ctx context.Context) error {
	if o.state.Repo == nil || o.state.Repo.CommitSHA == "" {
		return aberrors.Precondition("publish.no_commit",
			"publish the resource files before proposing a catalog change")
	}

	entry := catalog.BuildEntry(catalog.BuildEntryInput{
		Repo:      *o.state.Repo,
		IconPath:  o.input.Build.IconPath,
		CoverPath: o.input.Build.CoverPath,
		Tags:      o.input.Tags,
		Devices:   o.input.Devices,
		ItemID:    o.input.ItemID,
		ItemName:  o.input.ItemName,
		Restype:   string(o.input.Restype),
		PaidType:  o.input.PaidType,
	})

	if o.input.Edit != nil && o.input.Edit.Mode == models.EditModeInProgress {
		return o.updateExistingProposal(ctx, entry)
	}
	return o.openNewProposal(ctx, entry)
}

// updateExistingProposal rewrites the catalog row on the open PR's head
// branch, first fast-forwarding it against upstream so intervening reviewer
// changes are not clobbered. No new pull request is opened.
func (o *Orchestrator) updateExistingProposal(ctx context.Context, entry models.CatalogEntry) error {
	head := o.input.Edit.PrHead
	if head == nil {
		return aberrors.Precondition("publish.no_pr_head",
			"the submission under review has no known PR head branch")
	}

	o.logf("syncing %s/%s %s with upstream", head.Owner, head.Repo, head.Ref)
	if err := o.store.SyncBranchWithUpstream(ctx, head.Owner, head.Repo, head.Ref); err != nil {
		return err
	}

	o.logf("updating catalog entry %s on %s", entry.ID, head.Ref)
	if err := o.store.UpdateEntryOnBranch(ctx, head.Owner, head.Repo, head.Ref, entry); err != nil {
		return err
	}

	o.state.PrNumber = o.input.Edit.PrNumber
	return nil
}

// openNewProposal runs the full fork/branch/upsert cycle and opens the PR
func (o *Orchestrator) openNewProposal(ctx context.Context, entry models.CatalogEntry) error {
	o.logf("staging catalog change for %s", entry.ID)
	proposal, err := o.store.ProposeChange(ctx, entry)
	if err != nil {
		return err
	}
	o.state.Proposal = proposal

	uploader := NewUploader(o.forge, o.cfg, nil)
	o.logf("opening pull request from %s:%s", proposal.ForkOwner, proposal.Branch)
	pr, err := uploader.OpenPullRequest(ctx, proposal.ForkOwner, proposal.Branch, o.input.PrTitle, o.input.PrBody)
	if err != nil {
		return err
	}

	o.state.PrNumber = pr.Number
	o.state.PrURL = pr.HTMLURL
	o.logf("pull request #%d opened", pr.Number)
	return nil
}
