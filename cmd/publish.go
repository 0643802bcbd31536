package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astralsight/abcc-cli/pkg/catalog"
	"github.com/astralsight/abcc-cli/pkg/devices"
	"github.com/astralsight/abcc-cli/pkg/manifest"
	"github.com/astralsight/abcc-cli/pkg/models"
	"github.com/astralsight/abcc-cli/pkg/publish"
	"github.com/astralsight/abcc-cli/pkg/resources"
)

var (
	publishRepoName string
	publishPrTitle  string
	publishPrBody   string
	publishEditPr   int
	publishEditID   string
	publishDryRun   bool
)

var publishCmd = &cobra.Command{
	Use:   "publish <submission.yaml>",
	Short: "Publish a resource to the catalog",
	Long: `Publish a resource described by a submission YAML file.

The files are uploaded to a repository under your account, then a catalog
change is proposed as a pull request against the upstream catalog. Use
--edit-pr to update a submission still under review, or --edit to update an
already published resource.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openAccountStore()
		if err != nil {
			return err
		}
		ghAccount, err := requireGithubAccount(store)
		if err != nil {
			return err
		}

		buildInput, selections, spec, err := publish.LoadSubmissionFile(args[0], appConfig.Publish)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if err := resolveVendors(ctx, selections); err != nil {
			return err
		}

		build, err := manifest.Build(*buildInput)
		if err != nil {
			return fmt.Errorf("failed to build manifest: %w", err)
		}

		if publishDryRun {
			return showPublishPlan(build)
		}

		forgeClient := newForgeClient(store)
		catalogStore := catalog.NewStore(forgeClient, appConfig.Publish, appLogger)

		input := publish.SubmissionInput{
			Build:            build,
			ItemID:           spec.ID,
			ItemName:         spec.Name,
			Description:      spec.Description,
			Restype:          models.ResourceType(spec.Restype),
			Tags:             spec.Tags,
			Devices:          selections,
			PaidType:         spec.PaidType,
			Login:            ghAccount.Username,
			RepoNameOverride: publishRepoName,
			PrTitle:          publishPrTitle,
			PrBody:           publishPrBody,
		}

		if publishEditPr > 0 || publishEditID != "" {
			discovery := resources.NewDiscovery(forgeClient, catalogStore, appConfig.Publish, ghAccount.Username, appLogger)
			edit, err := resolveEditContext(ctx, discovery)
			if err != nil {
				return err
			}
			input.Edit = edit
		}

		orchestrator := publish.NewOrchestrator(forgeClient, catalogStore, appConfig.Publish, appLogger, input)

		fmt.Printf("🚀 Publishing %s (%s)\n\n", spec.Name, spec.ID)
		runErr := orchestrator.Run(ctx)
		for _, step := range orchestrator.Steps() {
			mark := "✅"
			switch step.Status {
			case publish.StepError:
				mark = "❌"
			case publish.StepPending:
				mark = "⏸️ "
			}
			fmt.Printf("%s %s\n", mark, step.Name)
		}
		if runErr != nil {
			return runErr
		}

		state := orchestrator.State()
		fmt.Println()
		if state.Repo != nil {
			fmt.Printf("📦 Files: %s/%s @ %s\n", state.Repo.Owner, state.Repo.Name, state.Repo.CommitSHA)
		}
		if state.PrURL != "" {
			fmt.Printf("🔗 Pull request: %s\n", state.PrURL)
		} else if state.PrNumber > 0 {
			fmt.Printf("🔗 Updated pull request #%d\n", state.PrNumber)
		}
		return nil
	},
}

// resolveVendors fills in the vendor of each selected device from the
// device catalog. Unknown devices keep an empty vendor rather than failing
// the whole submission.
func resolveVendors(ctx context.Context, selections []models.DeviceSelection) error {
	if len(selections) == 0 {
		return nil
	}
	resolver := devices.NewResolver(appConfig.Devices.CatalogURL)
	options, err := resolver.LoadOptions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load device catalog: %w", err)
	}
	vendorByID := make(map[string]string, len(options))
	for _, option := range options {
		vendorByID[option.ID] = option.Vendor
	}
	for i := range selections {
		vendor, ok := vendorByID[selections[i].ID]
		if !ok {
			appLogger.Warn("device %s is not in the device catalog", selections[i].ID)
			continue
		}
		selections[i].Vendor = vendor
	}
	return nil
}

// resolveEditContext locates the resource being edited, either on an open
// pull request (--edit-pr) or in the merged catalog (--edit).
func resolveEditContext(ctx context.Context, discovery *resources.Discovery) (*models.ResourceEditContext, error) {
	if publishEditPr > 0 {
		inProgress, err := discovery.InProgressResources(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list open submissions: %w", err)
		}
		for _, res := range inProgress {
			if res.PrNumber != publishEditPr {
				continue
			}
			head := res.PrHead
			return &models.ResourceEditContext{
				Mode:     models.EditModeInProgress,
				Catalog:  res.Catalog,
				PrNumber: res.PrNumber,
				PrHead:   &head,
			}, nil
		}
		return nil, fmt.Errorf("no open submission found on pull request #%d", publishEditPr)
	}

	owned, err := discovery.OwnedCatalogResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list published resources: %w", err)
	}
	for _, res := range owned {
		if res.Entry.ID != publishEditID {
			continue
		}
		return &models.ResourceEditContext{
			Mode:    models.EditModeCatalog,
			Catalog: res,
		}, nil
	}
	return nil, fmt.Errorf("no published resource with id %q found under your account", publishEditID)
}

// showPublishPlan prints the manifest and upload plan without touching the forge
func showPublishPlan(build *manifest.BuildResult) error {
	fmt.Printf("📄 Manifest\n")
	fmt.Printf("===========\n")
	fmt.Println(string(build.ManifestJSON))

	fmt.Printf("\n📦 Upload Plan\n")
	fmt.Printf("==============\n")
	printAsset := func(path string, skip bool) {
		if skip {
			fmt.Printf("   = %s (kept)\n", path)
		} else {
			fmt.Printf("   + %s\n", path)
		}
	}
	for _, asset := range build.PreviewAssets {
		printAsset(asset.Path, asset.SkipUpload)
	}
	if build.IconAsset != nil {
		printAsset(build.IconAsset.Path, build.IconAsset.SkipUpload)
	}
	if build.CoverAsset != nil {
		printAsset(build.CoverAsset.Path, build.CoverAsset.SkipUpload)
	}
	for _, asset := range build.DownloadAssets {
		printAsset(asset.Path, asset.SkipUpload)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().StringVar(&publishRepoName, "repo-name", "", "Override the generated resource repository name")
	publishCmd.Flags().StringVar(&publishPrTitle, "pr-title", "", "Override the pull request title")
	publishCmd.Flags().StringVar(&publishPrBody, "pr-body", "", "Pull request body")
	publishCmd.Flags().IntVar(&publishEditPr, "edit-pr", 0, "Update the submission on an open pull request")
	publishCmd.Flags().StringVar(&publishEditID, "edit", "", "Update an already published resource by id")
	publishCmd.Flags().BoolVar(&publishDryRun, "dry-run", false, "Show the manifest and upload plan without publishing")
}
