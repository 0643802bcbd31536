package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/astralsight/abcc-cli/pkg/catalog"
	"github.com/astralsight/abcc-cli/pkg/manifest"
	"github.com/astralsight/abcc-cli/pkg/models"
	"github.com/astralsight/abcc-cli/pkg/resources"
	"github.com/astralsight/abcc-cli/pkg/review"
)

var (
	resourcesFormat  string
	resourcesShowRef string
)

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "List your published and in-review resources",
	Long: `List the resources owned by your account: entries already merged into
the catalog and submissions still open for review.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openAccountStore()
		if err != nil {
			return err
		}
		ghAccount, err := requireGithubAccount(store)
		if err != nil {
			return err
		}

		forgeClient := newForgeClient(store)
		catalogStore := catalog.NewStore(forgeClient, appConfig.Publish, appLogger)
		discovery := resources.NewDiscovery(forgeClient, catalogStore, appConfig.Publish, ghAccount.Username, appLogger)

		ctx := cmd.Context()
		inProgress, err := discovery.InProgressResources(ctx)
		if err != nil {
			return fmt.Errorf("failed to list open submissions: %w", err)
		}
		owned, err := discovery.OwnedCatalogResources(ctx)
		if err != nil {
			return fmt.Errorf("failed to list published resources: %w", err)
		}

		if resourcesFormat == "json" {
			payload := map[string]interface{}{
				"in_progress": inProgress,
				"published":   owned,
			}
			data, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal resources: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("📦 Your Resources\n")
		fmt.Printf("=================\n\n")

		if len(inProgress) > 0 {
			fmt.Printf("🕐 In Review (%d):\n", len(inProgress))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATUS\tPR")
			for _, res := range inProgress {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t#%d\n",
					res.ID, res.Name, res.Restype, formatReviewState(res.Status), res.PrNumber)
			}
			w.Flush()
			fmt.Println()
		}

		if len(owned) > 0 {
			fmt.Printf("✅ Published (%d):\n", len(owned))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tREPO")
			for _, res := range owned {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s/%s\n",
					res.Entry.ID, res.Entry.Name, res.Entry.Restype,
					res.Entry.RepoOwner, res.Entry.RepoName)
			}
			w.Flush()
			fmt.Println()
		}

		if len(inProgress) == 0 && len(owned) == 0 {
			fmt.Println("❌ No resources found")
			fmt.Println("\n💡 Publish your first resource with 'abcc publish <submission.yaml>'")
			return nil
		}

		fmt.Printf("📊 Summary: %d in review, %d published\n", len(inProgress), len(owned))
		return nil
	},
}

var resourcesShowCmd = &cobra.Command{
	Use:   "show <resource-id>",
	Short: "Show the published manifest of one of your resources",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resourceID := args[0]

		store, err := openAccountStore()
		if err != nil {
			return err
		}
		ghAccount, err := requireGithubAccount(store)
		if err != nil {
			return err
		}

		forgeClient := newForgeClient(store)
		catalogStore := catalog.NewStore(forgeClient, appConfig.Publish, appLogger)
		discovery := resources.NewDiscovery(forgeClient, catalogStore, appConfig.Publish, ghAccount.Username, appLogger)

		ctx := cmd.Context()
		owned, err := discovery.OwnedCatalogResources(ctx)
		if err != nil {
			return fmt.Errorf("failed to list published resources: %w", err)
		}

		var entry *models.CatalogEntry
		for i := range owned {
			if owned[i].Entry.ID == resourceID {
				entry = &owned[i].Entry
				break
			}
		}
		if entry == nil {
			return fmt.Errorf("no published resource with id '%s' found for %s", resourceID, ghAccount.Username)
		}

		loaded, err := manifest.FetchForCatalogEntry(ctx, forgeClient, appConfig.Publish, *entry, resourcesShowRef)
		if err != nil {
			return fmt.Errorf("failed to load manifest for %s: %w", resourceID, err)
		}

		if resourcesFormat == "json" {
			data, err := json.MarshalIndent(loaded.Manifest, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal manifest: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		ref := resourcesShowRef
		if ref == "" {
			ref = entry.RepoCommitHash
		}
		if ref == "" {
			ref = appConfig.Publish.DefaultBranch
		}

		item := loaded.Manifest.Item
		fmt.Printf("📦 %s\n", item.Name)
		fmt.Printf("==%s\n\n", strings.Repeat("=", len(item.Name)))
		fmt.Printf("ID:          %s\n", item.ID)
		fmt.Printf("Type:        %s\n", item.Restype)
		fmt.Printf("Repository:  %s/%s @ %s\n", entry.RepoOwner, entry.RepoName, ref)
		if item.Description != "" {
			fmt.Printf("Description: %s\n", item.Description)
		}
		if len(item.Author) > 0 {
			names := make([]string, 0, len(item.Author))
			for _, author := range item.Author {
				names = append(names, author.Name)
			}
			fmt.Printf("Authors:     %s\n", strings.Join(names, ", "))
		}

		if len(loaded.Manifest.Downloads) > 0 {
			fmt.Printf("\n⬇️  Downloads (%d):\n", len(loaded.Manifest.Downloads))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DEVICE\tVERSION\tURL")
			devices := make([]string, 0, len(loaded.Manifest.Downloads))
			for device := range loaded.Manifest.Downloads {
				devices = append(devices, device)
			}
			sort.Strings(devices)
			for _, device := range devices {
				pkg := loaded.Manifest.Downloads[device]
				fmt.Fprintf(w, "%s\t%s\t%s\n", device, pkg.Version,
					manifest.BuildRawFileURL(appConfig.Forge.RawBaseURL, entry.RepoOwner, entry.RepoName, ref, pkg.FileName))
			}
			w.Flush()
		}

		if item.Icon != "" {
			fmt.Printf("\n🖼️  Icon: %s\n",
				manifest.BuildRawFileURL(appConfig.Forge.RawBaseURL, entry.RepoOwner, entry.RepoName, ref, item.Icon))
		}
		return nil
	},
}

func formatReviewState(state review.State) string {
	switch state {
	case review.StateChangesRequested:
		return "changes requested"
	case review.StateFixedWaiting:
		return "fixed, waiting"
	default:
		return "waiting review"
	}
}

func init() {
	rootCmd.AddCommand(resourcesCmd)
	resourcesCmd.AddCommand(resourcesShowCmd)

	resourcesCmd.PersistentFlags().StringVar(&resourcesFormat, "format", "default", "Output format: default, json")
	resourcesShowCmd.Flags().StringVar(&resourcesShowRef, "ref", "", "Git ref to read the manifest from (defaults to the pinned commit)")
}
