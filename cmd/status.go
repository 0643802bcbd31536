package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/astralsight/abcc-cli/pkg/review"
)

var statusFormat string

var statusCmd = &cobra.Command{
	Use:   "status <pr-number>",
	Short: "Show the review status of a submission",
	Long: `Derive the review status of an open submission from the moderation
comments on its pull request.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prNumber, err := strconv.Atoi(args[0])
		if err != nil || prNumber <= 0 {
			return fmt.Errorf("invalid pull request number %q", args[0])
		}

		store, err := openAccountStore()
		if err != nil {
			return err
		}
		if _, err := requireGithubAccount(store); err != nil {
			return err
		}

		forgeClient := newForgeClient(store)
		comments, err := forgeClient.ListIssueComments(cmd.Context(),
			appConfig.Publish.TargetPrRepoOwner, appConfig.Publish.TargetPrRepoName, prNumber)
		if err != nil {
			return fmt.Errorf("failed to load review comments: %w", err)
		}

		bodies := make([]string, len(comments))
		for i, comment := range comments {
			bodies[i] = comment.Body
		}
		result := review.Derive(bodies)

		if statusFormat == "json" {
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal status: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("🔍 Review Status for PR #%d\n", prNumber)
		fmt.Printf("===========================\n\n")

		switch result.State {
		case review.StateWaitingReview:
			fmt.Println("🕐 Waiting for review")
		case review.StateChangesRequested:
			fmt.Println("⚠️  Changes requested")
		case review.StateFixedWaiting:
			fmt.Println("✅ All remarks fixed, waiting for re-review")
		}

		if len(result.Items) > 0 {
			fmt.Println()
			for _, item := range result.Items {
				mark := "❌"
				if item.Fixed {
					mark = "✅"
				}
				fmt.Printf("%s [%s] %s\n", mark, item.ID, item.Message)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&statusFormat, "format", "default", "Output format: default, json")
}
