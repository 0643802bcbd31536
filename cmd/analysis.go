package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/astralsight/abcc-cli/pkg/account"
	"github.com/astralsight/abcc-cli/pkg/analysis"
	"github.com/astralsight/abcc-cli/pkg/models"
)

var (
	analysisPeriod string
	analysisScope  string
	analysisFormat string
)

var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Show download analytics for your resources",
	Long: `Show download analytics from the AstroBox backend. The geographic
heatmap requires a Creator+ plan or above.`,
}

var analysisOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show the creator overview",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAnalysisClient()
		if err != nil {
			return err
		}

		overview, err := client.Overview(cmd.Context(), models.AnalysisPeriod(analysisPeriod))
		if err != nil {
			return fmt.Errorf("failed to load overview: %w", err)
		}

		if analysisFormat == "json" {
			return printJSON(overview)
		}

		fmt.Printf("📈 Creator Overview (%s)\n", overview.Period)
		fmt.Printf("========================\n\n")
		fmt.Printf("Resources:      %d\n", overview.Summary.Resources)
		fmt.Printf("Views:          %d\n", overview.Summary.Views)
		fmt.Printf("Downloads:      %d\n", overview.Summary.Downloads)
		fmt.Printf("Average rating: %.1f\n", overview.Summary.AverageRating)

		if len(overview.DailyDownloads) > 0 {
			fmt.Printf("\nDaily downloads:\n")
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, day := range overview.DailyDownloads {
				fmt.Fprintf(w, "%s\t%d\n", day.Date, day.Count)
			}
			w.Flush()
		}
		return nil
	},
}

var analysisDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the creator dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAnalysisClient()
		if err != nil {
			return err
		}

		dashboard, err := client.Dashboard(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load dashboard: %w", err)
		}

		if analysisFormat == "json" {
			return printJSON(dashboard)
		}

		fmt.Printf("📊 Creator Dashboard\n")
		fmt.Printf("====================\n\n")
		fmt.Printf("Downloads today:     %d\n", dashboard.Overview.TodayDownloads)
		fmt.Printf("Downloads this week: %d\n", dashboard.Overview.WeekDownloads)
		if dashboard.Overview.DayOverDayChangeAccessible {
			fmt.Printf("Day over day:        %+.1f%% (%s)\n",
				dashboard.Overview.DayOverDayChangeValue,
				dashboard.Overview.DayOverDayChangeDirection)
		}

		if top := dashboard.TopDownloads.TopResource; top != nil {
			fmt.Printf("\n🏆 Top resource: %s (%d downloads)\n", top.Name, top.Downloads)
		}
		if top := dashboard.TopDownloads.TopDevice; top != nil {
			fmt.Printf("🏆 Top device:   %s (%d downloads)\n", top.Name, top.Downloads)
		}

		if dashboard.DistributionsAccessible && len(dashboard.Distributions.Resources) > 0 {
			fmt.Printf("\nDownload distribution by resource:\n")
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, item := range dashboard.Distributions.Resources {
				fmt.Fprintf(w, "%s\t%d\t%.1f%%\n", item.Name, item.Downloads, item.Percentage)
			}
			w.Flush()
		}
		return nil
	},
}

var analysisHeatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Show the geographic download heatmap",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openAccountStore()
		if err != nil {
			return err
		}
		state := store.State()
		if state.Astrobox == nil || !account.CanAccessAnalysisByPlan(state.Astrobox.Plan) {
			return fmt.Errorf("the download heatmap requires a Creator+ plan or above")
		}

		client, err := newAnalysisClient()
		if err != nil {
			return err
		}

		heatmap, err := client.Heatmap(cmd.Context(),
			models.AnalysisMapScope(analysisScope), models.AnalysisPeriod(analysisPeriod))
		if err != nil {
			return fmt.Errorf("failed to load heatmap: %w", err)
		}

		if analysisFormat == "json" {
			return printJSON(heatmap)
		}

		fmt.Printf("🗺️  Download Heatmap (%s, %s)\n", heatmap.Scope, heatmap.Period)
		fmt.Printf("=============================\n\n")
		fmt.Printf("Total downloads:    %d\n", heatmap.Summary.TotalDownloads)
		fmt.Printf("Distinct locations: %d\n\n", heatmap.Summary.DistinctLocations)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "LOCATION\tDOWNLOADS")
		for _, point := range heatmap.Points {
			fmt.Fprintf(w, "%s\t%d\n", point.Label, point.Downloads)
		}
		w.Flush()
		return nil
	},
}

// newAnalysisClient builds an analytics client with a live AstroBox session
func newAnalysisClient() (*analysis.Client, error) {
	store, err := openAccountStore()
	if err != nil {
		return nil, err
	}
	token, err := requireAstroboxToken(store)
	if err != nil {
		return nil, err
	}
	return analysis.NewClient(appConfig.Server, token), nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func init() {
	rootCmd.AddCommand(analysisCmd)
	analysisCmd.AddCommand(analysisOverviewCmd)
	analysisCmd.AddCommand(analysisDashboardCmd)
	analysisCmd.AddCommand(analysisHeatmapCmd)

	analysisCmd.PersistentFlags().StringVar(&analysisPeriod, "period", "30d", "Reporting period: 7d, 30d, 90d, all")
	analysisCmd.PersistentFlags().StringVar(&analysisFormat, "format", "default", "Output format: default, json")
	analysisHeatmapCmd.Flags().StringVar(&analysisScope, "scope", "china", "Heatmap scope: china, world")
}
