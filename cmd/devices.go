package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/astralsight/abcc-cli/pkg/devices"
)

var devicesOutputFormat string

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List supported device targets",
	Long:  `List the device targets a resource can be published for, grouped by vendor.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver := devices.NewResolver(appConfig.Devices.CatalogURL)
		options, err := resolver.LoadOptions(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load device catalog: %w", err)
		}

		switch devicesOutputFormat {
		case "json":
			data, err := json.MarshalIndent(options, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal devices: %w", err)
			}
			fmt.Println(string(data))
		default:
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DEVICE ID\tNAME\tVENDOR")
			fmt.Fprintln(w, "---------\t----\t------")
			for _, option := range options {
				fmt.Fprintf(w, "%s\t%s\t%s\n", option.ID, option.Name, option.Vendor)
			}
			w.Flush()
			fmt.Printf("\n📊 %d devices\n", len(options))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)

	devicesCmd.Flags().StringVar(&devicesOutputFormat, "format", "table", "Output format: table, json")
}
