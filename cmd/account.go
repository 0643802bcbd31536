package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astralsight/abcc-cli/pkg/account"
)

var accountFormat string

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show the connected accounts",
	Long:  `Show the signed-in AstroBox and code-hosting accounts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openAccountStore()
		if err != nil {
			return err
		}

		display := store.Display()
		state := store.State()

		if accountFormat == "json" {
			data, err := json.MarshalIndent(display, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal account info: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("👤 Connected Accounts\n")
		fmt.Printf("=====================\n\n")

		if !display.HasAstrobox && !display.HasGithub {
			fmt.Println("❌ Not signed in")
			fmt.Println("\n💡 Run 'abcc login github' or 'abcc login astrobox'")
			return nil
		}

		if state.Astrobox != nil {
			fmt.Printf("🟣 AstroBox: %s\n", state.Astrobox.Name)
			if state.Astrobox.Email != "" {
				fmt.Printf("   Email: %s\n", state.Astrobox.Email)
			}
			if state.Astrobox.Plan != "" {
				fmt.Printf("   Plan: %s\n", state.Astrobox.Plan)
			}
			if account.TokenExpired(state.Astrobox.Token) {
				fmt.Printf("   ⚠️  Session expired, run 'abcc login astrobox' again\n")
			}
			fmt.Println()
		}

		if state.Github != nil {
			fmt.Printf("⚫ GitHub: %s\n", state.Github.Username)
			if state.Github.Name != "" && state.Github.Name != state.Github.Username {
				fmt.Printf("   Name: %s\n", state.Github.Name)
			}
			if state.Github.Email != "" {
				fmt.Printf("   Email: %s\n", state.Github.Email)
			}
			fmt.Println()
		}

		if display.Provider != "" {
			fmt.Printf("Active provider: %s\n", display.Provider)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(accountCmd)

	accountCmd.Flags().StringVar(&accountFormat, "format", "default", "Output format: default, json")
}
