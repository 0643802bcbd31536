package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astralsight/abcc-cli/pkg/models"
)

var logoutCmd = &cobra.Command{
	Use:   "logout [github|astrobox|all]",
	Short: "Sign out of a connected account",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openAccountStore()
		if err != nil {
			return err
		}

		target := "all"
		if len(args) > 0 {
			target = args[0]
		}

		switch target {
		case "github":
			if err := store.Logout(models.ProviderGithub); err != nil {
				return fmt.Errorf("failed to sign out: %w", err)
			}
			fmt.Println("✅ Signed out of GitHub")
		case "astrobox":
			if err := store.Logout(models.ProviderAstrobox); err != nil {
				return fmt.Errorf("failed to sign out: %w", err)
			}
			fmt.Println("✅ Signed out of AstroBox")
		case "all":
			if err := store.Logout(models.ProviderGithub); err != nil {
				return fmt.Errorf("failed to sign out: %w", err)
			}
			if err := store.Logout(models.ProviderAstrobox); err != nil {
				return fmt.Errorf("failed to sign out: %w", err)
			}
			fmt.Println("✅ Signed out of all accounts")
		default:
			return fmt.Errorf("unknown provider %q (expected github, astrobox or all)", target)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
