package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/astralsight/abcc-cli/pkg/account"
)

var loginAstroboxCode string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to GitHub or AstroBox",
	Long:  `Sign in to the code-hosting service or the AstroBox identity provider.`,
}

var loginGithubCmd = &cobra.Command{
	Use:   "github",
	Short: "Sign in to GitHub via the device flow",
	Long: `Sign in to GitHub using the OAuth device authorization flow.
A one-time code is shown; enter it on the verification page to grant access.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openAccountStore()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		flow := account.NewDeviceFlow(appConfig.OAuth)
		session, err := flow.Start(ctx)
		if err != nil {
			return fmt.Errorf("failed to start device flow: %w", err)
		}

		fmt.Printf("🔑 GitHub Device Login\n")
		fmt.Printf("======================\n\n")
		fmt.Printf("1. Open:  %s\n", session.VerificationURI)
		fmt.Printf("2. Enter: %s\n\n", session.UserCode)
		if session.VerificationURIComplete != "" {
			fmt.Printf("   Or open directly: %s\n\n", session.VerificationURIComplete)
		}
		fmt.Println("Waiting for authorization (press Ctrl+C to cancel)...")

		payload, err := flow.Poll(ctx, session, func(status string) {
			appLogger.Debug("device flow: %s", status)
		})
		if err != nil {
			return fmt.Errorf("device authorization failed: %w", err)
		}

		ghAccount, err := flow.Finalize(ctx, store, payload)
		if err != nil {
			return fmt.Errorf("failed to store account: %w", err)
		}

		fmt.Printf("\n✅ Signed in to GitHub as %s\n", ghAccount.Username)
		if len(ghAccount.Scopes) > 0 {
			fmt.Printf("   Scopes: %s\n", strings.Join(ghAccount.Scopes, ", "))
		}
		return nil
	},
}

var loginAstroboxCmd = &cobra.Command{
	Use:   "astrobox",
	Short: "Sign in to the AstroBox account service",
	Long: `Sign in to the AstroBox identity provider. Open the sign-in page in a
browser, complete the login, then paste the callback code here.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openAccountStore()
		if err != nil {
			return err
		}

		client := account.NewAstroboxClient(appConfig.Server)

		code := strings.TrimSpace(loginAstroboxCode)
		if code == "" {
			fmt.Printf("🔑 AstroBox Login\n")
			fmt.Printf("=================\n\n")
			fmt.Printf("1. Open:  %s\n", client.SignInURL())
			fmt.Printf("2. Sign in and copy the code from the callback page\n\n")
			fmt.Print("Enter code: ")

			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read code: %w", err)
			}
			code = strings.TrimSpace(line)
		}
		if code == "" {
			return fmt.Errorf("no login code provided")
		}

		abAccount, err := client.Login(cmd.Context(), store, code)
		if err != nil {
			return fmt.Errorf("AstroBox login failed: %w", err)
		}

		fmt.Printf("\n✅ Signed in to AstroBox as %s\n", abAccount.Name)
		if abAccount.Plan != "" {
			fmt.Printf("   Plan: %s\n", abAccount.Plan)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.AddCommand(loginGithubCmd)
	loginCmd.AddCommand(loginAstroboxCmd)

	loginAstroboxCmd.Flags().StringVar(&loginAstroboxCode, "code", "", "Callback code from the sign-in page")
}
