package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/astralsight/abcc-cli/internal/config"
	"github.com/astralsight/abcc-cli/internal/i18n"
	"github.com/astralsight/abcc-cli/internal/version"
	"github.com/astralsight/abcc-cli/pkg/account"
	"github.com/astralsight/abcc-cli/pkg/forge"
	"github.com/astralsight/abcc-cli/pkg/models"
	"github.com/astralsight/abcc-cli/pkg/utils"
)

var (
	cfgFile  string
	verbose  bool
	langFlag string

	appConfig *models.Config
	appLogger utils.Logger
)

var rootCmd = &cobra.Command{
	Use:   "abcc",
	Short: "AstroBox Creator Console - publish and manage AstroBox resources",
	Long: `AstroBox Creator Console is a command-line tool for resource creators.
It publishes watchfaces and quick apps to the AstroBox catalog, tracks the
review status of open submissions, and surfaces download analytics.`,
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func rootPersistentPreRunE(cmd *cobra.Command, args []string) error {
	if err := i18n.Init(langFlag); err != nil {
		return fmt.Errorf("failed to initialize localization: %w", err)
	}
	applyCommandLocalization()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appConfig = cfg

	appLogger = utils.NewLogger()
	if verbose {
		appLogger.SetLevel(utils.LogLevelDebug)
	}
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentPreRunE = rootPersistentPreRunE
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", "Override display language (en, zh)")
}

// openAccountStore opens the persisted account state
func openAccountStore() (*account.Store, error) {
	store, err := account.NewStore(appConfig.Account.StatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open account state: %w", err)
	}
	return store, nil
}

// newForgeClient builds a forge client with the stored code-hosting token.
// The token may be empty; operations that need auth fail with a precondition
// error at call time.
func newForgeClient(store *account.Store) *forge.Client {
	return forge.NewClient(appConfig.Forge.APIBaseURL, store.GithubToken(), appLogger)
}

// requireGithubAccount returns the signed-in code-hosting account
func requireGithubAccount(store *account.Store) (*models.GithubAccount, error) {
	state := store.State()
	if state.Github == nil || state.Github.Token == "" {
		return nil, fmt.Errorf("not signed in to GitHub, run 'abcc login github' first")
	}
	return state.Github, nil
}

// requireAstroboxToken returns a usable identity-provider token
func requireAstroboxToken(store *account.Store) (string, error) {
	token := store.AstroboxToken()
	if token == "" {
		return "", fmt.Errorf("not signed in to AstroBox, run 'abcc login astrobox' first")
	}
	if account.TokenExpired(token) {
		return "", fmt.Errorf("AstroBox session expired, run 'abcc login astrobox' again")
	}
	return token, nil
}
