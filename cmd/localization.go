package cmd

import "github.com/astralsight/abcc-cli/internal/i18n"

// applyCommandLocalization updates command and flag descriptions after i18n is initialized.
func applyCommandLocalization() {
	// Root command metadata and flags.
	rootCmd.Short = i18n.T("cmd.root.short")
	rootCmd.Long = i18n.T("cmd.root.long")

	if flag := rootCmd.PersistentFlags().Lookup("config"); flag != nil {
		flag.Usage = i18n.T("flags.config")
	}
	if flag := rootCmd.PersistentFlags().Lookup("verbose"); flag != nil {
		flag.Usage = i18n.T("flags.verbose")
	}
	if flag := rootCmd.PersistentFlags().Lookup("lang"); flag != nil {
		flag.Usage = i18n.T("flags.lang")
	}
	if flag := rootCmd.PersistentFlags().Lookup("no-color"); flag != nil {
		flag.Usage = i18n.T("flags.noColor")
	}

	// Command descriptions.
	loginCmd.Short = i18n.T("cmd.login.short")
	loginCmd.Long = i18n.T("cmd.login.long")
	loginGithubCmd.Short = i18n.T("cmd.loginGithub.short")
	loginAstroboxCmd.Short = i18n.T("cmd.loginAstrobox.short")

	logoutCmd.Short = i18n.T("cmd.logout.short")
	accountCmd.Short = i18n.T("cmd.account.short")
	devicesCmd.Short = i18n.T("cmd.devices.short")

	publishCmd.Short = i18n.T("cmd.publish.short")
	publishCmd.Long = i18n.T("cmd.publish.long")

	resourcesCmd.Short = i18n.T("cmd.resources.short")
	resourcesShowCmd.Short = i18n.T("cmd.resourcesShow.short")
	statusCmd.Short = i18n.T("cmd.status.short")

	analysisCmd.Short = i18n.T("cmd.analysis.short")
	analysisOverviewCmd.Short = i18n.T("cmd.analysisOverview.short")
	analysisDashboardCmd.Short = i18n.T("cmd.analysisDashboard.short")
	analysisHeatmapCmd.Short = i18n.T("cmd.analysisHeatmap.short")

	configCmd.Short = i18n.T("cmd.config.short")
	configInitCmd.Short = i18n.T("cmd.configInit.short")
	configShowCmd.Short = i18n.T("cmd.configShow.short")

	versionCmd.Short = i18n.T("cmd.version.short")
}
