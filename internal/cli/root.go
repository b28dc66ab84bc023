package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stencil-ui/stencil/internal/branding"
	"github.com/stencil-ui/stencil/internal/config"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` installs reusable UI components ("registry items") from a component
registry into your project: it resolves an item and its registry dependencies,
rewrites import paths to your project's aliases, writes the files with
conflict detection, installs npm dependencies, and appends declared CSS
variables to your stylesheet.

Documentation: https://github.com/` + branding.GitHubRepo(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
	},
}

// Execute runs the root command with build info injected via ldflags.
// Errors are printed here once; cobra's own reporting is silenced so
// commands can render structured errors first.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}
