package cli

import (
	"context"

	"github.com/casperkit/casperkit/internal/branding"
	"github.com/casperkit/casperkit/internal/config"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` scaffolds smart-contract projects for the Casper platform: a contract
crate and an integration-test crate, pre-wired with build configuration and
dependency versions compatible with the target execution engine.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug output")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(ctx context.Context, version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.ExecuteContext(ctx)
}
