package cli

import (
	"encoding/json"
	"fmt"

	"github.com/casperkit/casperkit/internal/branding"
	"github.com/casperkit/casperkit/internal/versions"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, buildVersion)
			return nil
		}

		if versionJSON {
			bundled := make(map[string]string)
			for _, dep := range versions.Required() {
				bundled[dep.Name] = dep.Fallback
			}
			info := map[string]any{
				"version": buildVersion,
				"commit":  buildCommit,
				"date":    buildDate,
				"bundled": bundled,
			}
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "%s version %s (commit: %s, built: %s)\n", branding.CLIName(), buildVersion, buildCommit, buildDate)
		for _, dep := range versions.Required() {
			fmt.Fprintf(out, "  bundled %s %s\n", dep.Name, dep.Fallback)
		}
		return nil
	},
}
