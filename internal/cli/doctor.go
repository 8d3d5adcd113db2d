package cli

import (
	"fmt"
	"io"

	"github.com/casperkit/casperkit/internal/config"
	"github.com/casperkit/casperkit/internal/manifest"
	"github.com/casperkit/casperkit/internal/toolchain"
	"github.com/casperkit/casperkit/internal/versions"
	"github.com/spf13/cobra"
)

var (
	checkToolchain bool
	checkRegistry  bool
	checkManifest  string
)

func init() {
	doctorCmd.Flags().BoolVar(&checkToolchain, "check-toolchain", false, "Verify cargo, rustup, wasm-strip and the Wasm target")
	doctorCmd.Flags().BoolVar(&checkRegistry, "check-registry", false, "Verify the package index is reachable")
	doctorCmd.Flags().StringVar(&checkManifest, "check-manifest", "", "Validate a generated Cargo.toml at the given path")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the local build environment",
	Long:  `Run diagnostic checks on the tools a generated project needs to build and test its contract.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		all := !checkToolchain && !checkRegistry && checkManifest == ""

		missing := 0
		if all || checkToolchain {
			c := &toolchain.Checker{Toolchain: config.Toolchain()}
			missing += toolchain.Report(out, "Toolchain check", c.Run(cmd.Context()))
		}
		if all || checkRegistry {
			if config.Offline() {
				fmt.Fprintln(out, "Registry check:\n  [INFO] registry.offline is set; skipping")
			} else {
				r := versions.NewRegistry(config.RegistryURL(), buildVersion, versions.WithTimeout(config.RegistryTimeout()))
				check := toolchain.CheckRegistry(cmd.Context(), r, config.RegistryURL())
				missing += toolchain.Report(out, "Registry check", []toolchain.Check{check})
			}
		}
		if checkManifest != "" {
			if err := runManifestCheck(out, checkManifest); err != nil {
				return err
			}
		}

		if missing > 0 {
			return fmt.Errorf("%d check(s) failed", missing)
		}
		return nil
	},
}

func runManifestCheck(w io.Writer, path string) error {
	fmt.Fprintf(w, "Manifest validation: %s\n", path)

	result, err := manifest.ValidateFile(path)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return fmt.Errorf("manifest validation failed: %w", err)
	}

	if result.Valid {
		fmt.Fprintln(w, "  [ OK ] Valid Cargo manifest")
		return nil
	}

	fmt.Fprintf(w, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
	for _, issue := range result.Issues {
		fmt.Fprintf(w, "    - %s\n", issue)
	}
	return fmt.Errorf("manifest %s has %d validation issue(s)", path, len(result.Issues))
}
