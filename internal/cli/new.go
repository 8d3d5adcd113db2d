package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/casperkit/casperkit/internal/config"
	"github.com/casperkit/casperkit/internal/render"
	"github.com/casperkit/casperkit/internal/scaffold"
	"github.com/casperkit/casperkit/internal/ui"
	"github.com/casperkit/casperkit/internal/versions"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type newOptions struct {
	outputDir     string
	offline       bool
	workspacePath string
	gitURL        string
	gitBranch     string
}

// overrides returns nil when no crate source override was requested.
func (o newOptions) overrides() *render.Overrides {
	ov := &render.Overrides{
		WorkspacePath: o.workspacePath,
		GitURL:        o.gitURL,
		GitBranch:     o.gitBranch,
	}
	if ov.IsZero() {
		return nil
	}
	return ov
}

var newOpts newOptions

func init() {
	flags := newCmd.Flags()
	flags.StringVar(&newOpts.outputDir, "output-dir", "", "Output directory (default: ./<name>)")
	flags.BoolVar(&newOpts.offline, "offline", false, "Use bundled dependency versions without querying the registry")
	flags.StringVar(&newOpts.workspacePath, "workspace-path", "", "Patch Casper crates to a local casper-node workspace")
	flags.StringVar(&newOpts.gitURL, "git-url", "", "Patch Casper crates to a git repository (requires --git-branch)")
	flags.StringVar(&newOpts.gitBranch, "git-branch", "", "Branch of --git-url to use")
	for _, name := range []string{"workspace-path", "git-url", "git-branch"} {
		_ = flags.MarkHidden(name)
	}
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new Casper contract project",
	Long: `Create a contract crate and an integration-test crate under ./<name>.

Dependency versions are looked up in the crates.io index and constrained to
the release line this tool was built for. When the index cannot be reached
the bundled versions are used and a warning is printed.

Examples:
  casperkit new my_project
  casperkit new counter --output-dir ~/src/counter --offline`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNew(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], newOpts)
	},
}

// newResolver picks the version source: wildcard pins when crates are
// patched, bundled versions when offline, otherwise the registry (cached if
// enabled) with the bundled versions as fallback.
func newResolver(opts newOptions) versions.Resolver {
	if opts.overrides() != nil {
		return versions.Wildcard{}
	}
	if opts.offline || config.Offline() {
		return versions.Static{}
	}

	var primary versions.Resolver = versions.NewRegistry(
		config.RegistryURL(),
		buildVersion,
		versions.WithTimeout(config.RegistryTimeout()),
	)
	if config.CacheEnabled() {
		primary = versions.Cached{Inner: primary, Dir: config.Dir()}
	}
	return versions.Fallback{Primary: primary, Secondary: versions.Static{}}
}

func runNew(ctx context.Context, stdout, stderr io.Writer, name string, opts newOptions) error {
	log := ui.NewLogger(stderr, verbose)

	spec, err := scaffold.NewSpec(name, opts.outputDir)
	if err != nil {
		return err
	}

	g := &scaffold.Generator{
		Fs:       afero.NewOsFs(),
		Resolver: newResolver(opts),
		Options: render.Options{
			Toolchain: config.Toolchain(),
			Overrides: opts.overrides(),
		},
		OnTransition: func(from, to scaffold.State) {
			log.Debug("state change", log.Args("from", from.String(), "to", to.String()))
		},
	}

	log.Debug("generating project", log.Args("name", spec.Name, "dir", spec.TargetDir))
	result, err := g.Generate(ctx, spec)
	if err != nil {
		return err
	}

	for _, w := range result.Warnings {
		ui.Warn(stderr, w)
	}
	for _, p := range result.Pins {
		log.Debug("pinned dependency", log.Args("crate", p.Name, "version", p.Version, "source", string(p.Source)))
	}

	fmt.Fprintln(stdout, ui.Summary(spec.Name, result.OutputDir, result.Pins))
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, ui.NextSteps(result.OutputDir))
	return nil
}
