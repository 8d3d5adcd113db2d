package render

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidOverrides is returned for inconsistent override settings.
var ErrInvalidOverrides = errors.New("invalid casper overrides")

// Overrides points the generated manifests at a local checkout or a git
// branch of casper-node instead of crates.io.
type Overrides struct {
	// WorkspacePath is a local casper-node checkout.
	WorkspacePath string
	// GitURL and GitBranch name a remote casper-node branch.
	GitURL    string
	GitBranch string
}

// patchSource is one crate's entry under [patch.crates-io].
type patchSource struct {
	Path   string `toml:"path,omitempty"`
	Git    string `toml:"git,omitempty"`
	Branch string `toml:"branch,omitempty"`
}

// cratesIOPatch is the body of [patch.crates-io]. Field order is the
// emitted line order.
type cratesIOPatch struct {
	CasperContract          patchSource `toml:"casper-contract,inline"`
	CasperEngineTestSupport patchSource `toml:"casper-engine-test-support,inline"`
	CasperExecutionEngine   patchSource `toml:"casper-execution-engine,inline"`
	CasperTypes             patchSource `toml:"casper-types,inline"`
}

// Crate locations inside a casper-node checkout.
const (
	contractDir          = "smart_contracts/contract"
	engineTestSupportDir = "execution_engine_testing/test_support"
	executionEngineDir   = "execution_engine"
	typesDir             = "types"
)

// IsZero reports whether no override is configured.
func (o *Overrides) IsZero() bool {
	return o == nil || (o.WorkspacePath == "" && o.GitURL == "" && o.GitBranch == "")
}

// Validate requires either a workspace path, or a git URL and branch.
func (o *Overrides) Validate() error {
	if o.IsZero() {
		return nil
	}
	hasGit := o.GitURL != "" || o.GitBranch != ""
	switch {
	case o.WorkspacePath != "" && hasGit:
		return fmt.Errorf("%w: workspace path conflicts with git url/branch", ErrInvalidOverrides)
	case hasGit && (o.GitURL == "" || o.GitBranch == ""):
		return fmt.Errorf("%w: git url and git branch must be given together", ErrInvalidOverrides)
	}
	return nil
}

// PatchSection returns the [patch.crates-io] table, preceded by a blank line
// and without a trailing newline, or "" when no override is configured.
func (o *Overrides) PatchSection() (string, error) {
	if o.IsZero() {
		return "", nil
	}

	source := func(dir string) patchSource {
		if o.WorkspacePath != "" {
			return patchSource{Path: filepath.ToSlash(filepath.Join(o.WorkspacePath, dir))}
		}
		return patchSource{Git: o.GitURL, Branch: o.GitBranch}
	}
	body, err := toml.Marshal(cratesIOPatch{
		CasperContract:          source(contractDir),
		CasperEngineTestSupport: source(engineTestSupportDir),
		CasperExecutionEngine:   source(executionEngineDir),
		CasperTypes:             source(typesDir),
	})
	if err != nil {
		return "", fmt.Errorf("encoding [patch.crates-io]: %w", err)
	}
	return "\n\n[patch.crates-io]\n" + strings.TrimRight(string(body), "\n"), nil
}
