package versions

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrNoCompatibleVersion means no candidate satisfied the compatibility rule.
var ErrNoCompatibleVersion = errors.New("no compatible version")

// CompatibleConstraint returns the constraint a resolved version must meet:
// the same major.minor line as the bundled fallback (~MAJOR.MINOR.0).
func CompatibleConstraint(dep Dependency) (*semver.Constraints, error) {
	base, err := parseSemver(dep.Fallback)
	if err != nil {
		return nil, fmt.Errorf("%w: bundled version %q of %s: %v", ErrNoCompatibleVersion, dep.Fallback, dep.Name, err)
	}
	c, err := semver.NewConstraint(fmt.Sprintf("~%d.%d.0", base.Major(), base.Minor()))
	if err != nil {
		return nil, fmt.Errorf("building constraint for %s: %w", dep.Name, err)
	}
	return c, nil
}

// Candidate is one published version of a crate.
type Candidate struct {
	Version string
	Yanked  bool
}

// Select returns the highest candidate that is not yanked, not a prerelease,
// and satisfies c. Unparseable versions are skipped.
func Select(candidates []Candidate, c *semver.Constraints) (*semver.Version, error) {
	var best *semver.Version
	for _, cand := range candidates {
		if cand.Yanked {
			continue
		}
		v, err := parseSemver(cand.Version)
		if err != nil {
			continue
		}
		if v.Prerelease() != "" || !c.Check(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w matching %s among %d published versions", ErrNoCompatibleVersion, c, len(candidates))
	}
	return best, nil
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	if version == "" {
		return nil, errors.New("empty version")
	}
	return semver.NewVersion(version)
}
