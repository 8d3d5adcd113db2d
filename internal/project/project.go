// Package project validates the user-supplied project name and derives the
// name variants used in generated files.
package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrInvalidName is returned for names that cannot serve as both a directory
// and a crate name.
var ErrInvalidName = errors.New("invalid project name")

// MaxNameLength is the longest name crates.io accepts.
const MaxNameLength = 64

var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// reserved holds Rust keywords and crate names that collide with the
// standard library or with cargo itself.
var reserved = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "crate": true, "dyn": true, "else": true, "enum": true,
	"extern": true, "false": true, "fn": true, "for": true, "if": true,
	"impl": true, "in": true, "let": true, "loop": true, "match": true,
	"mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "self": true, "static": true, "struct": true, "super": true,
	"trait": true, "true": true, "type": true, "unsafe": true, "use": true,
	"where": true, "while": true, "abstract": true, "become": true, "box": true,
	"do": true, "final": true, "macro": true, "override": true, "priv": true,
	"try": true, "typeof": true, "unsized": true, "virtual": true, "yield": true,
	"alloc": true, "core": true, "std": true, "proc_macro": true, "test": true,
}

// windowsDevices are names Windows reserves for devices in every directory;
// cargo refuses them as package names.
var windowsDevices = map[string]bool{
	"con": true, "prn": true, "aux": true, "nul": true,
	"com1": true, "com2": true, "com3": true, "com4": true, "com5": true,
	"com6": true, "com7": true, "com8": true, "com9": true,
	"lpt1": true, "lpt2": true, "lpt3": true, "lpt4": true, "lpt5": true,
	"lpt6": true, "lpt7": true, "lpt8": true, "lpt9": true,
}

// Spec is a validated project name and the directory it is generated into.
type Spec struct {
	Name      string
	TargetDir string
}

// New validates name and returns a Spec targeting outputDir, or ./<name>
// when outputDir is empty.
func New(name, outputDir string) (Spec, error) {
	if err := ValidateName(name); err != nil {
		return Spec{}, err
	}
	target := outputDir
	if target == "" {
		target = filepath.Join(".", name)
	}
	return Spec{Name: name, TargetDir: filepath.Clean(target)}, nil
}

// ValidateName reports why name is unusable, or nil.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w %q: must not contain path separators", ErrInvalidName, name)
	case len(name) > MaxNameLength:
		return fmt.Errorf("%w %q: longer than %d characters", ErrInvalidName, name, MaxNameLength)
	case !namePattern.MatchString(name):
		return fmt.Errorf("%w %q: must start with a letter and contain only letters, digits, '-' or '_'", ErrInvalidName, name)
	}
	if pkg := packageName(name); reserved[pkg] {
		return fmt.Errorf("%w %q: %q is a reserved Rust name", ErrInvalidName, name, pkg)
	}
	if lower := strings.ToLower(name); windowsDevices[lower] {
		return fmt.Errorf("%w %q: %q is a reserved device name on Windows", ErrInvalidName, name, lower)
	}
	return nil
}

// Package returns the name normalized for Rust identifiers: lowercase with
// '-' replaced by '_'.
func (s Spec) Package() string { return packageName(s.Name) }

// Slug returns the name normalized for cargo package names and directories:
// lowercase with '_' replaced by '-'.
func (s Spec) Slug() string {
	return strings.ReplaceAll(strings.ToLower(s.Name), "_", "-")
}

func packageName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "-", "_")
}
