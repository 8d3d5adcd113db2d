package scaffold

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/casperkit/casperkit/internal/catalog"
	"github.com/casperkit/casperkit/internal/manifest"
	"github.com/casperkit/casperkit/internal/project"
	"github.com/casperkit/casperkit/internal/render"
	"github.com/casperkit/casperkit/internal/versions"
	"github.com/spf13/afero"
)

// State is a step of a generation run.
type State int

const (
	StateStart State = iota
	StateResolvingVersions
	StateRendering
	StateMaterializing
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateResolvingVersions:
		return "resolving-versions"
	case StateRendering:
		return "rendering"
	case StateMaterializing:
		return "materializing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether s ends a run.
func (s State) Terminal() bool { return s == StateDone || s == StateFailed }

// Result holds the outcome of a generation run.
type Result struct {
	OutputDir string
	Files     []string
	Pins      versions.PinSet
	Warnings  []string
	State     State
}

// Generator creates projects. The zero value writes to the OS filesystem and
// pins the bundled versions.
type Generator struct {
	// Fs defaults to the OS filesystem.
	Fs afero.Fs
	// Resolver defaults to versions.Static.
	Resolver versions.Resolver
	// Dependencies defaults to versions.Required().
	Dependencies []versions.Dependency
	// Templates defaults to catalog.Templates().
	Templates []catalog.Template
	Options   render.Options
	// OnTransition, if set, observes every state change.
	OnTransition func(from, to State)
}

// NewSpec validates user input into a project spec, classifying failures as
// KindInvalidInput.
func NewSpec(name, outputDir string) (project.Spec, error) {
	spec, err := project.New(name, outputDir)
	if err != nil {
		return project.Spec{}, &Error{Kind: KindInvalidInput, Err: err}
	}
	return spec, nil
}

type run struct {
	state  State
	result *Result
	hook   func(from, to State)
}

func (r *run) to(next State) {
	prev := r.state
	r.state = next
	r.result.State = next
	if r.hook != nil {
		r.hook(prev, next)
	}
}

func (r *run) fail(err error) (*Result, error) {
	r.to(StateFailed)
	return r.result, err
}

// Generate creates the project described by spec. Nothing is written unless
// versions resolve and every template renders; the returned Result reports
// the terminal state either way.
func (g *Generator) Generate(ctx context.Context, spec project.Spec) (*Result, error) {
	r := &run{
		state:  StateStart,
		result: &Result{OutputDir: spec.TargetDir, State: StateStart},
		hook:   g.OnTransition,
	}
	fsys := g.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	if err := project.ValidateName(spec.Name); err != nil {
		return r.fail(&Error{Kind: KindInvalidInput, Err: err})
	}
	if spec.TargetDir == "" {
		return r.fail(&Error{Kind: KindInvalidInput, Err: errors.New("no destination directory")})
	}
	if err := g.Options.Overrides.Validate(); err != nil {
		return r.fail(&Error{Kind: KindInvalidInput, Err: err})
	}
	// Reject an occupied destination before touching the network.
	if _, err := CheckTarget(fsys, spec.TargetDir); err != nil {
		return r.fail(err)
	}

	r.to(StateResolvingVersions)
	pins, warnings, err := g.resolve(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return r.fail(&Error{Kind: KindCanceled, Path: spec.TargetDir, Err: err})
		}
		return r.fail(&Error{Kind: KindVersionResolution, Err: err})
	}
	r.result.Pins = pins
	r.result.Warnings = warnings

	r.to(StateRendering)
	files, err := g.render(spec, pins)
	if err != nil {
		return r.fail(&Error{Kind: KindRenderingInternal, Err: err})
	}

	// Last point at which an interrupt leaves no trace on disk.
	if err := ctx.Err(); err != nil {
		return r.fail(&Error{Kind: KindCanceled, Path: spec.TargetDir, Err: err})
	}

	r.to(StateMaterializing)
	written, err := Materialize(fsys, spec.TargetDir, files)
	if err != nil {
		return r.fail(err)
	}
	r.result.Files = written

	r.to(StateDone)
	return r.result, nil
}

func (g *Generator) resolve(ctx context.Context) (versions.PinSet, []string, error) {
	resolver := g.Resolver
	if resolver == nil {
		resolver = versions.Static{}
	}
	deps := g.Dependencies
	if deps == nil {
		deps = versions.Required()
	}
	return versions.ResolveAll(ctx, resolver, deps)
}

func (g *Generator) render(spec project.Spec, pins versions.PinSet) ([]render.File, error) {
	templates := g.Templates
	if templates == nil {
		var err error
		templates, err = catalog.Templates()
		if err != nil {
			return nil, err
		}
	}

	values, err := render.NewValues(spec, pins, g.Options)
	if err != nil {
		return nil, err
	}
	files, err := render.Render(templates, values)
	if err != nil {
		return nil, err
	}
	if err := checkManifests(files, pins); err != nil {
		return nil, err
	}
	return files, nil
}

var dependencyTables = []string{"dependencies", "dev-dependencies"}

// checkManifests validates every rendered Cargo.toml and confirms each pin
// appears, with its resolved version, in at least one of them.
func checkManifests(files []render.File, pins versions.PinSet) error {
	seen := make(map[string]bool, len(pins))
	for _, f := range files {
		if path.Base(f.Path) != "Cargo.toml" {
			continue
		}
		result, err := manifest.Validate(f.Content)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Path, err)
		}
		if !result.Valid {
			return fmt.Errorf("%s does not validate: %s", f.Path, result.Issues[0])
		}
		for _, pin := range pins {
			for _, table := range dependencyTables {
				got, err := manifest.DependencyVersion(f.Content, table, pin.Name)
				if errors.Is(err, manifest.ErrDependencyMissing) {
					continue
				}
				if err != nil {
					return fmt.Errorf("%s: %w", f.Path, err)
				}
				if got != pin.Version {
					return fmt.Errorf("%s pins %s = %q, resolved %q", f.Path, pin.Name, got, pin.Version)
				}
				seen[pin.Name] = true
			}
		}
	}
	for _, pin := range pins {
		if !seen[pin.Name] {
			return fmt.Errorf("no manifest pins %s", pin.Name)
		}
	}
	return nil
}
