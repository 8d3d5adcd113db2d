package versions

import (
	"context"
	"fmt"
)

// Source records where a pin came from.
type Source string

const (
	SourceRegistry Source = "registry"
	SourceCache    Source = "cache"
	SourceFallback Source = "fallback"
	SourceOverride Source = "override"
)

// Pin is a resolved dependency version.
type Pin struct {
	Name    string
	Version string
	Source  Source
	// Warning is set when resolution degraded to a fallback.
	Warning string
}

// PinSet is an ordered set of pins.
type PinSet []Pin

// Get returns the pin for the named dependency.
func (s PinSet) Get(name string) (Pin, bool) {
	for _, p := range s {
		if p.Name == name {
			return p, true
		}
	}
	return Pin{}, false
}

// Resolver picks the version to pin for a dependency.
type Resolver interface {
	Resolve(ctx context.Context, dep Dependency) (Pin, error)
}

// Static resolves to the version bundled with the tool.
type Static struct{}

// Resolve returns dep.Fallback after checking it is a valid semantic version.
func (Static) Resolve(_ context.Context, dep Dependency) (Pin, error) {
	v, err := parseSemver(dep.Fallback)
	if err != nil {
		return Pin{}, fmt.Errorf("%w: no usable bundled version for %s", ErrNoCompatibleVersion, dep.Name)
	}
	return Pin{Name: dep.Name, Version: v.String(), Source: SourceFallback}, nil
}

// Wildcard pins every dependency to "*". The generated manifests then take
// the Casper crates from a [patch.crates-io] override.
type Wildcard struct{}

// Resolve always returns "*".
func (Wildcard) Resolve(_ context.Context, dep Dependency) (Pin, error) {
	return Pin{Name: dep.Name, Version: "*", Source: SourceOverride}, nil
}

// Fallback tries Primary and, on any error, Secondary. A primary failure is
// recorded in the returned pin's Warning. Cancellation of ctx is returned as
// is and never falls through to Secondary.
type Fallback struct {
	Primary   Resolver
	Secondary Resolver
}

// Resolve implements Resolver.
func (f Fallback) Resolve(ctx context.Context, dep Dependency) (Pin, error) {
	pin, err := f.Primary.Resolve(ctx, dep)
	if err == nil {
		return pin, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Pin{}, fmt.Errorf("looking up %s: %w", dep.Name, ctxErr)
	}
	primaryErr := err

	pin, err = f.Secondary.Resolve(ctx, dep)
	if err != nil {
		return Pin{}, fmt.Errorf("%w (after primary lookup failed: %v)", err, primaryErr)
	}
	pin.Warning = fmt.Sprintf("could not look up %s in the registry (%v); using bundled version %s", dep.Name, primaryErr, pin.Version)
	return pin, nil
}

// ResolveAll resolves each dependency once, in order. It returns the pins and
// any degradation warnings, and stops at the first fatal error.
func ResolveAll(ctx context.Context, r Resolver, deps []Dependency) (PinSet, []string, error) {
	pins := make(PinSet, 0, len(deps))
	var warnings []string
	for _, dep := range deps {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		pin, err := r.Resolve(ctx, dep)
		if err != nil {
			return nil, nil, fmt.Errorf("resolving %s: %w", dep.Name, err)
		}
		if pin.Warning != "" {
			warnings = append(warnings, pin.Warning)
		}
		pins = append(pins, pin)
	}
	return pins, warnings, nil
}
