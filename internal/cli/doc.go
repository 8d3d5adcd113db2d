// Package cli defines the Cobra command tree for the casperkit CLI. Each file
// in this package registers one top-level command with the root command.
// Command implementations delegate to internal packages for the work and
// only handle flag parsing, output formatting, and exit classification.
package cli
