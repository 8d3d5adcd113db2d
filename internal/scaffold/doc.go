// Package scaffold generates a new Casper contract project. It powers the
// "casperkit new" command: Generator resolves dependency versions, renders
// the template catalog in memory, self-checks the rendered Cargo manifests,
// and only then writes the tree with Materialize. Failures are reported as
// *Error values whose Kind maps to a process exit code.
package scaffold
