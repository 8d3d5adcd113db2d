// Package toolchain inspects the local Rust toolchain a generated project
// needs to build and test its contract.
package toolchain
