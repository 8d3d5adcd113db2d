// Package catalog holds the immutable set of file templates that make up a
// generated contract project, and the closed set of slots those templates may
// reference. Template bodies are embedded into the binary from templates/.
package catalog
