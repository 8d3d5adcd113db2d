// Package manifest checks rendered Cargo.toml files. Validate parses the TOML
// and validates it against the embedded JSON Schema of the manifest subset
// the catalog produces; DependencyVersion reads back a pinned version so
// callers can confirm a manifest pins what the resolver chose.
package manifest
