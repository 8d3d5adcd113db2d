// Package config manages user-level settings stored at ~/.casperkit/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the registry URL, the registry query timeout, offline mode, and the Rust
// toolchain channel written into generated projects.
package config
