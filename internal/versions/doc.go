// Package versions resolves the Casper crate versions pinned into generated
// manifests. A Resolver answers "which version of this dependency should the
// project use". The Registry variant asks the crates.io sparse index for the
// newest release on the same major.minor line as the version bundled with
// this tool; Static returns the bundled version; Fallback chains the two so
// an unreachable registry degrades to a warning instead of a failure.
package versions
