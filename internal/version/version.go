// Package version exposes the build metadata stamped into the cardscan
// binaries with -ldflags.
package version

var (
	// Version is the scanner release; local builds carry the -dev suffix.
	Version = "0.1.0-dev"

	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"

	// GitCommit is the short commit hash of the build.
	GitCommit = "unknown"
)
