// Package version provides build-time version information for dice-reader.
package version

import "fmt"

// These variables are set at build time using -ldflags
var (
	// Version is the semantic version
	Version = "0.2.0"

	// BuildTime is the UTC time when the binary was built
	BuildTime = "unknown"

	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// String formats the version line printed by `dice-reader version`.
func String() string {
	return fmt.Sprintf("dice-reader %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
