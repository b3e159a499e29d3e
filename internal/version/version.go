// Package version holds build metadata injected via -ldflags.
package version

import "fmt"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String formats the full build identifier for logs and -version output.
func String() string {
	return fmt.Sprintf("kptrace %s (%s, built %s)", Version, GitSHA, BuildTime)
}
