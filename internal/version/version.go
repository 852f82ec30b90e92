// Package version holds build metadata injected with
// -ldflags "-X orderbook-alerts/internal/version.Version=...".
package version

var (
	// Version is the release tag.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// String renders the metadata on one line for logs.
func String() string {
	return Version + " (" + Commit + ", " + BuildDate + ")"
}
