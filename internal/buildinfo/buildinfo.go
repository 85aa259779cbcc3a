// Package buildinfo holds version metadata injected at link time with -ldflags -X.
package buildinfo

//nolint:gochecknoglobals // Set by the linker.
var (
	// Version is the release version.
	Version = "dev"
	// Commit is the source revision.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)
