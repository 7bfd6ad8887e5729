// Package cli carries release metadata stamped by external build scripts.
package cli

// Version, Commit and Date are set with ldflags, e.g.:
//
//	-ldflags "-X 'github.com/flarebyte/gwtbuild/cli.Version=1.2.3' -X 'github.com/flarebyte/gwtbuild/cli.Date=2026-10-16'"
var (
	Version string
	Commit  string
	Date    string
)
