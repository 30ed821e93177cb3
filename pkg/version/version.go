// Package version exposes build-time version metadata for cachectl.
package version

import "runtime/debug"

// Version is the semantic version of the cachectl binary. It is overridden at
// release time via -ldflags "-X github.com/finboard/cachectl/pkg/version.Version=v1.2.3".
//
//nolint:gochecknoglobals // Set once by the linker, read-only afterwards.
var Version = "dev"

// GetVersion returns the release version when one was linked in, otherwise
// the module version recorded in build info (for go install builds), and
// finally the "dev" placeholder.
func GetVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
