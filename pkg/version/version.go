// Package version reports the lockgrid build version.
package version

import "runtime/debug"

// version is set at build time with
// -ldflags "-X github.com/rshade/lockgrid/pkg/version.version=v1.2.3".
var version = "" //nolint:gochecknoglobals // Set by the linker.

// GetVersion returns the linker-provided version, the module version from
// the build info, or "dev".
func GetVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}
