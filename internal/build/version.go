// Package build provides version and build information for bump.
// This package intentionally has no dependencies on other internal packages
// to avoid import cycles.
package build

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// Info is the build information printed by `bump version`.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// Current returns the running binary's build information. Dev builds fall
// back to the module version recorded by `go install`.
func Current() Info {
	info := Info{Version: Version, Commit: Commit, BuildDate: BuildDate, GoVersion: "unknown"}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		if IsDevBuild() && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
	}
	return info
}

// String renders the multi-line form of Info.
func (i Info) String() string {
	return fmt.Sprintf("bump %s\n  commit: %s\n  built:  %s\n  go:     %s\n", i.Version, i.Commit, i.BuildDate, i.GoVersion)
}
