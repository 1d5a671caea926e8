// Package version exposes build version information.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version is overridden by ldflags at release build time.
var Version = "dev"

// GetInfo returns the version plus the short VCS revision when the binary
// carries build info.
func GetInfo() string {
	revision := ""
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				revision = setting.Value
			}
		}
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if revision == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, revision)
}
