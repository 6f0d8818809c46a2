package utils

import (
	"runtime/debug"
)

const unknownVersion = "unknown"

// GetApplicationVersion determines the application version from Go build information.
// Module-aware builds installed with a version tag report that tag.
func GetApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}
	return unknownVersion
}
