// Package utils provides shared helpers: logging, constants, and version retrieval.
package utils

import (
	"os"
	"strings"
)

const (
	// HiddenEntryPrefix marks filesystem entries excluded from every scan.
	HiddenEntryPrefix = "."

	// ConfigFileName is the name of the local configuration file.
	ConfigFileName = "muse.yaml"
	// GlobalConfigDirectoryName is the per-user configuration directory under the home directory.
	GlobalConfigDirectoryName = ".muse"

	// LoggerInitializationFailedMessageFormat reports a failure to build the application logger.
	LoggerInitializationFailedMessageFormat = "unable to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal application errors.
	ApplicationExecutionFailedMessage = "muse failed"
)

// IsHiddenName reports whether a file or directory name is hidden by convention.
func IsHiddenName(entryName string) bool {
	return strings.HasPrefix(entryName, HiddenEntryPrefix)
}

// IsDirectory returns true if the given path exists and is a directory.
func IsDirectory(path string) bool {
	fileInfo, statError := os.Stat(path)
	if statError != nil {
		return false
	}
	return fileInfo.IsDir()
}
