package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/msinz/muse/internal/config"
	"github.com/msinz/muse/internal/utils"
)

// writeConfigFile writes a configuration file with the given content.
func writeConfigFile(testingHandle *testing.T, filePath string, fileContent string) {
	testingHandle.Helper()
	if makeDirError := os.MkdirAll(filepath.Dir(filePath), 0o755); makeDirError != nil {
		testingHandle.Fatalf("mkdir: %v", makeDirError)
	}
	if writeError := os.WriteFile(filePath, []byte(fileContent), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// isolateHomeDirectory points the home directory at a fresh temporary
// directory so the global configuration of the invoking user cannot leak in.
func isolateHomeDirectory(testingHandle *testing.T) string {
	testingHandle.Helper()
	homeDirectory := testingHandle.TempDir()
	testingHandle.Setenv("HOME", homeDirectory)
	testingHandle.Setenv("USERPROFILE", homeDirectory)
	return homeDirectory
}

// TestLoadApplicationConfigurationLocalFile verifies a local file is decoded.
func TestLoadApplicationConfigurationLocalFile(testingHandle *testing.T) {
	isolateHomeDirectory(testingHandle)
	workingDirectory := testingHandle.TempDir()
	writeConfigFile(testingHandle, filepath.Join(workingDirectory, utils.ConfigFileName), `
index:
  output: library.js
  skip_errors: true
waveform:
  width: 1024
  left_color: ff0000
tags:
  format: json
`)

	configuration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
	if loadError != nil {
		testingHandle.Fatalf("LoadApplicationConfiguration failed: %v", loadError)
	}
	if configuration.Index.Output != "library.js" {
		testingHandle.Errorf("unexpected output: %q", configuration.Index.Output)
	}
	if configuration.Index.SkipErrors == nil || !*configuration.Index.SkipErrors {
		testingHandle.Errorf("expected skip_errors true, got %v", configuration.Index.SkipErrors)
	}
	if configuration.Waveform.Width == nil || *configuration.Waveform.Width != 1024 {
		testingHandle.Errorf("unexpected width: %v", configuration.Waveform.Width)
	}
	if configuration.Waveform.Height != nil {
		testingHandle.Errorf("expected unset height, got %v", *configuration.Waveform.Height)
	}
	if configuration.Waveform.LeftColor != "ff0000" {
		testingHandle.Errorf("unexpected left color: %q", configuration.Waveform.LeftColor)
	}
	if configuration.Tags.Format != "json" {
		testingHandle.Errorf("unexpected tags format: %q", configuration.Tags.Format)
	}
}

// TestLoadApplicationConfigurationLocalOverridesGlobal verifies precedence of
// the working-directory file over the home-directory file.
func TestLoadApplicationConfigurationLocalOverridesGlobal(testingHandle *testing.T) {
	homeDirectory := isolateHomeDirectory(testingHandle)
	globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
	writeConfigFile(testingHandle, globalPath, `
index:
  output: global.js
  clipboard: true
waveform:
  height: 96
`)
	workingDirectory := testingHandle.TempDir()
	writeConfigFile(testingHandle, filepath.Join(workingDirectory, utils.ConfigFileName), `
index:
  output: local.js
`)

	configuration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
	if loadError != nil {
		testingHandle.Fatalf("LoadApplicationConfiguration failed: %v", loadError)
	}
	if configuration.Index.Output != "local.js" {
		testingHandle.Errorf("local file should win: %q", configuration.Index.Output)
	}
	if configuration.Index.Clipboard == nil || !*configuration.Index.Clipboard {
		testingHandle.Errorf("global clipboard setting should survive, got %v", configuration.Index.Clipboard)
	}
	if configuration.Waveform.Height == nil || *configuration.Waveform.Height != 96 {
		testingHandle.Errorf("global height setting should survive, got %v", configuration.Waveform.Height)
	}
}

// TestLoadApplicationConfigurationExplicitFile verifies the --config path is honored.
func TestLoadApplicationConfigurationExplicitFile(testingHandle *testing.T) {
	isolateHomeDirectory(testingHandle)
	workingDirectory := testingHandle.TempDir()
	writeConfigFile(testingHandle, filepath.Join(workingDirectory, "custom.yaml"), `
tags:
  format: raw
`)

	configuration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: "custom.yaml",
	})
	if loadError != nil {
		testingHandle.Fatalf("LoadApplicationConfiguration failed: %v", loadError)
	}
	if configuration.Tags.Format != "raw" {
		testingHandle.Errorf("unexpected tags format: %q", configuration.Tags.Format)
	}
}

// TestLoadApplicationConfigurationMissingFilesIsEmpty verifies absent files
// produce the zero configuration rather than an error.
func TestLoadApplicationConfigurationMissingFilesIsEmpty(testingHandle *testing.T) {
	isolateHomeDirectory(testingHandle)
	workingDirectory := testingHandle.TempDir()

	configuration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
	if loadError != nil {
		testingHandle.Fatalf("LoadApplicationConfiguration failed: %v", loadError)
	}
	if configuration.Index.Output != "" || configuration.Index.SkipErrors != nil || configuration.Waveform.Width != nil {
		testingHandle.Errorf("expected empty configuration, got %+v", configuration)
	}
}

// TestMergeDoesNotShareOverridePointers verifies merged pointer fields are copies.
func TestMergeDoesNotShareOverridePointers(testingHandle *testing.T) {
	overrideWidth := 640
	overrideSkip := true
	override := config.ApplicationConfiguration{
		Index:    config.IndexConfiguration{SkipErrors: &overrideSkip},
		Waveform: config.WaveformConfiguration{Width: &overrideWidth},
	}

	merged := config.ApplicationConfiguration{}.Merge(override)
	overrideWidth = 9999
	overrideSkip = false
	if *merged.Waveform.Width != 640 {
		testingHandle.Errorf("merged width aliases the override: %d", *merged.Waveform.Width)
	}
	if !*merged.Index.SkipErrors {
		testingHandle.Errorf("merged skip_errors aliases the override")
	}
}
