package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolateHomeDirectory redirects the home directory so user configuration
// cannot influence command behavior.
func isolateHomeDirectory(testingHandle *testing.T) {
	testingHandle.Helper()
	homeDirectory := testingHandle.TempDir()
	testingHandle.Setenv("HOME", homeDirectory)
	testingHandle.Setenv("USERPROFILE", homeDirectory)
}

// writeLibraryFile creates a file within a library fixture.
func writeLibraryFile(testingHandle *testing.T, filePath string) {
	testingHandle.Helper()
	if makeDirError := os.MkdirAll(filepath.Dir(filePath), 0o755); makeDirError != nil {
		testingHandle.Fatalf("mkdir: %v", makeDirError)
	}
	if writeError := os.WriteFile(filePath, []byte("x"), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// runRootCommand executes the root command with the given arguments.
func runRootCommand(testingHandle *testing.T, arguments ...string) error {
	testingHandle.Helper()
	rootCommand := createRootCommand()
	rootCommand.SetOut(&bytes.Buffer{})
	rootCommand.SetErr(&bytes.Buffer{})
	rootCommand.SetArgs(arguments)
	return rootCommand.Execute()
}

// TestIndexCommandWritesArtifact runs the index pipeline end to end against a
// small library fixture and checks the exact artifact written to a file.
func TestIndexCommandWritesArtifact(testingHandle *testing.T) {
	isolateHomeDirectory(testingHandle)
	libraryDirectory := testingHandle.TempDir()
	albumDirectory := filepath.Join(libraryDirectory, "Artist", "Album")
	writeLibraryFile(testingHandle, filepath.Join(albumDirectory, "Cover.jpg"))
	writeLibraryFile(testingHandle, filepath.Join(albumDirectory, "Back.jpg"))
	writeLibraryFile(testingHandle, filepath.Join(albumDirectory, "01 Song.mp3"))
	writeLibraryFile(testingHandle, filepath.Join(libraryDirectory, ".cache", "ignored.mp3"))
	writeLibraryFile(testingHandle, filepath.Join(libraryDirectory, "Artwork Only", "Cover.jpg"))

	artifactPath := filepath.Join(testingHandle.TempDir(), "Music.js")
	if executeError := runRootCommand(testingHandle, "index", "--output", artifactPath, libraryDirectory); executeError != nil {
		testingHandle.Fatalf("index command failed: %v", executeError)
	}

	artifactBytes, readError := os.ReadFile(artifactPath)
	if readError != nil {
		testingHandle.Fatalf("reading artifact: %v", readError)
	}
	expectedArtifact := "// Simple Web Audio Player - music library index\n\n" +
		"const mp3 = {\"Folders\":{\"Artist\":{\"Folders\":{\"Album\":{\"Cover\":2,\"Files\":[\"01 Song\"]}}}}};"
	if string(artifactBytes) != expectedArtifact {
		testingHandle.Errorf("unexpected artifact:\n%s\nwant:\n%s", artifactBytes, expectedArtifact)
	}
}

// TestIndexCommandHonorsConfigurationOutput verifies the output path can come
// from a configuration file given with --config.
func TestIndexCommandHonorsConfigurationOutput(testingHandle *testing.T) {
	isolateHomeDirectory(testingHandle)
	libraryDirectory := testingHandle.TempDir()
	writeLibraryFile(testingHandle, filepath.Join(libraryDirectory, "01 Song.mp3"))

	scratchDirectory := testingHandle.TempDir()
	artifactPath := filepath.Join(scratchDirectory, "FromConfig.js")
	configurationPath := filepath.Join(scratchDirectory, "muse.yaml")
	configurationContent := "index:\n  output: " + artifactPath + "\n"
	if writeError := os.WriteFile(configurationPath, []byte(configurationContent), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write configuration: %v", writeError)
	}

	if executeError := runRootCommand(testingHandle, "index", "--config", configurationPath, libraryDirectory); executeError != nil {
		testingHandle.Fatalf("index command failed: %v", executeError)
	}
	if _, statError := os.Stat(artifactPath); statError != nil {
		testingHandle.Fatalf("artifact not written to configured path: %v", statError)
	}
}

// TestIndexCommandRejectsFilePath verifies a file argument is refused.
func TestIndexCommandRejectsFilePath(testingHandle *testing.T) {
	isolateHomeDirectory(testingHandle)
	filePath := filepath.Join(testingHandle.TempDir(), "plain.txt")
	writeLibraryFile(testingHandle, filePath)

	executeError := runRootCommand(testingHandle, "index", filePath)
	if executeError == nil {
		testingHandle.Fatalf("expected error for file argument")
	}
	if !strings.Contains(executeError.Error(), "is not a directory") {
		testingHandle.Errorf("unexpected error: %v", executeError)
	}
}

// TestTagsCommandRejectsUnknownFormat verifies format validation.
func TestTagsCommandRejectsUnknownFormat(testingHandle *testing.T) {
	isolateHomeDirectory(testingHandle)
	trackPath := filepath.Join(testingHandle.TempDir(), "a.mp3")
	writeLibraryFile(testingHandle, trackPath)

	executeError := runRootCommand(testingHandle, "tags", "--format", "xml", trackPath)
	if executeError == nil {
		testingHandle.Fatalf("expected error for unknown format")
	}
	if !strings.Contains(executeError.Error(), "invalid format") {
		testingHandle.Errorf("unexpected error: %v", executeError)
	}
}

// TestWaveformCommandRejectsBadColor verifies color validation happens before rendering.
func TestWaveformCommandRejectsBadColor(testingHandle *testing.T) {
	isolateHomeDirectory(testingHandle)
	trackPath := filepath.Join(testingHandle.TempDir(), "a.mp3")
	writeLibraryFile(testingHandle, trackPath)

	if executeError := runRootCommand(testingHandle, "waveform", "--left-color", "nope", trackPath); executeError == nil {
		testingHandle.Fatalf("expected error for invalid color")
	}
}

// TestWaveformCommandRejectsOutputFilenameForDirectories verifies the
// --output-filename restriction.
func TestWaveformCommandRejectsOutputFilenameForDirectories(testingHandle *testing.T) {
	isolateHomeDirectory(testingHandle)
	libraryDirectory := testingHandle.TempDir()

	executeError := runRootCommand(testingHandle, "waveform", "--output-filename", "out.png", libraryDirectory)
	if executeError == nil {
		testingHandle.Fatalf("expected error for directory input with --output-filename")
	}
	if !strings.Contains(executeError.Error(), "directory") {
		testingHandle.Errorf("unexpected error: %v", executeError)
	}
}

// TestResolveAndValidateDirectory verifies path validation outcomes.
func TestResolveAndValidateDirectory(testingHandle *testing.T) {
	existingDirectory := testingHandle.TempDir()
	validatedPath, validationError := resolveAndValidateDirectory(existingDirectory)
	if validationError != nil {
		testingHandle.Fatalf("unexpected error: %v", validationError)
	}
	if !filepath.IsAbs(validatedPath.AbsolutePath) || !validatedPath.IsDir {
		testingHandle.Errorf("unexpected result: %+v", validatedPath)
	}

	if _, missingError := resolveAndValidateDirectory(filepath.Join(existingDirectory, "missing")); missingError == nil {
		testingHandle.Errorf("expected error for missing path")
	}

	filePath := filepath.Join(existingDirectory, "plain.txt")
	writeLibraryFile(testingHandle, filePath)
	if _, fileError := resolveAndValidateDirectory(filePath); fileError == nil {
		testingHandle.Errorf("expected error for file path")
	}
}
