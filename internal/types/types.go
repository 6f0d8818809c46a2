// Package types defines shared data structures used across the muse tool.
package types

// Command name constants used for dispatching top-level operations.
const (
	// CommandIndex identifies the library index command.
	CommandIndex = "index"
	// CommandWaveform identifies the waveform rendering command.
	CommandWaveform = "waveform"
	// CommandTags identifies the metadata inspection command.
	CommandTags = "tags"
)

// Output format constants for commands that support format selection.
const (
	// FormatRaw renders human-readable text output.
	FormatRaw = "raw"
	// FormatJSON renders JSON output.
	FormatJSON = "json"
)

// ValidatedPath stores information about a resolved and validated input path.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// TrackMetadata holds the metadata extracted from a single audio file.
type TrackMetadata struct {
	Path        string `json:"path"`
	Title       string `json:"title"`
	Artist      string `json:"artist,omitempty"`
	Album       string `json:"album,omitempty"`
	TrackNumber int    `json:"track,omitempty"`
}
