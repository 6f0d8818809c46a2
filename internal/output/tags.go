package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/msinz/muse/internal/types"
)

const (
	jsonIndentPrefix = ""
	jsonIndentSpacer = "  "

	// errorEncodeMetadataFormat reports a failure to encode track metadata.
	errorEncodeMetadataFormat = "encoding track metadata: %w"
)

// RenderTrackMetadataRaw returns the metadata list as human-readable text,
// one block per track.
func RenderTrackMetadataRaw(trackList []types.TrackMetadata) string {
	var buffer strings.Builder
	for trackIndex, track := range trackList {
		if trackIndex > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString("File:   " + track.Path + "\n")
		buffer.WriteString("Title:  " + track.Title + "\n")
		if track.Artist != "" {
			buffer.WriteString("Artist: " + track.Artist + "\n")
		}
		if track.Album != "" {
			buffer.WriteString("Album:  " + track.Album + "\n")
		}
		if track.TrackNumber > 0 {
			buffer.WriteString(fmt.Sprintf("Track:  %d\n", track.TrackNumber))
		}
	}
	return buffer.String()
}

// RenderTrackMetadataJSON returns the metadata list as an indented JSON array.
func RenderTrackMetadataJSON(trackList []types.TrackMetadata) (string, error) {
	var encoded bytes.Buffer
	encoder := json.NewEncoder(&encoded)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent(jsonIndentPrefix, jsonIndentSpacer)
	if encodeError := encoder.Encode(trackList); encodeError != nil {
		return "", fmt.Errorf(errorEncodeMetadataFormat, encodeError)
	}
	return strings.TrimSuffix(encoded.String(), "\n"), nil
}
