// Package tags extracts audio metadata for the tags command.
package tags

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"github.com/msinz/muse/internal/types"
)

const (
	// errorOpenFileFormat reports a failure to open an audio file.
	errorOpenFileFormat = "opening %s: %w"
	// errorReadMetadataFormat reports a failure to parse audio metadata.
	errorReadMetadataFormat = "reading metadata from %s: %w"
)

// ReadTrackMetadata extracts the metadata of a single audio file. Fields the
// file does not carry fall back to values derived from the path: the file
// stem stands in for a missing title and the enclosing directory names for
// missing album and artist.
func ReadTrackMetadata(filePath string) (types.TrackMetadata, error) {
	metadata := types.TrackMetadata{Path: filePath}

	audioFile, openError := os.Open(filePath)
	if openError != nil {
		return metadata, fmt.Errorf(errorOpenFileFormat, filePath, openError)
	}
	defer audioFile.Close()

	parsedTags, readError := tag.ReadFrom(audioFile)
	if readError != nil && errors.Is(readError, tag.ErrNoTagsFound) {
		parsedTags, readError = readTrailingTags(audioFile)
	}
	if readError != nil && !errors.Is(readError, tag.ErrNoTagsFound) {
		return metadata, fmt.Errorf(errorReadMetadataFormat, filePath, readError)
	}
	if readError == nil {
		metadata.Title = parsedTags.Title()
		metadata.Artist = parsedTags.Artist()
		metadata.Album = parsedTags.Album()
		trackNumber, _ := parsedTags.Track()
		metadata.TrackNumber = trackNumber
	}

	applyPathFallbacks(&metadata, filePath)
	return metadata, nil
}

// readTrailingTags retries metadata parsing against the trailing ID3v1 frame,
// which tag.ReadFrom does not consult. Files without one report
// tag.ErrNoTagsFound so the caller can fall back to path-derived fields.
func readTrailingTags(audioFile io.ReadSeeker) (tag.Metadata, error) {
	parsedTags, readError := tag.ReadID3v1Tags(audioFile)
	if readError != nil {
		return nil, tag.ErrNoTagsFound
	}
	return parsedTags, nil
}

// applyPathFallbacks fills missing metadata fields from the file path,
// assuming the conventional Artist/Album/Track layout.
func applyPathFallbacks(metadata *types.TrackMetadata, filePath string) {
	if metadata.Title == "" {
		baseName := filepath.Base(filePath)
		metadata.Title = strings.TrimSuffix(baseName, filepath.Ext(baseName))
	}
	albumDirectory := filepath.Dir(filePath)
	if metadata.Album == "" && isNamedDirectory(albumDirectory) {
		metadata.Album = filepath.Base(albumDirectory)
	}
	artistDirectory := filepath.Dir(albumDirectory)
	if metadata.Artist == "" && isNamedDirectory(artistDirectory) {
		metadata.Artist = filepath.Base(artistDirectory)
	}
}

// isNamedDirectory reports whether the directory path carries a usable name
// for metadata fallbacks.
func isNamedDirectory(directoryPath string) bool {
	baseName := filepath.Base(directoryPath)
	return baseName != "." && baseName != string(filepath.Separator)
}
