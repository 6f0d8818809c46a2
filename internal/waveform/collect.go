package waveform

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// errorStatInputFormat reports a failure to inspect an input path.
	errorStatInputFormat = "stat failed for %s: %w"
	// errorWalkDirectoryFormat reports a failure to read a directory during collection.
	errorWalkDirectoryFormat = "reading directory %s: %w"
)

// CollectAudioFiles expands the given paths into the list of audio files to
// process. Paths naming files are taken as-is without extension filtering;
// paths naming directories are walked recursively, following symbolic links
// with cycle protection, collecting files whose extension matches one of the
// given extensions (compared case-insensitively, without the leading dot).
// The result is sorted for deterministic processing order.
func CollectAudioFiles(inputPaths []string, extensions []string) ([]string, error) {
	normalizedExtensions := make(map[string]struct{}, len(extensions))
	for _, extension := range extensions {
		trimmed := strings.ToLower(strings.TrimSpace(extension))
		if trimmed != "" {
			normalizedExtensions[trimmed] = struct{}{}
		}
	}

	collector := &fileCollector{
		extensions:         normalizedExtensions,
		visitedDirectories: make(map[string]struct{}),
	}

	for _, inputPath := range inputPaths {
		pathInfo, statError := os.Stat(inputPath)
		if statError != nil {
			return nil, fmt.Errorf(errorStatInputFormat, inputPath, statError)
		}
		if !pathInfo.IsDir() {
			collector.audioFiles = append(collector.audioFiles, inputPath)
			continue
		}
		if collectError := collector.collectDirectory(inputPath); collectError != nil {
			return nil, collectError
		}
	}

	sort.Strings(collector.audioFiles)
	return collector.audioFiles, nil
}

// fileCollector accumulates matching files across directory arguments while
// tracking visited canonical directories.
type fileCollector struct {
	extensions         map[string]struct{}
	visitedDirectories map[string]struct{}
	audioFiles         []string
}

func (collector *fileCollector) collectDirectory(directoryPath string) error {
	canonicalPath, canonicalError := filepath.EvalSymlinks(directoryPath)
	if canonicalError == nil {
		if _, alreadyVisited := collector.visitedDirectories[canonicalPath]; alreadyVisited {
			return nil
		}
		collector.visitedDirectories[canonicalPath] = struct{}{}
	}

	directoryEntries, readError := os.ReadDir(directoryPath)
	if readError != nil {
		return fmt.Errorf(errorWalkDirectoryFormat, directoryPath, readError)
	}

	for _, directoryEntry := range directoryEntries {
		entryPath := filepath.Join(directoryPath, directoryEntry.Name())
		if isTraversableDirectory(directoryEntry, entryPath) {
			if collectError := collector.collectDirectory(entryPath); collectError != nil {
				return collectError
			}
			continue
		}
		if collector.matchesExtension(directoryEntry.Name()) {
			collector.audioFiles = append(collector.audioFiles, entryPath)
		}
	}
	return nil
}

func (collector *fileCollector) matchesExtension(fileName string) bool {
	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if extension == "" {
		return false
	}
	_, matches := collector.extensions[extension]
	return matches
}

// isTraversableDirectory mirrors the directory test of the library scanner:
// real directories and symbolic links resolving to directories are walked.
func isTraversableDirectory(directoryEntry fs.DirEntry, entryPath string) bool {
	if directoryEntry.IsDir() {
		return true
	}
	if directoryEntry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	targetInfo, statError := os.Stat(entryPath)
	return statError == nil && targetInfo.IsDir()
}
