package library

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/msinz/muse/internal/utils"
)

const (
	// coverFileName is the exact file name marking front cover art.
	coverFileName = "Cover.jpg"
	// backCoverFileName is the exact file name marking back cover art.
	backCoverFileName = "Back.jpg"
	// trackFileSuffix is the case-sensitive suffix identifying playable tracks.
	trackFileSuffix = ".mp3"

	// warningSkipSubdirFormat is used when an unreadable subdirectory is skipped.
	warningSkipSubdirFormat = "Warning: skipping subdirectory %s due to error: %v\n"
	// warningLinkCycleFormat is used when a symbolic link cycle is detected.
	warningLinkCycleFormat = "Warning: skipping %s: symbolic link cycle detected\n"

	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	// errorResolveRootFormat reports failure to canonicalize the scan root.
	errorResolveRootFormat = "resolving %s: %w"
	// errorReadDirectoryFormat reports failure to read a directory.
	errorReadDirectoryFormat = "reading directory %s: %w"
)

// Scanner walks a music directory hierarchy and produces the raw library tree.
//
// Symbolic links to directories are followed. Canonical paths of every
// directory entered are recorded so that link cycles terminate: a revisit is
// reported to stderr and the branch is skipped.
type Scanner struct {
	// SkipUnreadable selects the error policy for unreadable subdirectories.
	// When false (the default) the first traversal error aborts the scan;
	// when true the offending subdirectory is skipped with a warning.
	SkipUnreadable bool

	visitedDirectories map[string]struct{}
}

// Scan traverses the hierarchy rooted at rootDirectoryPath and returns the
// raw tree. The root directory's own tracks and covers are recorded on the
// returned top-level node; the root never appears as a child of itself.
// The returned tree may still contain folders without playable content and
// is expected to be pruned before serialization.
func (scanner *Scanner) Scan(rootDirectoryPath string) (*TreeNode, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootDirectoryPath, absolutePathError)
	}

	canonicalRootPath, canonicalRootError := filepath.EvalSymlinks(absoluteRootPath)
	if canonicalRootError != nil {
		return nil, fmt.Errorf(errorResolveRootFormat, rootDirectoryPath, canonicalRootError)
	}
	scanner.visitedDirectories = map[string]struct{}{canonicalRootPath: {}}

	return scanner.scanDirectory(absoluteRootPath)
}

// scanDirectory reads one directory, classifies its entries, and recurses
// into non-hidden subdirectories.
func (scanner *Scanner) scanDirectory(directoryPath string) (*TreeNode, error) {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, directoryPath, readDirectoryError)
	}

	node := &TreeNode{}
	var trackStems []string
	var hasFrontCover, hasBackCover bool

	for _, directoryEntry := range directoryEntries {
		entryName := directoryEntry.Name()
		if utils.IsHiddenName(entryName) {
			continue
		}
		entryPath := filepath.Join(directoryPath, entryName)

		if isDirectoryEntry(directoryEntry, entryPath) {
			if !scanner.markVisited(entryPath) {
				fmt.Fprintf(os.Stderr, warningLinkCycleFormat, entryPath)
				continue
			}
			childNode, childScanError := scanner.scanDirectory(entryPath)
			if childScanError != nil {
				if !scanner.SkipUnreadable {
					return nil, childScanError
				}
				fmt.Fprintf(os.Stderr, warningSkipSubdirFormat, entryPath, childScanError)
				continue
			}
			if node.Folders == nil {
				node.Folders = make(map[string]*TreeNode)
			}
			node.Folders[entryName] = childNode
			continue
		}

		switch {
		case entryName == coverFileName:
			hasFrontCover = true
		case entryName == backCoverFileName:
			hasBackCover = true
		case strings.HasSuffix(entryName, trackFileSuffix):
			trackStems = append(trackStems, strings.TrimSuffix(entryName, trackFileSuffix))
		}
	}

	if hasFrontCover && hasBackCover {
		node.Cover = CoverFrontAndBack
	} else if hasFrontCover {
		node.Cover = CoverFront
	}
	if len(trackStems) > 0 {
		sort.Strings(trackStems)
		node.Files = trackStems
	}

	return node, nil
}

// markVisited records the canonical path of a directory about to be entered.
// It returns false when the directory was already visited, which indicates a
// symbolic link cycle or a link aliasing an already-scanned branch.
func (scanner *Scanner) markVisited(directoryPath string) bool {
	canonicalPath, canonicalPathError := filepath.EvalSymlinks(directoryPath)
	if canonicalPathError != nil {
		// Canonicalization failures surface later as read errors, which the
		// configured error policy handles.
		return true
	}
	if _, alreadyVisited := scanner.visitedDirectories[canonicalPath]; alreadyVisited {
		return false
	}
	scanner.visitedDirectories[canonicalPath] = struct{}{}
	return true
}

// isDirectoryEntry reports whether the entry should be traversed as a
// directory, following symbolic links to their targets. Broken links are
// classified as files so they fall through name-based classification.
func isDirectoryEntry(directoryEntry fs.DirEntry, entryPath string) bool {
	if directoryEntry.IsDir() {
		return true
	}
	if directoryEntry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	targetInfo, statError := os.Stat(entryPath)
	return statError == nil && targetInfo.IsDir()
}
