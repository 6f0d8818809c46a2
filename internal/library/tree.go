// Package library builds and prunes the music library tree.
//
// A TreeNode mirrors one directory of the scanned hierarchy and carries at
// most three attributes: the sorted track stems found directly in the
// directory, the cover art level, and the subdirectory mapping. Nodes whose
// subtree contains no tracks are removed by Prune before serialization.
package library

// CoverLevel encodes which cover art images a directory contains.
type CoverLevel int

const (
	// CoverNone indicates no front cover image; the attribute is omitted.
	CoverNone CoverLevel = 0
	// CoverFront indicates Cover.jpg is present.
	CoverFront CoverLevel = 1
	// CoverFrontAndBack indicates both Cover.jpg and Back.jpg are present.
	CoverFrontAndBack CoverLevel = 2
)

// TreeNode represents one directory's playable content. Field declaration
// order matches the lexicographic order of the serialized attribute labels.
type TreeNode struct {
	Cover   CoverLevel           `json:"Cover,omitempty"`
	Files   []string             `json:"Files,omitempty"`
	Folders map[string]*TreeNode `json:"Folders,omitempty"`
}

// Playable reports whether the node's own file list is non-empty.
func (node *TreeNode) Playable() bool {
	return len(node.Files) > 0
}

// Empty reports whether the node carries no attributes at all.
func (node *TreeNode) Empty() bool {
	return node.Cover == CoverNone && len(node.Files) == 0 && len(node.Folders) == 0
}

// Prune removes, bottom-up, every descendant whose subtree holds no tracks
// and reports whether the node itself remains playable. Surviving children
// are collected into a replacement map rather than deleted during iteration.
// Cover levels are never consulted and never cleared; an empty Folders map
// is dropped entirely so it is not serialized.
func (node *TreeNode) Prune() bool {
	playable := node.Playable()

	if node.Folders != nil {
		retainedFolders := make(map[string]*TreeNode)
		for folderName, folderNode := range node.Folders {
			if folderNode.Prune() {
				retainedFolders[folderName] = folderNode
				playable = true
			}
		}
		if len(retainedFolders) > 0 {
			node.Folders = retainedFolders
		} else {
			node.Folders = nil
		}
	}

	return playable
}
