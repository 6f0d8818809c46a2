package library

import (
	"testing"
)

// TestPruneRemovesCoverOnlyFolders verifies folders holding only cover art are dropped.
func TestPruneRemovesCoverOnlyFolders(testingHandle *testing.T) {
	rootNode := &TreeNode{
		Folders: map[string]*TreeNode{
			"Artwork Only": {Cover: CoverFront},
			"Album":        {Files: []string{"01 Song"}},
		},
	}

	if !rootNode.Prune() {
		testingHandle.Fatalf("expected root to remain playable")
	}
	if _, retained := rootNode.Folders["Artwork Only"]; retained {
		testingHandle.Fatalf("cover-only folder survived pruning")
	}
	if _, retained := rootNode.Folders["Album"]; !retained {
		testingHandle.Fatalf("playable folder was pruned")
	}
}

// TestPruneKeepsAncestorChain verifies empty intermediate folders survive when a descendant is playable.
func TestPruneKeepsAncestorChain(testingHandle *testing.T) {
	leafNode := &TreeNode{Files: []string{"02 Song"}}
	intermediateNode := &TreeNode{Folders: map[string]*TreeNode{"Disc 1": leafNode}}
	rootNode := &TreeNode{Folders: map[string]*TreeNode{"Box Set": intermediateNode}}

	if !rootNode.Prune() {
		testingHandle.Fatalf("expected root to remain playable")
	}
	retainedIntermediate, retained := rootNode.Folders["Box Set"]
	if !retained {
		testingHandle.Fatalf("intermediate folder was pruned despite playable descendant")
	}
	if _, retained := retainedIntermediate.Folders["Disc 1"]; !retained {
		testingHandle.Fatalf("leaf folder was pruned")
	}
}

// TestPruneDropsEmptyFoldersMap verifies the Folders attribute disappears when all children are removed.
func TestPruneDropsEmptyFoldersMap(testingHandle *testing.T) {
	rootNode := &TreeNode{
		Files: []string{"01 Song"},
		Folders: map[string]*TreeNode{
			"Empty":   {},
			"Artwork": {Cover: CoverFrontAndBack},
		},
	}

	if !rootNode.Prune() {
		testingHandle.Fatalf("expected root to remain playable")
	}
	if rootNode.Folders != nil {
		testingHandle.Fatalf("expected Folders to be removed, got %v", rootNode.Folders)
	}
}

// TestPruneUnplayableRootKeepsCover verifies pruning never clears cover levels,
// including on a root that ends up without playable content.
func TestPruneUnplayableRootKeepsCover(testingHandle *testing.T) {
	rootNode := &TreeNode{
		Cover:   CoverFront,
		Folders: map[string]*TreeNode{"Artwork": {Cover: CoverFront}},
	}

	if rootNode.Prune() {
		testingHandle.Fatalf("expected root to be unplayable")
	}
	if rootNode.Cover != CoverFront {
		testingHandle.Fatalf("cover level changed during pruning: %d", rootNode.Cover)
	}
	if rootNode.Folders != nil {
		testingHandle.Fatalf("unplayable children survived pruning")
	}
}
