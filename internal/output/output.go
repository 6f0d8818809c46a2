// Package output renders collected data into its final textual forms.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/msinz/muse/internal/library"
)

const (
	// scriptAttributionLine is the fixed comment opening the generated script.
	scriptAttributionLine = "// Simple Web Audio Player - music library index"
	// scriptDeclarationPrefix assigns the tree literal to the value the player loads.
	scriptDeclarationPrefix = "const mp3 = "
	// scriptStatementSuffix terminates the generated assignment.
	scriptStatementSuffix = ";"

	// objectSeparatorToken is the compact token after which a cosmetic line
	// break is inserted to keep generated lines short.
	objectSeparatorToken = "},"

	// errorEncodeTreeFormat reports a failure to encode the library tree.
	errorEncodeTreeFormat = "encoding library tree: %w"
)

// RenderLibraryScript renders the pruned library tree as a complete
// JavaScript artifact: a fixed attribution comment, a blank line, and the
// assignment of the compact tree literal.
//
// The literal is deterministic: attribute labels and folder names appear in
// strictly lexicographic order at every nesting level, and two runs over an
// unchanged filesystem produce byte-identical output. Non-ASCII characters
// in names are preserved literally. A newline follows every "}," token as a
// purely cosmetic post-process.
func RenderLibraryScript(rootNode *library.TreeNode) (string, error) {
	treeLiteral, encodeError := encodeCompactTree(rootNode)
	if encodeError != nil {
		return "", encodeError
	}

	var artifact strings.Builder
	artifact.WriteString(scriptAttributionLine + "\n\n")
	artifact.WriteString(scriptDeclarationPrefix)
	artifact.WriteString(insertSeparatorLineBreaks(treeLiteral))
	artifact.WriteString(scriptStatementSuffix)
	return artifact.String(), nil
}

// encodeCompactTree marshals the tree with minimal separators, sorted keys,
// and HTML escaping disabled so names survive verbatim.
func encodeCompactTree(rootNode *library.TreeNode) (string, error) {
	var encoded bytes.Buffer
	encoder := json.NewEncoder(&encoded)
	encoder.SetEscapeHTML(false)
	if encodeError := encoder.Encode(rootNode); encodeError != nil {
		return "", fmt.Errorf(errorEncodeTreeFormat, encodeError)
	}
	return strings.TrimSuffix(encoded.String(), "\n"), nil
}

// insertSeparatorLineBreaks applies the cosmetic line-length control on the
// compact literal. It is a literal token substitution, not part of the
// structural encoding.
func insertSeparatorLineBreaks(compactLiteral string) string {
	return strings.ReplaceAll(compactLiteral, objectSeparatorToken, objectSeparatorToken+"\n")
}
