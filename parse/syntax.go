package parse

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// VerifySyntax parses the Java source with a real Java grammar and reports
// the first syntax error it finds. The regex model builders tolerate a lot
// of malformed input silently, so this runs first when --check_syntax is
// set.
func VerifySyntax(ctx context.Context, source []byte) error {
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return err
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}
	bad := findFirstErrorNode(root)
	if bad == nil {
		// HasError was set but no concrete node carries it; still refuse to
		// generate from a source the grammar rejects.
		return newParseError("java source contains a syntax error")
	}
	row := int(bad.StartPoint().Row)
	lines := strings.Split(string(source), "\n")
	var contextLines []string
	if row < len(lines) {
		contextLines = append(contextLines, lines[row])
	}
	if row+1 < len(lines) {
		contextLines = append(contextLines, lines[row+1])
	}
	return newParseError(
		fmt.Sprintf("java syntax error at line %d (%s)", row+1, bad.Type()),
		contextLines...)
}

func findFirstErrorNode(node *sitter.Node) *sitter.Node {
	if node.Type() == "ERROR" || node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil || !child.HasError() {
			continue
		}
		if found := findFirstErrorNode(child); found != nil {
			return found
		}
	}
	return nil
}
