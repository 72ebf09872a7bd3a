package engine

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"

	"bennypowers.dev/cssremap/internal/sourcemap"
)

// TreeSitter is the default engine. It parses the document with
// tree-sitter-css and visits every declaration node.
type TreeSitter struct {
	parser *sitter.Parser
}

// NewTreeSitter creates a tree-sitter backed CSS engine
func NewTreeSitter() *TreeSitter {
	parser := sitter.NewParser()
	lang := sitter.NewLanguage(tree_sitter_css.Language())
	parser.SetLanguage(lang)

	return &TreeSitter{
		parser: parser,
	}
}

// Name returns the engine name
func (e *TreeSitter) Name() string { return "treesitter" }

// edit is a byte-range replacement collected during the tree walk
type edit struct {
	start, end uint
	text       string
}

// Process parses the document and rewrites each declaration value through fn
func (e *TreeSitter) Process(source string, fn DeclarationFunc) (string, error) {
	tree := e.parser.Parse([]byte(source), nil)
	if tree == nil {
		return "", fmt.Errorf("failed to parse CSS")
	}
	defer tree.Close()

	var edits []edit
	walkTree(tree.RootNode(), []byte(source), fn, &edits)

	if len(edits) == 0 {
		return source, nil
	}

	// Edits arrive in document order and never overlap
	var b strings.Builder
	last := uint(0)
	for _, ed := range edits {
		b.WriteString(source[last:ed.start])
		b.WriteString(ed.text)
		last = ed.end
	}
	b.WriteString(source[last:])
	return b.String(), nil
}

// walkTree recursively walks the tree to find declaration nodes
func walkTree(node *sitter.Node, source []byte, fn DeclarationFunc, edits *[]edit) {
	if node == nil {
		return
	}

	if node.Kind() == "declaration" {
		handleDeclaration(node, source, fn, edits)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walkTree(node.Child(i), source, fn, edits)
	}
}

// handleDeclaration extracts the value span after the ':' and feeds it to fn
func handleDeclaration(node *sitter.Node, source []byte, fn DeclarationFunc, edits *[]edit) {
	var start, end uint
	var startPoint sitter.Point
	seenColon := false
	found := false

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		kind := child.Kind()
		if !seenColon {
			if kind == ":" {
				seenColon = true
			}
			continue
		}
		if kind == ";" {
			break
		}
		if !found {
			start = child.StartByte()
			startPoint = child.StartPosition()
			found = true
		}
		end = child.EndByte()
	}

	if !found || end <= start {
		return
	}

	value := string(source[start:end])
	pos := sourcemap.Position{
		Line:   int(startPoint.Row) + 1,
		Column: int(startPoint.Column),
	}

	if rewritten := fn(value, pos); rewritten != value {
		*edits = append(*edits, edit{start: start, end: end, text: rewritten})
	}
}
