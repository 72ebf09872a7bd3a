// Package engine provides the pluggable CSS processing backends that
// discover declaration values and their positions in a document.
package engine

import (
	"errors"
	"fmt"

	"bennypowers.dev/cssremap/internal/sourcemap"
)

// DeclarationFunc is invoked once per discovered declaration value with the
// value text and the position of its first character in the document.
// It returns the possibly-rewritten value text.
type DeclarationFunc func(value string, start sourcemap.Position) string

// Engine runs once over a whole document, feeding declaration values
// through fn and splicing the returned text back in place. Everything
// outside declaration values is preserved byte for byte.
type Engine interface {
	Name() string
	Process(source string, fn DeclarationFunc) (string, error)
}

// ErrUnknownEngine indicates an engine name with no registered backend
var ErrUnknownEngine = errors.New("unknown css engine")

// New selects an engine by name.
// The empty string selects the default tree-sitter engine.
func New(name string) (Engine, error) {
	switch name {
	case "", "treesitter":
		return NewTreeSitter(), nil
	case "lexer":
		return NewLexer(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
}
