package engine

import (
	"bytes"
	"io"
	"sort"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"bennypowers.dev/cssremap/internal/sourcemap"
)

// Lexer is a lighter engine backed by the tdewolff CSS tokenizer. It feeds
// each url() token through fn individually rather than whole declaration
// values, which is sufficient for token-local rewriting. Url tokens inside
// at-rule preludes (@import, @supports conditions) are copied through
// untouched, matching the declaration-only scope of the default engine.
type Lexer struct{}

// NewLexer creates a tokenizer-backed CSS engine
func NewLexer() *Lexer { return &Lexer{} }

// Name returns the engine name
func (e *Lexer) Name() string { return "lexer" }

// Process streams the document token by token, rewriting url() tokens
// in place and copying everything else through unchanged
func (e *Lexer) Process(source string, fn DeclarationFunc) (string, error) {
	lexer := css.NewLexer(parse.NewInput(bytes.NewBufferString(source)))
	lineStarts := computeLineStarts(source)

	var b strings.Builder
	offset := 0
	// An at-keyword opens a prelude that runs to the next ';' or '{'
	inPrelude := false
	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			if err := lexer.Err(); err != nil && err != io.EOF {
				return "", err
			}
			break
		}

		text := string(data)
		switch {
		case tt == css.AtKeywordToken:
			inPrelude = true
			b.WriteString(text)
		case tt == css.SemicolonToken || tt == css.LeftBraceToken:
			inPrelude = false
			b.WriteString(text)
		case tt == css.URLToken && !inPrelude:
			b.WriteString(fn(text, positionAt(offset, lineStarts)))
		case tt == css.FunctionToken && !inPrelude && strings.EqualFold(text, "url("):
			// quoted urls tokenize as url( followed by a string token
			group, consumed, err := collectFunction(lexer)
			if err != nil {
				return "", err
			}
			b.WriteString(fn(text+group, positionAt(offset, lineStarts)))
			offset += consumed
		default:
			b.WriteString(text)
		}
		offset += len(text)
	}
	return b.String(), nil
}

// collectFunction gathers tokens up to and including the closing parenthesis
func collectFunction(lexer *css.Lexer) (string, int, error) {
	var b strings.Builder
	consumed := 0
	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			if err := lexer.Err(); err != nil && err != io.EOF {
				return "", 0, err
			}
			break
		}
		b.WriteString(string(data))
		consumed += len(data)
		if tt == css.RightParenthesisToken {
			break
		}
	}
	return b.String(), consumed, nil
}

// computeLineStarts returns the byte offsets where each line starts
func computeLineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// positionAt converts a byte offset to a 1-based line, 0-based column position
func positionAt(offset int, lineStarts []int) sourcemap.Position {
	line := sort.Search(len(lineStarts), func(i int) bool {
		return lineStarts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	return sourcemap.Position{Line: line + 1, Column: offset - lineStarts[line]}
}
