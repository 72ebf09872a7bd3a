// Package transform rewrites url() tokens inside CSS declaration values.
// The scanner is independent of the CSS engine in use; engines only supply
// value text and positions.
package transform

import (
	"path/filepath"
	"regexp"
	"strings"

	"bennypowers.dev/cssremap/internal/diagnostics"
	"bennypowers.dev/cssremap/internal/resolver"
	"bennypowers.dev/cssremap/internal/sourcemap"
)

// urlPattern matches url(...) tokens, quoted or unquoted, whitespace
// tolerant. Group 1: double-quoted, group 2: single-quoted, group 3: bare.
var urlPattern = regexp.MustCompile(`(?i)url\(\s*(?:"([^"]*)"|'([^']*)'|([^'")][^)]*?))\s*\)`)

// Emitter converts a resolved absolute path into its final emitted form,
// typically relative to the output CSS location. Identity when emitting
// absolute paths.
type Emitter func(abs string) string

// Transformer rewrites url() tokens in declaration values using original
// locations recovered from a source map index. A nil Index means the
// document has no source map; values then pass through untouched and no
// diagnostics are raised.
type Transformer struct {
	Index   *sourcemap.Index
	Context resolver.Context
	Emit    Emitter
	Diags   *diagnostics.Collector
}

// Value rewrites every url() token in one declaration value. start is the
// position of the value's first character in the generated document.
// Rewriting is token-local: quoting style, whitespace and all surrounding
// text are preserved byte for byte.
func (t *Transformer) Value(value string, start sourcemap.Position) string {
	if t.Index == nil {
		return value
	}

	matches := urlPattern.FindAllStringSubmatchIndex(value, -1)
	if len(matches) == 0 {
		return value
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		tokStart, tokEnd := tokenSpan(m)
		token := value[tokStart:tokEnd]
		replacement, ok := t.rewrite(token, advance(start, value[:tokStart]))
		if !ok {
			continue
		}
		b.WriteString(value[last:tokStart])
		b.WriteString(replacement)
		last = tokEnd
	}
	b.WriteString(value[last:])
	return b.String()
}

// rewrite resolves one url token. ok is false when the token must be left
// untouched.
func (t *Transformer) rewrite(token string, pos sourcemap.Position) (string, bool) {
	if !resolver.Resolvable(token) {
		return "", false
	}

	loc, ok := t.Index.Locate(pos)
	if !ok {
		t.Diags.Add("no source map entry for url()", token, pos)
		return "", false
	}
	if !filepath.IsAbs(loc.File) {
		t.Diags.Add("original source is not a file path", loc.File, pos)
		return "", false
	}

	resolved, err := resolver.Resolve(t.Context, filepath.Dir(loc.File), token)
	if err != nil {
		t.Diags.Add("cannot resolve url()", err.Error(), pos)
		return "", false
	}

	out := resolved.Path
	if t.Emit != nil {
		out = t.Emit(out)
	}
	return out + resolved.Suffix, true
}

// tokenSpan picks the bounds of whichever alternative matched
func tokenSpan(m []int) (int, int) {
	for g := 1; g <= 3; g++ {
		if m[2*g] >= 0 {
			return m[2*g], m[2*g+1]
		}
	}
	return m[0], m[1]
}

// advance moves start across prefix, accounting for newlines inside
// multi-line declaration values
func advance(start sourcemap.Position, prefix string) sourcemap.Position {
	lines := strings.Count(prefix, "\n")
	if lines == 0 {
		return sourcemap.Position{Line: start.Line, Column: start.Column + len(prefix)}
	}
	last := strings.LastIndexByte(prefix, '\n')
	return sourcemap.Position{Line: start.Line + lines, Column: len(prefix) - last - 1}
}
