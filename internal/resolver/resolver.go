// Package resolver turns url() tokens into filesystem paths anchored at the
// directory of the original source file recovered from a source map.
package resolver

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrUnresolved indicates the join strategy produced no usable path.
// This is a per-declaration soft failure: the caller leaves the token
// untouched and continues with the rest of the document.
var ErrUnresolved = errors.New("could not resolve url")

// JoinStrategy decides how a directory and a url path combine into the final
// resolved path. candidates holds the precomputed joins in preference order:
// the original directory first, then the project root when root probing is
// enabled. Custom strategies may ignore the candidates entirely and search
// on their own.
type JoinStrategy func(originalDir, urlPath string, candidates []string) (string, error)

// Context is the per-document resolution configuration, derived once from
// caller options and read-only afterwards
type Context struct {
	// Root is an optional synthetic project root, absolute when set
	Root string

	// IncludeRoot also joins url paths against Root
	IncludeRoot bool

	// KeepQuery preserves ?query/#fragment suffixes verbatim
	KeepQuery bool

	// Join picks the final path from the candidates; nil means DefaultJoin
	Join JoinStrategy
}

// ResolvedPath is the outcome of resolving one url token
type ResolvedPath struct {
	// Path is the resolved absolute filesystem path
	Path string

	// Suffix is the original ?query/#fragment suffix, empty unless the
	// context keeps queries
	Suffix string
}

// schemePattern matches URLs with a protocol scheme. Two or more leading
// characters so Windows drive letters don't match.
var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]+:`)

// Resolvable reports whether a url token is a candidate for rewriting.
// Absolute URLs (data:, http:), protocol-relative URLs (//cdn...), and
// already-absolute filesystem paths pass through untouched, which also
// makes repeated transforms of resolved output a no-op. So do tokens with
// no path part at all, like the SVG filter reference url(#blur): there is
// nothing to join, and joining the empty path would resolve to the
// original directory itself.
func Resolvable(token string) bool {
	if path, _ := SplitQuery(token); path == "" {
		return false
	}
	if strings.HasPrefix(token, "//") {
		return false
	}
	if schemePattern.MatchString(token) {
		return false
	}
	if filepath.IsAbs(token) {
		return false
	}
	return true
}

// SplitQuery splits a url token into its path part and any trailing query
// or fragment suffix
func SplitQuery(token string) (path, suffix string) {
	if i := strings.IndexAny(token, "?#"); i >= 0 {
		return token[:i], token[i:]
	}
	return token, ""
}

// Resolve computes the absolute path for a relative url token found in a
// declaration whose original source lived in originalDir. The token must
// already have passed Resolvable.
func Resolve(ctx Context, originalDir, token string) (ResolvedPath, error) {
	urlPath, suffix := SplitQuery(token)
	if !ctx.KeepQuery {
		suffix = ""
	}

	candidates := []string{filepath.Join(originalDir, urlPath)}
	if ctx.IncludeRoot && ctx.Root != "" {
		candidates = append(candidates, filepath.Join(ctx.Root, urlPath))
	}

	join := ctx.Join
	if join == nil {
		join = DefaultJoin
	}

	resolved, err := join(originalDir, urlPath, candidates)
	if err != nil {
		return ResolvedPath{}, fmt.Errorf("%w: %v", ErrUnresolved, err)
	}
	if resolved == "" {
		return ResolvedPath{}, fmt.Errorf("%w: join strategy returned no path for %q", ErrUnresolved, urlPath)
	}

	return ResolvedPath{Path: filepath.Clean(resolved), Suffix: suffix}, nil
}
