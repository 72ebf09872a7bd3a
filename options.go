package cssremap

import (
	"fmt"
	"os"

	"bennypowers.dev/cssremap/internal/engine"
	"bennypowers.dev/cssremap/internal/resolver"
)

// Options configures one document transform. The zero value processes with
// the default engine, the default join strategy and relative path emission.
type Options struct {
	// From is the absolute path of the CSS file being processed. Resolved
	// paths are emitted relative to its directory unless Absolute is set,
	// and the output map's sources are expressed relative to it. Required
	// whenever a source map is supplied.
	From string

	// Absolute emits resolved paths as absolute filesystem paths
	Absolute bool

	// SourceMap requests an adjusted output source map
	SourceMap bool

	// Engine names the CSS processing backend:
	// "treesitter" (the default) or "lexer"
	Engine string

	// Fail escalates per-declaration resolution failures to error severity
	Fail bool

	// Silent suppresses per-declaration failure reporting entirely.
	// Ignored when Fail is set.
	Silent bool

	// KeepQuery preserves ?query and #fragment suffixes on rewritten urls
	KeepQuery bool

	// Join overrides the strategy that picks the final path from the
	// computed candidates. Defaults to resolver.DefaultJoin, which trusts
	// the naive join without requiring the file to exist.
	Join resolver.JoinStrategy

	// Root is an optional synthetic project root. Must be an existing
	// directory when set; validated before any processing begins.
	Root string

	// IncludeRoot also joins url paths against Root when resolving
	IncludeRoot bool

	// Attempts is a deprecated retry count retained for configuration
	// compatibility. It is ignored, and combining it with a custom Join
	// is a fatal misconfiguration.
	Attempts int
}

// validate checks the fatal misconfiguration class before any processing.
// hasMap reports whether an input source map was supplied.
func (o *Options) validate(hasMap bool) error {
	if o.Join != nil && o.Attempts != 0 {
		return fmt.Errorf("%w: attempts cannot be combined with a custom join strategy", ErrJoinConflict)
	}
	if _, err := engine.New(o.Engine); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidEngine, o.Engine)
	}
	if o.Root != "" {
		info, err := os.Stat(o.Root)
		if err != nil {
			return NewInvalidRootError(o.Root, err.Error())
		}
		if !info.IsDir() {
			return NewInvalidRootError(o.Root, "not a directory")
		}
	}
	if hasMap && o.From == "" {
		return fmt.Errorf("%w: the From option must name the css file being processed", ErrMissingFrom)
	}
	return nil
}
