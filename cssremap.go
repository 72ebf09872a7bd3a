// Package cssremap rewrites url() references in compiled CSS so that asset
// paths written relative to the original source files (scss, sass, less)
// remain correct after compilation. The input source map recovers the
// original directory of every declaration; url paths are re-resolved
// against it and re-emitted relative to the output location.
package cssremap

import (
	"path/filepath"

	"bennypowers.dev/cssremap/internal/diagnostics"
	"bennypowers.dev/cssremap/internal/engine"
	"bennypowers.dev/cssremap/internal/log"
	"bennypowers.dev/cssremap/internal/resolver"
	"bennypowers.dev/cssremap/internal/sourcemap"
	"bennypowers.dev/cssremap/internal/transform"
)

// Result of one document transform
type Result struct {
	// Content is the rewritten CSS text. On any failure it is the original
	// input unchanged; the input is always a safe fallback output.
	Content string

	// Map is the adjusted output source map, present only when
	// Options.SourceMap is set and an input map was supplied. Its sources
	// are expressed relative to the file being processed.
	Map *sourcemap.RawMap

	// Diagnostics are the soft failures encountered, ordered by position
	Diagnostics []diagnostics.Diagnostic
}

// Process rewrites url() references in content. srcMap may be nil (nothing
// to resolve), a JSON string, raw bytes, or a *sourcemap.RawMap.
//
// Fatal failures (misconfiguration, unparseable source map) return the
// original content together with an error. Per-declaration and engine
// failures are soft: processing continues or falls back to the original
// content, and the failures surface as Result.Diagnostics.
//
// Process is a stateless function of its inputs; concurrent calls for
// different documents share nothing.
func Process(content string, srcMap any, opts Options) (*Result, error) {
	fallback := &Result{Content: content}

	raw, err := sourcemap.Parse(srcMap)
	if err != nil {
		return fallback, err
	}
	if err := opts.validate(raw != nil); err != nil {
		return fallback, err
	}
	if opts.Attempts != 0 && opts.Join == nil {
		log.Warn("the attempts option is deprecated and ignored")
	}

	// No source map: nothing to resolve, content passes through untouched
	if raw == nil {
		return &Result{Content: content}, nil
	}

	normalized := raw.Clone()
	normalized.NormalizeSources(filepath.Dir(opts.From))
	index, err := sourcemap.NewIndex(normalized)
	if err != nil {
		return fallback, err
	}

	eng, err := engine.New(opts.Engine)
	if err != nil {
		return fallback, err
	}

	return run(content, normalized, index, eng, opts), nil
}

// run executes one engine pass over the document. Past this point nothing
// is fatal: an engine failure falls back to the untouched input with a
// diagnostic, per-declaration failures are collected as the transformer
// encounters them.
func run(content string, normalized *sourcemap.RawMap, index *sourcemap.Index, eng engine.Engine, opts Options) *Result {
	fromDir := filepath.Dir(opts.From)

	emit := func(abs string) string { return abs }
	if !opts.Absolute {
		emit = func(abs string) string {
			rel, err := filepath.Rel(fromDir, abs)
			if err != nil {
				return abs
			}
			return filepath.ToSlash(rel)
		}
	}

	diags := diagnostics.NewCollector(opts.Fail, opts.Silent)
	tr := &transform.Transformer{
		Index: index,
		Context: resolver.Context{
			Root:        opts.Root,
			IncludeRoot: opts.IncludeRoot,
			KeepQuery:   opts.KeepQuery,
			Join:        opts.Join,
		},
		Emit:  emit,
		Diags: diags,
	}

	rewritten, err := eng.Process(content, tr.Value)
	if err != nil {
		// Engine failure is soft at the document level: fall back to the
		// untouched input and report.
		diags.Add("css engine failed", err.Error(), sourcemap.Position{Line: 1})
		diags.Report()
		return &Result{Content: content, Diagnostics: diags.All()}
	}

	diags.Report()

	result := &Result{Content: rewritten, Diagnostics: diags.All()}
	if opts.SourceMap {
		result.Map = normalized.Relativize(opts.From)
	}
	log.Debug("processed %s with engine %s, %d diagnostics", opts.From, eng.Name(), len(result.Diagnostics))
	return result
}
