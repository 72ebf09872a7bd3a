package transform_test

import (
	"testing"

	"bennypowers.dev/cssremap/internal/diagnostics"
	"bennypowers.dev/cssremap/internal/resolver"
	"bennypowers.dev/cssremap/internal/sourcemap"
	"bennypowers.dev/cssremap/internal/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// indexAt11 maps everything at or after generated line 1, column 0 to
// /proj/src/style.scss
func indexAt11(t *testing.T) *sourcemap.Index {
	t.Helper()
	index, err := sourcemap.NewIndex(&sourcemap.RawMap{
		Version:  3,
		Sources:  []string{"/proj/src/style.scss"},
		Mappings: "AAAA",
	})
	require.NoError(t, err)
	return index
}

func newTransformer(t *testing.T) (*transform.Transformer, *diagnostics.Collector) {
	t.Helper()
	diags := diagnostics.NewCollector(false, false)
	return &transform.Transformer{
		Index: indexAt11(t),
		Diags: diags,
	}, diags
}

// TestValueRewritesRelativeURL tests the core rewrite: a relative asset
// path resolves against the original source directory
func TestValueRewritesRelativeURL(t *testing.T) {
	tr, diags := newTransformer(t)

	out := tr.Value("url(images/a.png)", sourcemap.Position{Line: 1, Column: 14})

	assert.Equal(t, "url(/proj/src/images/a.png)", out)
	assert.Empty(t, diags.All())
}

// TestValuePreservesQuotingStyle tests token-local rewriting: quotes and
// surrounding text survive byte for byte
func TestValuePreservesQuotingStyle(t *testing.T) {
	tr, _ := newTransformer(t)

	out := tr.Value(`no-repeat url( "images/a.png" ) center`, sourcemap.Position{Line: 1, Column: 14})

	assert.Equal(t, `no-repeat url( "/proj/src/images/a.png" ) center`, out)
}

// TestValueRewritesMultipleTokens tests multiple url() tokens in one value
func TestValueRewritesMultipleTokens(t *testing.T) {
	tr, _ := newTransformer(t)

	out := tr.Value("url(a.png), url('b.png')", sourcemap.Position{Line: 1, Column: 14})

	assert.Equal(t, "url(/proj/src/a.png), url('/proj/src/b.png')", out)
}

// TestValueLeavesAbsoluteURLs tests the passthrough rule for scheme'd and
// absolute tokens, which also guarantees idempotence
func TestValueLeavesAbsoluteURLs(t *testing.T) {
	tr, diags := newTransformer(t)

	values := []string{
		"url(data:image/png;base64,AAAA)",
		"url(http://cdn.example.com/x.png)",
		"url(//cdn.example.com/x.png)",
		"url(/proj/src/images/a.png)",
	}
	for _, value := range values {
		assert.Equal(t, value, tr.Value(value, sourcemap.Position{Line: 1, Column: 0}))
	}
	assert.Empty(t, diags.All(), "passthrough raises no diagnostics")
}

// TestValueLeavesFragmentOnlyURLs tests that tokens with no path part,
// like SVG filter references, are never rewritten even when mapped
func TestValueLeavesFragmentOnlyURLs(t *testing.T) {
	tr, diags := newTransformer(t)

	values := []string{
		"url(#blur)",
		"url(?v=1)",
		`filter: url("#blur")`,
	}
	for _, value := range values {
		assert.Equal(t, value, tr.Value(value, sourcemap.Position{Line: 1, Column: 14}))
	}
	assert.Empty(t, diags.All(), "nothing to resolve, nothing reported")
}

// TestValueWithoutIndexPassesThrough tests the no-source-map case: nothing
// to resolve, nothing reported
func TestValueWithoutIndexPassesThrough(t *testing.T) {
	diags := diagnostics.NewCollector(false, false)
	tr := &transform.Transformer{Diags: diags}

	value := "url(images/a.png)"
	assert.Equal(t, value, tr.Value(value, sourcemap.Position{Line: 1, Column: 0}))
	assert.Empty(t, diags.All())
}

// TestValueUnmappedPosition tests the soft failure when a map exists but
// lacks coverage for the position
func TestValueUnmappedPosition(t *testing.T) {
	diags := diagnostics.NewCollector(false, false)
	index, err := sourcemap.NewIndex(&sourcemap.RawMap{
		Version:  3,
		Sources:  []string{"/proj/src/style.scss"},
		Mappings: ";;AAAA", // first entry on line 3
	})
	require.NoError(t, err)
	tr := &transform.Transformer{Index: index, Diags: diags}

	value := "url(images/a.png)"
	out := tr.Value(value, sourcemap.Position{Line: 1, Column: 14})

	assert.Equal(t, value, out, "unmappable tokens are left unmodified")
	require.Len(t, diags.All(), 1)
	assert.Equal(t, "no source map entry for url()", diags.All()[0].Label)
}

// TestValueKeepQuery tests query suffix handling through the resolver context
func TestValueKeepQuery(t *testing.T) {
	tr, _ := newTransformer(t)
	tr.Context = resolver.Context{KeepQuery: true}

	out := tr.Value("url(fonts/a.woff2?v=3#iefix)", sourcemap.Position{Line: 1, Column: 14})
	assert.Equal(t, "url(/proj/src/fonts/a.woff2?v=3#iefix)", out)

	tr.Context = resolver.Context{}
	out = tr.Value("url(fonts/a.woff2?v=3#iefix)", sourcemap.Position{Line: 1, Column: 14})
	assert.Equal(t, "url(/proj/src/fonts/a.woff2)", out, "suffix is stripped by default")
}

// TestValueEmitsRelative tests the emitter seam used for relative output
func TestValueEmitsRelative(t *testing.T) {
	tr, _ := newTransformer(t)
	tr.Emit = func(abs string) string { return "rel:" + abs }

	out := tr.Value("url(a.png)", sourcemap.Position{Line: 1, Column: 14})
	assert.Equal(t, "url(rel:/proj/src/a.png)", out)
}

// TestValueMultilineDeclaration tests position arithmetic across newlines
// inside one declaration value
func TestValueMultilineDeclaration(t *testing.T) {
	diags := diagnostics.NewCollector(false, false)
	index, err := sourcemap.NewIndex(&sourcemap.RawMap{
		Version:  3,
		Sources:  []string{"/proj/src/style.scss"},
		Mappings: ";AAAA", // coverage starts on line 2
	})
	require.NoError(t, err)
	tr := &transform.Transformer{Index: index, Diags: diags}

	// The second line's token is mapped; the first line's is not
	out := tr.Value("url(a.png),\n  url(b.png)", sourcemap.Position{Line: 1, Column: 14})

	assert.Contains(t, out, "url(a.png)", "line 1 has no mapping and stays put")
	assert.Contains(t, out, "url(/proj/src/b.png)", "line 2 resolves")
	require.Len(t, diags.All(), 1)
}
