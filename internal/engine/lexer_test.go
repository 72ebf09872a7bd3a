package engine_test

import (
	"strings"
	"testing"

	"bennypowers.dev/cssremap/internal/engine"
	"bennypowers.dev/cssremap/internal/sourcemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLexerFindsUnquotedURL tests url token discovery with positions
func TestLexerFindsUnquotedURL(t *testing.T) {
	css := `a {
  background: url(img/x.png);
}`

	var visited []seen
	eng := engine.NewLexer()
	out, err := eng.Process(css, collect(&visited))
	require.NoError(t, err)

	assert.Equal(t, css, out, "an identity callback leaves the document untouched")
	require.Len(t, visited, 1)
	assert.Equal(t, "url(img/x.png)", visited[0].value)
	assert.Equal(t, 2, visited[0].pos.Line)
	assert.Equal(t, 14, visited[0].pos.Column)
}

// TestLexerFindsQuotedURL tests that url( string ) token runs are handed to
// the callback as one unit
func TestLexerFindsQuotedURL(t *testing.T) {
	css := `a { background: url("img/x.png"); }`

	var visited []seen
	eng := engine.NewLexer()
	out, err := eng.Process(css, collect(&visited))
	require.NoError(t, err)

	assert.Equal(t, css, out)
	require.Len(t, visited, 1)
	assert.Equal(t, `url("img/x.png")`, visited[0].value)
	assert.Equal(t, 1, visited[0].pos.Line)
	assert.Equal(t, 16, visited[0].pos.Column)
}

// TestLexerSkipsAtRulePreludes tests that @import targets and other at-rule
// prelude urls are not treated as declaration values
func TestLexerSkipsAtRulePreludes(t *testing.T) {
	css := `@import url(base.css);
@media screen {
  a { background: url(img/x.png); }
}`

	var visited []seen
	eng := engine.NewLexer()
	out, err := eng.Process(css, collect(&visited))
	require.NoError(t, err)

	assert.Equal(t, css, out)
	require.Len(t, visited, 1, "only the declaration url is visited")
	assert.Equal(t, "url(img/x.png)", visited[0].value)
	assert.Equal(t, 3, visited[0].pos.Line)

	out, err = eng.Process(css, func(value string, start sourcemap.Position) string {
		return strings.ReplaceAll(value, "img/x.png", "/abs/img/x.png")
	})
	require.NoError(t, err)
	assert.Contains(t, out, "url(base.css)", "the import target stays put")
	assert.Contains(t, out, "url(/abs/img/x.png)")
}

// TestLexerSplicesRewrites tests byte preservation outside rewritten tokens
func TestLexerSplicesRewrites(t *testing.T) {
	css := `/* banner */
a { color: red; background: url(img/x.png) no-repeat; }`

	eng := engine.NewLexer()
	out, err := eng.Process(css, func(value string, start sourcemap.Position) string {
		return strings.ReplaceAll(value, "img/x.png", "/abs/img/x.png")
	})
	require.NoError(t, err)

	assert.Contains(t, out, "url(/abs/img/x.png) no-repeat")
	assert.Contains(t, out, "/* banner */")
	assert.Contains(t, out, "color: red;")
}
