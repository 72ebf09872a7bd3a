package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadConfigJSONC tests that config JSON may carry comments and
// trailing commas
func TestLoadConfigJSONC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cssremap.config.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{
  // keep asset cache busters
  "keepQuery": true,
  "engine": "lexer",
}`), 0644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.KeepQuery)
	assert.Equal(t, "lexer", cfg.Engine)
}

// TestLoadConfigYAML tests the yaml config form
func TestLoadConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".cssremap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`sourceMap: true
root: /proj
includeRoot: true
`), 0644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.SourceMap)
	assert.Equal(t, "/proj", cfg.Root)
	assert.True(t, cfg.IncludeRoot)
}

// TestLoadConfigMissingFile tests that a named but absent config errors,
// while no config at all falls back to defaults
func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

// TestConfigOptions tests the conversion to processing options
func TestConfigOptions(t *testing.T) {
	cfg := &Config{KeepQuery: true, Engine: "lexer", Root: "/proj"}

	opts := cfg.options("/proj/out/styles.css")

	assert.Equal(t, "/proj/out/styles.css", opts.From)
	assert.True(t, opts.KeepQuery)
	assert.Equal(t, "lexer", opts.Engine)
	assert.Equal(t, "/proj", opts.Root)
}
