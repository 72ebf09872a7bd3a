package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"bennypowers.dev/cssremap"
)

// Config mirrors the processing options in file form, plus CLI-only
// output behavior
type Config struct {
	Absolute    bool   `json:"absolute" yaml:"absolute"`
	SourceMap   bool   `json:"sourceMap" yaml:"sourceMap"`
	Engine      string `json:"engine" yaml:"engine"`
	Fail        bool   `json:"fail" yaml:"fail"`
	Silent      bool   `json:"silent" yaml:"silent"`
	KeepQuery   bool   `json:"keepQuery" yaml:"keepQuery"`
	Root        string `json:"root" yaml:"root"`
	IncludeRoot bool   `json:"includeRoot" yaml:"includeRoot"`
	Attempts    int    `json:"attempts" yaml:"attempts"`
	Write       bool   `json:"write" yaml:"write"`
}

// configNames are searched in the working directory when --config is not given
var configNames = []string{
	"cssremap.config.json",
	"cssremap.config.jsonc",
	".cssremap.yaml",
	".cssremap.yml",
}

// loadConfig reads the named config file, or discovers one in the working
// directory. A missing config is not an error; defaults apply.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		for _, name := range configNames {
			if _, err := os.Stat(name); err == nil {
				path = name
				break
			}
		}
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		// json and jsonc; comments and trailing commas are tolerated
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	return cfg, nil
}

// applyFlags overlays explicitly-set command line flags onto the config
func applyFlags(cmd *cobra.Command, cfg *Config) {
	flags := cmd.Flags()
	if flags.Changed("absolute") {
		cfg.Absolute = flagAbsolute
	}
	if flags.Changed("source-map") {
		cfg.SourceMap = flagSourceMap
	}
	if flags.Changed("engine") {
		cfg.Engine = flagEngine
	}
	if flags.Changed("fail") {
		cfg.Fail = flagFail
	}
	if flags.Changed("silent") {
		cfg.Silent = flagSilent
	}
	if flags.Changed("keep-query") {
		cfg.KeepQuery = flagKeepQuery
	}
	if flags.Changed("root") {
		cfg.Root = flagRoot
	}
	if flags.Changed("include-root") {
		cfg.IncludeRoot = flagIncludeRoot
	}
	if flags.Changed("write") {
		cfg.Write = flagWrite
	}
}

// options converts the config to processing options for one file
func (c *Config) options(from string) cssremap.Options {
	return cssremap.Options{
		From:        from,
		Absolute:    c.Absolute,
		SourceMap:   c.SourceMap,
		Engine:      c.Engine,
		Fail:        c.Fail,
		Silent:      c.Silent,
		KeepQuery:   c.KeepQuery,
		Root:        c.Root,
		IncludeRoot: c.IncludeRoot,
		Attempts:    c.Attempts,
	}
}
