package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"bennypowers.dev/cssremap"
	"bennypowers.dev/cssremap/internal/collections"
	"bennypowers.dev/cssremap/internal/log"
)

var (
	flagAbsolute    bool
	flagSourceMap   bool
	flagEngine      string
	flagFail        bool
	flagSilent      bool
	flagKeepQuery   bool
	flagRoot        string
	flagIncludeRoot bool
	flagWrite       bool
	flagConfig      string
	flagVerbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "cssremap [glob...]",
	Short: "Rewrite url() asset paths in compiled CSS using source maps",
	Long: `cssremap rewrites url(...) references in compiled CSS so that asset paths
written relative to the original sources (scss, sass, less) stay correct
after compilation. Each CSS file's sibling .map file supplies the original
location of every declaration.`,
	Args:         cobra.MinimumNArgs(1),
	RunE:         run,
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().BoolVar(&flagAbsolute, "absolute", false, "Emit resolved paths as absolute filesystem paths")
	rootCmd.Flags().BoolVar(&flagSourceMap, "source-map", false, "Write an adjusted output source map next to each file")
	rootCmd.Flags().StringVar(&flagEngine, "engine", "", `CSS engine: "treesitter" (default) or "lexer"`)
	rootCmd.Flags().BoolVar(&flagFail, "fail", false, "Escalate resolution failures to errors")
	rootCmd.Flags().BoolVar(&flagSilent, "silent", false, "Suppress resolution failure warnings")
	rootCmd.Flags().BoolVar(&flagKeepQuery, "keep-query", false, "Preserve ?query and #fragment suffixes on rewritten urls")
	rootCmd.Flags().StringVar(&flagRoot, "root", "", "Project root directory, probed in addition to the original directory")
	rootCmd.Flags().BoolVar(&flagIncludeRoot, "include-root", false, "Also join url paths against --root")
	rootCmd.Flags().BoolVarP(&flagWrite, "write", "w", false, "Rewrite files in place instead of printing to stdout")
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "Config file (json, jsonc or yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func run(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		log.SetLevel(log.LevelDebug)
	}

	cfg, err := loadConfig(flagConfig)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	// Patterns may overlap; process each file once
	files := collections.NewSet[string]()
	for _, pattern := range args {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return fmt.Errorf("bad glob %q: %w", pattern, err)
		}
		files.Add(matches...)
	}

	names := files.Members()
	sort.Strings(names)
	if len(names) == 0 {
		log.Warn("no files matched")
		return nil
	}

	failed := 0
	for _, name := range names {
		if err := processFile(name, cfg); err != nil {
			log.Error("%s: %v", name, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(names))
	}
	return nil
}

// processFile transforms one CSS file, loading its sibling .map when present
func processFile(name string, cfg *Config) error {
	content, err := os.ReadFile(name)
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(name)
	if err != nil {
		return err
	}

	var srcMap any
	if data, err := os.ReadFile(name + ".map"); err == nil {
		srcMap = data
	}

	result, err := cssremap.Process(string(content), srcMap, cfg.options(abs))
	if err != nil {
		return err
	}

	if cfg.Write {
		if err := os.WriteFile(name, []byte(result.Content), 0644); err != nil {
			return err
		}
		log.Debug("wrote %s", name)
	} else {
		fmt.Print(result.Content)
	}

	if result.Map != nil {
		data, err := json.Marshal(result.Map)
		if err != nil {
			return err
		}
		if err := os.WriteFile(name+".map", data, 0644); err != nil {
			return err
		}
	}
	return nil
}
