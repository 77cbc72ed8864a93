package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/alexandresoliveira/bfgex/internal/ast"
	"github.com/alexandresoliveira/bfgex/internal/parser"
)

const configFileName = "bfgex.toml"

type fileConfig struct {
	Parse   parseConfig       `toml:"parse"`
	Classes map[string]string `toml:"classes"`
	Check   checkConfig       `toml:"check"`
	Output  outputConfig      `toml:"output"`
}

type parseConfig struct {
	Extended bool `toml:"extended"`
}

type checkConfig struct {
	Jobs           int `toml:"jobs"`
	MaxDiagnostics int `toml:"max_diagnostics"`
}

type outputConfig struct {
	Color string `toml:"color"`
}

// loadedConfig is a parsed bfgex.toml (Path is empty when none was found).
type loadedConfig struct {
	Path    string
	Config  fileConfig
	Classes *ast.ClassTable
	meta    toml.MetaData
}

func (c *loadedConfig) defined(key ...string) bool {
	return c != nil && c.Path != "" && c.meta.IsDefined(key...)
}

func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadConfig reads explicit, or the nearest bfgex.toml above startDir when
// explicit is empty. A missing file is not an error.
func loadConfig(explicit, startDir string) (*loadedConfig, error) {
	path := explicit
	if path == "" {
		found, ok, err := findConfig(startDir)
		if err != nil {
			return nil, err
		}
		if !ok {
			return &loadedConfig{Classes: ast.DefaultClasses()}, nil
		}
		path = found
	}

	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Check.Jobs < 0 {
		return nil, fmt.Errorf("%s: [check].jobs must not be negative", path)
	}
	if cfg.Check.MaxDiagnostics < 0 {
		return nil, fmt.Errorf("%s: [check].max_diagnostics must not be negative", path)
	}
	if meta.IsDefined("output", "color") {
		if _, err := readColorMode(cfg.Output.Color); err != nil {
			return nil, fmt.Errorf("%s: [output].color: %w", path, err)
		}
	}
	classes, err := buildClassTable(cfg.Classes)
	if err != nil {
		return nil, fmt.Errorf("%s: [classes]: %w", path, err)
	}
	return &loadedConfig{Path: path, Config: cfg, Classes: classes, meta: meta}, nil
}

// buildClassTable extends the default \w and \d classes with the
// configured letters. Keys are single escape letters.
func buildClassTable(classes map[string]string) (*ast.ClassTable, error) {
	table := ast.DefaultClasses()
	letters := make([]string, 0, len(classes))
	for k := range classes {
		letters = append(letters, k)
	}
	slices.Sort(letters)
	for _, key := range letters {
		letter, size := utf8.DecodeRuneInString(key)
		if size == 0 || size != len(key) {
			return nil, fmt.Errorf("key %q must be a single letter", key)
		}
		if err := table.Register(letter, ast.Class(classes[key])); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// settings are the effective options of a command: flags over bfgex.toml
// over defaults.
type settings struct {
	config         *loadedConfig
	color          colorMode
	quiet          bool
	timings        bool
	maxDiagnostics int
	jobs           int
	parser         parser.Options
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	root := cmd.Root().PersistentFlags()

	configPath, err := root.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := loadConfig(configPath, ".")
	if err != nil {
		return nil, err
	}

	s := &settings{config: cfg}
	if s.quiet, err = root.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = root.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}

	colorFlag, err := root.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	if !root.Changed("color") && cfg.defined("output", "color") {
		colorFlag = cfg.Config.Output.Color
	}
	if s.color, err = readColorMode(colorFlag); err != nil {
		return nil, err
	}

	if s.maxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if !root.Changed("max-diagnostics") && cfg.defined("check", "max_diagnostics") {
		s.maxDiagnostics = cfg.Config.Check.MaxDiagnostics
	}

	s.jobs = cfg.Config.Check.Jobs
	if f := cmd.Flags().Lookup("jobs"); f != nil && f.Changed {
		if s.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return nil, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}

	extended := cfg.Config.Parse.Extended
	if f := cmd.Flags().Lookup("extended"); f != nil && f.Changed {
		if extended, err = cmd.Flags().GetBool("extended"); err != nil {
			return nil, fmt.Errorf("failed to get extended flag: %w", err)
		}
	}
	s.parser.Classes = cfg.Classes
	if extended {
		s.parser.Flags |= parser.FlagExtended
	}
	return s, nil
}
