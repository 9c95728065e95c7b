package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"nfscript/internal/interp"
	"nfscript/internal/trace"
)

const configFileName = "nf.toml"

type fileConfig struct {
	Run         runSection   `toml:"run"`
	Diagnostics diagSection  `toml:"diagnostics"`
	Trace       traceSection `toml:"trace"`
	Cache       cacheSection `toml:"cache"`
}

type runSection struct {
	Timeout      string `toml:"timeout"`
	MaxCallDepth int    `toml:"max_call_depth"`
	Jobs         int    `toml:"jobs"`
}

type diagSection struct {
	Max   int    `toml:"max"`
	Color string `toml:"color"`
}

type traceSection struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
}

type cacheSection struct {
	Enabled bool `toml:"enabled"`
}

// config is the effective configuration: defaults, then nf.toml, then flags.
type config struct {
	Path           string // empty when no nf.toml was used
	Timeout        time.Duration
	MaxCallDepth   int
	Jobs           int // 0 = GOMAXPROCS
	MaxDiagnostics int
	Color          string
	TraceLevel     string
	TraceOutput    string
	Cache          bool
}

func defaultConfig() config {
	return config{
		Timeout:        interp.DefaultTimeout,
		MaxCallDepth:   interp.DefaultMaxCallDepth,
		MaxDiagnostics: 100,
		Color:          "auto",
		TraceLevel:     "off",
		Cache:          true,
	}
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

// loadConfig decodes path over the defaults. Only keys present in the file
// replace defaults; unknown keys are an error.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return cfg, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path

	if meta.IsDefined("run", "timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(fc.Run.Timeout))
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("%s: [run].timeout must be a positive duration, got %q", path, fc.Run.Timeout)
		}
		cfg.Timeout = d
	}
	if meta.IsDefined("run", "max_call_depth") {
		if fc.Run.MaxCallDepth <= 0 {
			return cfg, fmt.Errorf("%s: [run].max_call_depth must be positive", path)
		}
		cfg.MaxCallDepth = fc.Run.MaxCallDepth
	}
	if meta.IsDefined("run", "jobs") {
		if fc.Run.Jobs < 0 {
			return cfg, fmt.Errorf("%s: [run].jobs must not be negative", path)
		}
		cfg.Jobs = fc.Run.Jobs
	}
	if meta.IsDefined("diagnostics", "max") {
		cfg.MaxDiagnostics = fc.Diagnostics.Max
	}
	if meta.IsDefined("diagnostics", "color") {
		if _, err := readColorMode(fc.Diagnostics.Color); err != nil {
			return cfg, fmt.Errorf("%s: [diagnostics].color: %w", path, err)
		}
		cfg.Color = fc.Diagnostics.Color
	}
	if meta.IsDefined("trace", "level") {
		if _, err := trace.ParseLevel(fc.Trace.Level); err != nil {
			return cfg, fmt.Errorf("%s: [trace].level: %w", path, err)
		}
		cfg.TraceLevel = fc.Trace.Level
	}
	if meta.IsDefined("trace", "output") {
		cfg.TraceOutput = fc.Trace.Output
	}
	if meta.IsDefined("cache", "enabled") {
		cfg.Cache = fc.Cache.Enabled
	}
	return cfg, nil
}

// resolveConfig picks the config file: --config wins, otherwise nf.toml is
// searched upward from the first script argument.
func resolveConfig(explicit string, args []string) (config, error) {
	if explicit != "" {
		return loadConfig(explicit)
	}
	start := "."
	if len(args) > 0 {
		start = args[0]
		if info, err := os.Stat(start); err == nil && !info.IsDir() {
			start = filepath.Dir(start)
		}
	}
	path, ok, err := findConfig(start)
	if err != nil {
		return defaultConfig(), err
	}
	if !ok {
		return defaultConfig(), nil
	}
	return loadConfig(path)
}

// flagSource is the subset of pflag.FlagSet used to override config values.
type flagSource interface {
	Changed(name string) bool
	GetString(name string) (string, error)
	GetInt(name string) (int, error)
	GetDuration(name string) (time.Duration, error)
	GetBool(name string) (bool, error)
}

// applyFlags overrides cfg with flags the user set explicitly.
func applyFlags(cfg *config, flags flagSource) error {
	var err error
	if flags.Changed("max-diagnostics") {
		if cfg.MaxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return err
		}
	}
	if flags.Changed("color") {
		if cfg.Color, err = flags.GetString("color"); err != nil {
			return err
		}
	}
	if _, err := readColorMode(cfg.Color); err != nil {
		return err
	}
	if flags.Changed("trace-level") {
		if cfg.TraceLevel, err = flags.GetString("trace-level"); err != nil {
			return err
		}
	}
	if flags.Changed("trace") {
		if cfg.TraceOutput, err = flags.GetString("trace"); err != nil {
			return err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
		if cfg.Timeout <= 0 {
			return fmt.Errorf("--timeout must be positive")
		}
	}
	if flags.Changed("max-call-depth") {
		if cfg.MaxCallDepth, err = flags.GetInt("max-call-depth"); err != nil {
			return err
		}
	}
	if flags.Changed("jobs") {
		if cfg.Jobs, err = flags.GetInt("jobs"); err != nil {
			return err
		}
	}
	if flags.Changed("no-cache") {
		noCache, err := flags.GetBool("no-cache")
		if err != nil {
			return err
		}
		cfg.Cache = !noCache
	}
	return nil
}
