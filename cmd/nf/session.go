package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"nfscript/internal/diag"
	"nfscript/internal/diagfmt"
	"nfscript/internal/driver"
	"nfscript/internal/source"
	"nfscript/internal/trace"
)

// activeConfig is set once per invocation in setupSession.
var (
	activeConfig = defaultConfig()
	cleanups     []func()
)

// setupSession runs before every subcommand: it resolves configuration and
// starts tracing and profiling.
func setupSession(cmd *cobra.Command, args []string) error {
	explicit, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := resolveConfig(explicit, args)
	if err != nil {
		return err
	}
	if err := applyFlags(&cfg, cmd.Flags()); err != nil {
		return err
	}
	activeConfig = cfg

	stopTrace, err := setupTracing(cmd, cfg)
	if err != nil {
		return err
	}
	cleanups = append(cleanups, stopTrace)

	stopProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	cleanups = append(cleanups, stopProf)
	return nil
}

// closeSession runs cleanups in reverse order.
func closeSession() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
}

type colorMode string

const (
	colorAuto colorMode = "auto"
	colorOn   colorMode = "on"
	colorOff  colorMode = "off"
)

func readColorMode(value string) (colorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorAuto, nil
	case "on":
		return colorOn, nil
	case "off":
		return colorOff, nil
	default:
		return "", fmt.Errorf("invalid color value %q (expected auto|on|off)", value)
	}
}

// useColor решает, красить ли вывод в f.
func useColor(f *os.File) bool {
	mode, _ := readColorMode(activeConfig.Color)
	switch mode {
	case colorOn:
		return true
	case colorOff:
		return false
	default:
		return isTerminal(f)
	}
}

func quiet(cmd *cobra.Command) bool {
	q, _ := cmd.Flags().GetBool("quiet")
	return q
}

func showTimings(cmd *cobra.Command) bool {
	t, _ := cmd.Flags().GetBool("timings")
	return t
}

// printDiagnostics writes bag to stderr in the pretty format.
func printDiagnostics(bag *diag.Bag, fs *source.FileSet) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
		Color:     useColor(os.Stderr),
		Context:   1,
		ShowNotes: true,
		ShowFixes: true,
	})
}

// driverOptions builds driver options from the effective configuration.
// The token cache is opened only when withCache is set and enabled.
func driverOptions(cmd *cobra.Command, withCache bool) driver.Options {
	opts := driver.Options{
		MaxDiagnostics: activeConfig.MaxDiagnostics,
		Timeout:        activeConfig.Timeout,
		MaxCallDepth:   activeConfig.MaxCallDepth,
		Stdout:         cmd.OutOrStdout(),
		Tracer:         trace.FromContext(cmd.Context()),
	}
	if withCache && activeConfig.Cache {
		opts.Cache = openCache(cmd)
	}
	return opts
}

// openCache opens the shared token cache; failures only disable caching.
func openCache(cmd *cobra.Command) *driver.TokenCache {
	dir, err := driver.DefaultCacheDir("nf")
	if err == nil {
		var cache *driver.TokenCache
		if cache, err = driver.OpenTokenCache(dir); err == nil {
			cleanups = append(cleanups, func() { _ = cache.Close() })
			return cache
		}
	}
	if !quiet(cmd) {
		fmt.Fprintf(os.Stderr, "nf: token cache disabled: %v\n", err)
	}
	return nil
}
