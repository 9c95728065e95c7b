package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"nfscript/internal/diagfmt"
	"nfscript/internal/driver"
	"nfscript/internal/pipeline"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.nf|directory>...",
	Short: "Lex and parse scripts without running them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	files, err := pipeline.CollectScripts(args)
	if err != nil {
		return err
	}
	opts := driverOptions(cmd, true)

	failed := 0
	report := make(map[string]diagfmt.DiagnosticsOutput, len(files))
	for _, path := range files {
		res, err := driver.Parse(path, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if res.Bag.HasErrors() {
			failed++
		}
		if format == "json" {
			report[path] = diagfmt.BuildDiagnosticsOutput(res.Bag, res.FileSet, diagfmt.JSONOpts{
				IncludePositions: true,
				IncludeNotes:     true,
				IncludeFixes:     true,
				Max:              activeConfig.MaxDiagnostics,
			})
			continue
		}
		printDiagnostics(res.Bag, res.FileSet)
		if !res.Bag.HasErrors() && !quiet(cmd) {
			fmt.Fprintf(cmd.OutOrStdout(), "ok %s\n", path)
		}
	}

	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	}
	if failed > 0 {
		return errScriptsFailed
	}
	return nil
}
