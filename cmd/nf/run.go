package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"nfscript/internal/driver"
	"nfscript/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] <file.nf|directory>...",
	Short: "Run NF scripts",
	Long: `Run executes a script in the foreground. Several scripts, or a directory
of *.nf files, run in parallel with one interpreter each.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().Duration("timeout", 0, "per-script deadline (default from nf.toml or 5m)")
	runCmd.Flags().Int("max-call-depth", 0, "maximum nesting of function calls")
	runCmd.Flags().Int("jobs", 0, "max parallel scripts (0=auto)")
	runCmd.Flags().String("ui", "auto", "progress UI for batch runs (auto|on|off)")
	runCmd.Flags().Bool("no-cache", false, "do not read or write the token cache")
}

func runRun(cmd *cobra.Command, args []string) error {
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	files, err := pipeline.CollectScripts(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s scripts found", pipeline.ScriptExt)
	}

	opts := driverOptions(cmd, true)
	if len(args) == 1 && len(files) == 1 {
		if info, statErr := os.Stat(args[0]); statErr == nil && !info.IsDir() {
			return runSingle(cmd, files[0], opts)
		}
	}
	return runBatch(cmd, files, mode, opts)
}

func runSingle(cmd *cobra.Command, path string, opts driver.Options) error {
	res, err := driver.Run(cmd.Context(), path, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	printDiagnostics(res.Bag, res.FileSet)
	printDebug(cmd, res.Err)
	if showTimings(cmd) && res.Timer != nil {
		fmt.Fprint(os.Stderr, res.Timer.Summary())
	}
	if res.Failed() {
		return errScriptsFailed
	}
	return nil
}

func runBatch(cmd *cobra.Command, files []string, mode uiMode, opts driver.Options) error {
	jobs := activeConfig.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	var (
		batch *driver.BatchResult
		err   error
	)
	if shouldUseTUI(mode) {
		batch, err = runBatchWithUI(cmd.Context(), fmt.Sprintf("running %d scripts", len(files)), files, jobs, opts)
	} else {
		batch, err = driver.RunScripts(cmd.Context(), files, jobs, opts, nil)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, res := range batch.Results {
		if !quiet(cmd) {
			fmt.Fprintf(out, "== %s ==\n", res.Path)
		}
		if _, err := out.Write(res.Output); err != nil {
			return err
		}
		printDiagnostics(res.Bag, res.FileSet)
		printDebug(cmd, res.Err)
	}
	if showTimings(cmd) {
		printStageTimings(os.Stderr, batch.Timings)
	}

	if failed := batch.Failed(); failed > 0 {
		if !quiet(cmd) {
			fmt.Fprintf(os.Stderr, "%d of %d scripts failed\n", failed, len(files))
		}
		return errScriptsFailed
	}
	return nil
}
