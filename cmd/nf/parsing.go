package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nfscript/internal/diagfmt"
	"nfscript/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.nf",
	Short: "Parse an NF script and print its statement tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|yaml|repr)")
}

func runParse(cmd *cobra.Command, args []string) error {
	formatFlag, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := diagfmt.ParseTreeFormat(formatFlag)
	if err != nil {
		return err
	}

	result, err := driver.Parse(args[0], driverOptions(cmd, true))
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	printDiagnostics(result.Bag, result.FileSet)
	if showTimings(cmd) && result.Timer != nil {
		fmt.Fprint(os.Stderr, result.Timer.Summary())
	}
	if result.Program == nil {
		return errScriptsFailed
	}
	return diagfmt.FormatTree(cmd.OutOrStdout(), result.Program, format)
}
