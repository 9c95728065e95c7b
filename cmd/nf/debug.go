package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/ztrue/tracerr"
)

// printDebug shows the captured stack of an internal error when --debug is
// set. Script errors carry no stack and are skipped.
func printDebug(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	if debug, _ := cmd.Flags().GetBool("debug"); !debug {
		return
	}
	var traced tracerr.Error
	if !errors.As(err, &traced) {
		return
	}
	if useColor(os.Stderr) {
		tracerr.PrintSourceColor(traced, 2)
	} else {
		tracerr.PrintSource(traced, 2)
	}
}
