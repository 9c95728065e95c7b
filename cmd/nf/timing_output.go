package main

import (
	"fmt"
	"io"
	"time"

	"nfscript/internal/pipeline"
)

// printStageTimings prints summed per-stage durations of a batch.
func printStageTimings(out io.Writer, timings pipeline.Timings) {
	if out == nil {
		return
	}
	labels := map[pipeline.Stage]string{
		pipeline.StageLex:   "lexed",
		pipeline.StageParse: "parsed",
		pipeline.StageRun:   "ran",
	}
	for _, stage := range pipeline.Stages {
		if timings.Has(stage) {
			fmt.Fprintf(out, "%s %.1f ms\n", labels[stage], toMillis(timings.Duration(stage)))
		}
	}
	fmt.Fprintf(out, "total %.1f ms\n", toMillis(timings.Sum(pipeline.Stages...)))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
