package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"nfscript/internal/driver"
	"nfscript/internal/pipeline"
	"nfscript/internal/ui"
)

type batchOutcome struct {
	result *driver.BatchResult
	err    error
}

// runBatchWithUI runs the batch in the background and shows its events in
// the progress model until the batch finishes.
func runBatchWithUI(ctx context.Context, title string, files []string, jobs int, opts driver.Options) (*driver.BatchResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		res, err := driver.RunScripts(ctx, files, jobs, opts, pipeline.ChannelSink{Ch: events})
		outcomeCh <- batchOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	final, uiErr := program.Run()
	if uiErr != nil || ui.Aborted(final) {
		cancel()
	}
	// UI больше не читает канал; раннер не должен на нём зависнуть
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if outcome.err != nil {
		return outcome.result, outcome.err
	}
	return outcome.result, uiErr
}
