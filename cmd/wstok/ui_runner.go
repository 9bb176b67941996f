package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"wstok/internal/driver"
	"wstok/internal/source"
	"wstok/internal/ui"
)

type dirOutcome struct {
	fileSet *source.FileSet
	results []driver.TokenizeDirResult
	err     error
}

// runTokenizeDirWithUI runs TokenizeDir while a progress view renders to stderr.
func runTokenizeDirWithUI(ctx context.Context, title, dir string, opts driver.DirOptions) (*source.FileSet, []driver.TokenizeDirResult, error) {
	files, err := driver.ListFiles(dir, opts.Extensions)
	if err != nil {
		return nil, nil, err
	}
	return runDirWithView(ctx, dir, opts, func(events <-chan driver.Event) error {
		model := ui.NewProgressModel(title, files, events)
		_, err := tea.NewProgram(model, tea.WithOutput(os.Stderr)).Run()
		return err
	})
}

// runDirWithView tokenizes dir in the background while view consumes progress events.
// view normally returns once events is closed; if it returns earlier (Ctrl+C),
// files that have not started yet are cancelled.
func runDirWithView(ctx context.Context, dir string, opts driver.DirOptions, view func(<-chan driver.Event) error) (*source.FileSet, []driver.TokenizeDirResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan dirOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		fileSet, results, err := driver.TokenizeDir(ctx, dir, optsCopy)
		outcomeCh <- dirOutcome{fileSet: fileSet, results: results, err: err}
		close(events)
	}()

	uiErr := view(events)

	// events закрывается только после outcome, так что пустой outcomeCh значит ранний выход UI
	var outcome dirOutcome
	select {
	case outcome = <-outcomeCh:
	default:
		cancel()
		go func() {
			for range events {
			}
		}()
		outcome = <-outcomeCh
	}

	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}
