package controller

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mouse-blink/stubweave/internal/domain"
	m "github.com/mouse-blink/stubweave/internal/model"
)

// TUI implements UI using Bubble Tea for interactive display. Workflow
// events are forwarded into the running program as messages.
type TUI struct {
	output  io.Writer
	program *tea.Program
	done    chan error
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// RunStarted launches the interactive run view.
func (t *TUI) RunStarted(root m.Path, total int) {
	t.program = tea.NewProgram(newRunModel(), tea.WithOutput(t.output), tea.WithAltScreen())
	t.done = make(chan error, 1)

	go func() {
		_, err := t.program.Run()
		t.done <- err
	}()

	t.program.Send(runStartedMsg{root: string(root), total: total})
}

// FileStarted marks a file as in flight.
func (t *TUI) FileStarted(file m.Path, index, _ int) {
	if t.program == nil {
		return
	}

	t.program.Send(fileStartedMsg{path: string(file), index: index})
}

// FileFinished records the outcome of one file in the results list.
func (t *TUI) FileFinished(outcome m.FileOutcome, index, _ int) {
	if t.program == nil {
		return
	}

	status := "skipped"

	switch {
	case outcome.Err != nil:
		status = "failed"
	case outcome.Updated():
		status = "updated"
	}

	t.program.Send(fileFinishedMsg{
		path:     string(outcome.File),
		output:   string(outcome.Output),
		inserted: outcome.Inserted,
		missing:  len(outcome.Missing),
		status:   status,
		index:    index,
	})
}

// AnchorMissing is a no-op; unresolved anchors show up per file and in the
// final summary.
func (t *TUI) AnchorMissing(m.MissingAnchor) {}

// RunFinished switches the view to the results list.
func (t *TUI) RunFinished(stats *m.Stats) {
	if t.program == nil {
		return
	}

	t.program.Send(runFinishedMsg{stats: stats})
}

// Wait blocks until the user closes the run view.
func (t *TUI) Wait() error {
	if t.program == nil {
		return nil
	}

	return <-t.done
}

// DisplayEstimates shows the dry-run results. Short lists are printed
// directly; longer ones open an interactive, filterable list.
func (t *TUI) DisplayEstimates(estimates []domain.FileEstimate, err error) error {
	if err != nil {
		_, _ = fmt.Fprintf(t.output, "estimate error: %v\n", err)

		return err
	}

	model := newEstimateModel(estimates)

	// Initial terminal size
	if f, ok := t.output.(*os.File); ok {
		width, height, sizeErr := term.GetSize(int(f.Fd()))
		if sizeErr == nil {
			model.height = height
			model.width = width
		}
	}

	if !model.needsPagination() {
		_, printErr := fmt.Fprint(t.output, model.View())

		return printErr
	}

	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen())
	if _, runErr := program.Run(); runErr != nil {
		return runErr
	}

	return nil
}
