package domain

import (
	m "github.com/mouse-blink/stubweave/internal/model"
)

// Events receives progress notifications from the workflow. The core emits
// structured events and knows nothing about how they are displayed; any
// presentation layer (plain text, TUI, log file) subscribes through this
// interface. Implementations must tolerate concurrent calls when the
// workflow runs with multiple workers.
type Events interface {
	// RunStarted announces a directory run over total files.
	RunStarted(root m.Path, total int)

	// FileStarted announces that a file is about to be processed.
	FileStarted(file m.Path, index, total int)

	// FileFinished delivers the outcome of one processed file.
	FileFinished(outcome m.FileOutcome, index, total int)

	// AnchorMissing reports a well-formed anchor with no table entry.
	AnchorMissing(miss m.MissingAnchor)

	// RunFinished delivers the aggregate statistics of a directory run.
	RunFinished(stats *m.Stats)
}

// NopEvents discards all events.
type NopEvents struct{}

func (NopEvents) RunStarted(m.Path, int)               {}
func (NopEvents) FileStarted(m.Path, int, int)         {}
func (NopEvents) FileFinished(m.FileOutcome, int, int) {}
func (NopEvents) AnchorMissing(m.MissingAnchor)        {}
func (NopEvents) RunFinished(*m.Stats)                 {}
