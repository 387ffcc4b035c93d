// Package controller renders stub insertion progress and results to the
// terminal.
package controller

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/stubweave/internal/domain"
)

// UI receives workflow events and displays run results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	domain.Events

	// DisplayEstimates shows per-file stub counts from a dry run.
	DisplayEstimates(estimates []domain.FileEstimate, err error) error

	// Wait blocks until the UI has finished rendering (interactive UIs
	// stay up until the user closes them).
	Wait() error
}

// NewUI creates a UI based on whether TTY mode is enabled.
// When useTTY is true, it returns a TUI (Bubble Tea).
// When useTTY is false, it returns a SimpleUI (plain text).
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY checks if the given writer is a terminal (TTY).
// Returns false if the output is redirected to a file or pipe.
func IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	fileInfo, err := file.Stat()
	if err != nil {
		return false
	}

	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
