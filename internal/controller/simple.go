package controller

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/mouse-blink/stubweave/internal/domain"
	m "github.com/mouse-blink/stubweave/internal/model"
)

// SimpleUI implements UI using cobra Command's output writer. It prints one
// line per processed file and a summary table at the end of the run.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// RunStarted announces a directory run.
func (s *SimpleUI) RunStarted(root m.Path, total int) {
	s.printf("Scanning %d file(s) under %s\n", total, root)
}

// FileStarted is a no-op; the simple UI reports files as they finish.
func (s *SimpleUI) FileStarted(m.Path, int, int) {}

// FileFinished prints the outcome of one file.
func (s *SimpleUI) FileFinished(outcome m.FileOutcome, _, _ int) {
	switch {
	case outcome.Err != nil:
		s.printf("%s: error: %v\n", outcome.File, outcome.Err)
	case outcome.Updated():
		s.printf("%s: %d stub(s) inserted -> %s\n", outcome.File, outcome.Inserted, outcome.Output)
	default:
		s.printf("%s: %s\n", outcome.File, outcome.Message)
	}
}

// AnchorMissing is a no-op; missing anchors are listed in the summary.
func (s *SimpleUI) AnchorMissing(m.MissingAnchor) {}

// RunFinished prints the aggregate statistics table, followed by missing
// anchors and per-file errors when there are any.
func (s *SimpleUI) RunFinished(stats *m.Stats) {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Metric", "Count"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	table.Append([]string{"Files scanned", fmt.Sprintf("%d", stats.ScannedFiles)})
	table.Append([]string{"Files updated", fmt.Sprintf("%d", stats.UpdatedFiles)})
	table.Append([]string{"Stubs inserted", fmt.Sprintf("%d", stats.InsertedStubs)})
	table.Append([]string{"Files failed", fmt.Sprintf("%d", stats.FailedFiles)})
	table.Append([]string{"Anchors unresolved", fmt.Sprintf("%d", len(stats.Missing))})

	table.Render()
	s.printf("\n%s", tableBuffer.String())

	if stats.BackupDir != "" {
		s.printf("\nBackup: %s\n", stats.BackupDir)
	}

	if stats.StubbedDir != "" {
		s.printf("Stubbed copies: %s\n", stats.StubbedDir)
	}

	s.printMissing(stats.Missing)
	s.printErrors(stats.Errors)
}

func (s *SimpleUI) printMissing(missing []m.MissingAnchor) {
	if len(missing) == 0 {
		return
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"File", "Line", "Anchor"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT,
	})

	sorted := make([]m.MissingAnchor, len(missing))
	copy(sorted, missing)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].File != sorted[j].File {
			return sorted[i].File < sorted[j].File
		}

		return sorted[i].Line < sorted[j].Line
	})

	for _, miss := range sorted {
		table.Append([]string{
			string(miss.File),
			fmt.Sprintf("%d", miss.Line),
			miss.Anchor,
		})
	}

	table.SetFooter([]string{"Missing anchors", fmt.Sprintf("%d", len(sorted)), ""})

	table.Render()
	s.printf("\n%s", tableBuffer.String())
}

func (s *SimpleUI) printErrors(errors []m.FileError) {
	if len(errors) == 0 {
		return
	}

	s.printf("\nFailed files:\n")

	for _, fileErr := range errors {
		s.printf("  %s: %s\n", fileErr.File, fileErr.Message)
	}
}

// DisplayEstimates prints the dry-run results or error.
func (s *SimpleUI) DisplayEstimates(estimates []domain.FileEstimate, err error) error {
	if err != nil {
		s.printf("estimate error: %v\n", err)
		return err
	}

	sorted := make([]domain.FileEstimate, len(estimates))
	copy(sorted, estimates)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].File < sorted[j].File
	})

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Stubs", "Missing"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
	})

	totalStubs := 0
	totalMissing := 0

	for _, estimate := range sorted {
		table.Append([]string{
			string(estimate.File),
			fmt.Sprintf("%d", estimate.Points),
			fmt.Sprintf("%d", len(estimate.Missing)),
		})

		totalStubs += estimate.Points
		totalMissing += len(estimate.Missing)
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(sorted)),
		fmt.Sprintf("%d", totalStubs),
		fmt.Sprintf("%d", totalMissing),
	})

	table.Render()
	s.printf("\n%s", tableBuffer.String())

	return nil
}

// Wait returns immediately; the simple UI has no interactive session.
func (s *SimpleUI) Wait() error {
	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
