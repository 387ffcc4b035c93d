package domain

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/stubweave/internal/adapter"
	"github.com/mouse-blink/stubweave/internal/config"
	m "github.com/mouse-blink/stubweave/internal/model"
)

// Workflow drives stub insertion over single files and whole source trees.
type Workflow interface {
	ProcessFile(path m.Path) m.FileOutcome
	ProcessDirectory(root m.Path) (m.Stats, error)
	Estimate(root m.Path) ([]FileEstimate, error)
	Extract(root m.Path, out m.Path) (*m.FragmentTable, error)
}

// FileEstimate reports, without writing anything, how many stubs a file
// would receive and which of its anchors cannot be resolved.
type FileEstimate struct {
	File    m.Path
	Points  int
	Missing []m.MissingAnchor
}

type workflow struct {
	cfg     *config.Config
	scanner *Scanner
	fs      adapter.SourceFSAdapter
	io      adapter.FileIO
	store   adapter.TableStore
	events  Events
	logger  *zap.Logger
}

// NewWorkflow wires the insertion engine to its collaborators. A nil events
// or logger falls back to a no-op implementation.
func NewWorkflow(
	cfg *config.Config,
	table *m.FragmentTable,
	fs adapter.SourceFSAdapter,
	io adapter.FileIO,
	store adapter.TableStore,
	events Events,
	logger *zap.Logger,
) Workflow {
	if events == nil {
		events = NopEvents{}
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &workflow{
		cfg:     cfg,
		scanner: NewScanner(table, cfg.BlanketInsert, logger),
		fs:      fs,
		io:      io,
		store:   store,
		events:  events,
		logger:  logger,
	}
}

// ProcessFile reads, scans and rewrites a single source file. Failures are
// contained in the outcome; ProcessFile never panics out to the caller.
func (w *workflow) ProcessFile(path m.Path) (outcome m.FileOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = m.FileOutcome{
				File: path,
				Err:  fmt.Errorf("processing %s: %v", path, r),
			}
		}
	}()

	content, encName, err := w.io.Read(path)
	if err != nil {
		return m.FileOutcome{File: path, Err: err}
	}

	lines := splitLines(content)
	result := w.scanner.Scan(path, lines)

	for _, miss := range result.Missing {
		w.events.AnchorMissing(miss)
	}

	if len(result.Points) == 0 {
		return m.FileOutcome{
			File:    path,
			Message: "no update needed",
			Missing: result.Missing,
		}
	}

	updated, inserted := InsertStubs(lines, result.Points)
	if inserted == 0 {
		return m.FileOutcome{
			File:    path,
			Message: "no update needed",
			Missing: result.Missing,
		}
	}

	out, err := w.io.Write(path, strings.Join(updated, "\n"), encName)
	if err != nil {
		return m.FileOutcome{File: path, Missing: result.Missing, Err: err}
	}

	w.logger.Info("stubs inserted",
		zap.String("file", string(path)),
		zap.String("output", string(out)),
		zap.Int("count", inserted))

	return m.FileOutcome{
		File:     path,
		Output:   out,
		Inserted: inserted,
		Missing:  result.Missing,
	}
}

// ProcessDirectory runs insertion over every matching file under root.
// The tree is backed up beforehand and the rewritten files are mirrored
// into a timestamped sibling directory. A failure in one file never stops
// the run; only a failed backup aborts it.
func (w *workflow) ProcessDirectory(root m.Path) (m.Stats, error) {
	var stats m.Stats

	info, err := w.fs.FileInfo(root)
	if err != nil {
		return stats, fmt.Errorf("reading root %s: %w", root, err)
	}

	if !info.IsDir() {
		return stats, fmt.Errorf("root %s is not a directory", root)
	}

	files, err := w.fs.FindSources(root, w.cfg.Extensions)
	if err != nil {
		return stats, fmt.Errorf("scanning %s: %w", root, err)
	}

	stamp := time.Now().Format("20060102_150405")

	if w.cfg.Backup {
		backup := m.Path(string(root) + "_backup_" + stamp)
		if err := w.fs.CopyDir(root, backup); err != nil {
			return stats, fmt.Errorf("backing up %s: %w", root, err)
		}

		stats.BackupDir = backup
		w.logger.Info("backup created", zap.String("dir", string(backup)))
	}

	stubbed := m.Path(string(root) + "_stubbed_" + stamp)
	stats.StubbedDir = stubbed

	w.events.RunStarted(root, len(files))

	var (
		mu sync.Mutex
		g  errgroup.Group
	)

	g.SetLimit(w.cfg.Workers)

	for i, file := range files {
		g.Go(func() error {
			w.events.FileStarted(file, i, len(files))

			outcome := w.ProcessFile(file)

			if outcome.Updated() {
				w.mirrorOutput(root, stubbed, outcome.Output)
			}

			mu.Lock()
			stats.ScannedFiles++
			stats.Missing = append(stats.Missing, outcome.Missing...)

			switch {
			case outcome.Err != nil:
				stats.FailedFiles++
				stats.Errors = append(stats.Errors, m.FileError{
					File:    outcome.File,
					Message: outcome.Err.Error(),
				})
			case outcome.Updated():
				stats.UpdatedFiles++
				stats.InsertedStubs += outcome.Inserted
			}
			mu.Unlock()

			w.events.FileFinished(outcome, i, len(files))

			return nil
		})
	}

	_ = g.Wait()

	w.events.RunFinished(&stats)

	return stats, nil
}

// mirrorOutput moves a rewritten file into the stubbed mirror tree, keeping
// its path relative to root. Mirror failures are logged but never fail the
// run; the rewritten file stays next to the source in that case.
func (w *workflow) mirrorOutput(root, stubbed, output m.Path) {
	src := m.Path(strings.TrimSuffix(string(output), w.cfg.OutputSuffix))

	rel, err := w.fs.RelPath(root, src)
	if err != nil {
		w.logger.Warn("mirroring skipped", zap.String("file", string(output)), zap.Error(err))

		return
	}

	dst := w.fs.JoinPath(string(stubbed), string(rel))

	if err := w.fs.CopyFile(output, dst); err != nil {
		w.logger.Warn("mirroring failed", zap.String("file", string(output)), zap.Error(err))

		return
	}

	if err := w.fs.Remove(output); err != nil {
		w.logger.Warn("cleanup failed", zap.String("file", string(output)), zap.Error(err))
	}
}

// Estimate scans every matching file under root without writing anything.
func (w *workflow) Estimate(root m.Path) ([]FileEstimate, error) {
	files, err := w.fs.FindSources(root, w.cfg.Extensions)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	estimates := make([]FileEstimate, 0, len(files))

	for _, file := range files {
		content, _, err := w.io.Read(file)
		if err != nil {
			w.logger.Warn("estimate skipped file", zap.String("file", string(file)), zap.Error(err))

			continue
		}

		result := w.scanner.Scan(file, splitLines(content))

		estimates = append(estimates, FileEstimate{
			File:    file,
			Points:  len(result.Points),
			Missing: result.Missing,
		})
	}

	return estimates, nil
}

// Extract rebuilds a fragment table from previously stubbed sources under
// root and saves it to out. It fails when no stubs are found.
func (w *workflow) Extract(root, out m.Path) (*m.FragmentTable, error) {
	files, err := w.fs.FindSources(root, w.cfg.Extensions)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	table := m.NewFragmentTable()

	for _, file := range files {
		content, _, err := w.io.Read(file)
		if err != nil {
			w.logger.Warn("extract skipped file", zap.String("file", string(file)), zap.Error(err))

			continue
		}

		ExtractStubs(splitLines(content), table)
	}

	if table.Empty() {
		return nil, fmt.Errorf("no stubs found under %s", root)
	}

	if err := w.store.Save(out, table); err != nil {
		return nil, fmt.Errorf("saving table %s: %w", out, err)
	}

	w.logger.Info("fragment table extracted",
		zap.String("output", string(out)),
		zap.Int("fragments", table.Len()))

	return table, nil
}

// splitLines normalizes CRLF endings and splits content into lines.
func splitLines(content string) []string {
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}
