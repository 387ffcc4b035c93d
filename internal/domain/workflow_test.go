package domain

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/stubweave/internal/adapter"
	"github.com/mouse-blink/stubweave/internal/config"
	m "github.com/mouse-blink/stubweave/internal/model"
)

// recordingEvents captures workflow notifications for assertions.
type recordingEvents struct {
	mu        sync.Mutex
	started   int
	finished  []m.FileOutcome
	runTotals []int
	stats     *m.Stats
}

func (r *recordingEvents) RunStarted(_ m.Path, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runTotals = append(r.runTotals, total)
}

func (r *recordingEvents) FileStarted(m.Path, int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started++
}

func (r *recordingEvents) FileFinished(outcome m.FileOutcome, _, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, outcome)
}

func (r *recordingEvents) AnchorMissing(m.MissingAnchor) {}

func (r *recordingEvents) RunFinished(stats *m.Stats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats = stats
}

func testWorkflow(t *testing.T, cfg *config.Config, table *m.FragmentTable, events Events) Workflow {
	t.Helper()

	fileIO := adapter.NewLocalFileIO(cfg.OutputSuffix, cfg.FallbackEncodings)

	return NewWorkflow(
		cfg,
		table,
		adapter.NewLocalSourceFSAdapter(),
		fileIO,
		adapter.NewYAMLTableStore(fileIO),
		events,
		nil,
	)
}

func writeSource(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestWorkflow_ProcessFile(t *testing.T) {
	cfg := config.Default()
	workflow := testWorkflow(t, cfg, testTable(), nil)

	path := filepath.Join(t.TempDir(), "a.c")
	writeSource(t, path, "int f(void) {\n    // TC001 STEP1 segment1\n    return 0;\n}\n")

	outcome := workflow.ProcessFile(m.Path(path))

	require.NoError(t, outcome.Err)
	assert.True(t, outcome.Updated())
	assert.Equal(t, 1, outcome.Inserted)
	assert.Equal(t, m.Path(path+".stub"), outcome.Output)

	written, err := os.ReadFile(path + ".stub")
	require.NoError(t, err)
	assert.Contains(t, string(written), m.TraceMarker)

	// The source file itself is untouched.
	original, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(original), m.TraceMarker)
}

func TestWorkflow_ProcessFileNoAnchors(t *testing.T) {
	cfg := config.Default()
	workflow := testWorkflow(t, cfg, testTable(), nil)

	path := filepath.Join(t.TempDir(), "a.c")
	writeSource(t, path, "int main(void) { return 0; }\n")

	outcome := workflow.ProcessFile(m.Path(path))

	require.NoError(t, outcome.Err)
	assert.False(t, outcome.Updated())
	assert.Equal(t, "no update needed", outcome.Message)

	_, err := os.Stat(path + ".stub")
	assert.True(t, os.IsNotExist(err), "anchor-less file must not produce output")
}

func TestWorkflow_ProcessFileReadError(t *testing.T) {
	cfg := config.Default()
	workflow := testWorkflow(t, cfg, testTable(), nil)

	outcome := workflow.ProcessFile(m.Path(filepath.Join(t.TempDir(), "nope.c")))

	assert.Error(t, outcome.Err)
	assert.False(t, outcome.Updated())
}

func TestWorkflow_ProcessDirectory(t *testing.T) {
	cfg := config.Default()
	cfg.Workers = 2

	events := &recordingEvents{}
	workflow := testWorkflow(t, cfg, testTable(), events)

	base := t.TempDir()
	root := filepath.Join(base, "src")
	writeSource(t, filepath.Join(root, "a.c"),
		"void f(void) {\n    // TC001 STEP1 segment1\n}\n")
	writeSource(t, filepath.Join(root, "sub", "b.c"),
		"void g(void) {\n    // TC777 STEP1 segment1\n}\n")

	stats, err := workflow.ProcessDirectory(m.Path(root))
	require.NoError(t, err)

	assert.Equal(t, 2, stats.ScannedFiles)
	assert.Equal(t, 1, stats.UpdatedFiles)
	assert.Equal(t, 1, stats.InsertedStubs)
	assert.Equal(t, 0, stats.FailedFiles)
	require.Len(t, stats.Missing, 1)
	assert.Equal(t, "TC777 STEP1 segment1", stats.Missing[0].Anchor)

	// Backup tree mirrors the untouched input.
	require.NotEmpty(t, stats.BackupDir)
	backupContent, err := os.ReadFile(filepath.Join(string(stats.BackupDir), "a.c"))
	require.NoError(t, err)
	assert.NotContains(t, string(backupContent), m.TraceMarker)

	// The rewritten file was collected into the stubbed mirror under its
	// original name, and the .stub copy was cleaned up from the source tree.
	stubbedContent, err := os.ReadFile(filepath.Join(string(stats.StubbedDir), "a.c"))
	require.NoError(t, err)
	assert.Contains(t, string(stubbedContent), m.TraceMarker)

	_, err = os.Stat(filepath.Join(root, "a.c.stub"))
	assert.True(t, os.IsNotExist(err))

	// Events fired for the whole run.
	assert.Equal(t, []int{2}, events.runTotals)
	assert.Equal(t, 2, events.started)
	assert.Len(t, events.finished, 2)
	require.NotNil(t, events.stats)
	assert.Equal(t, 1, events.stats.UpdatedFiles)
}

func TestWorkflow_ProcessDirectoryNoBackup(t *testing.T) {
	cfg := config.Default()
	cfg.Backup = false

	workflow := testWorkflow(t, cfg, testTable(), nil)

	root := filepath.Join(t.TempDir(), "src")
	writeSource(t, filepath.Join(root, "a.c"), "// TC001 STEP1 segment1\n")

	stats, err := workflow.ProcessDirectory(m.Path(root))
	require.NoError(t, err)

	assert.Empty(t, stats.BackupDir)
	assert.Equal(t, 1, stats.UpdatedFiles)
}

func TestWorkflow_ProcessDirectoryRejectsFileRoot(t *testing.T) {
	cfg := config.Default()
	workflow := testWorkflow(t, cfg, testTable(), nil)

	path := filepath.Join(t.TempDir(), "a.c")
	writeSource(t, path, "int x;\n")

	_, err := workflow.ProcessDirectory(m.Path(path))
	assert.Error(t, err)
}

func TestWorkflow_Estimate(t *testing.T) {
	cfg := config.Default()
	workflow := testWorkflow(t, cfg, testTable(), nil)

	root := filepath.Join(t.TempDir(), "src")
	writeSource(t, filepath.Join(root, "a.c"),
		"// TC001 STEP1 segment1\n// TC001 STEP2 segment1\n")
	writeSource(t, filepath.Join(root, "b.c"), "// TC404 STEP1 segment1\n")

	estimates, err := workflow.Estimate(m.Path(root))
	require.NoError(t, err)
	require.Len(t, estimates, 2)

	assert.Equal(t, 2, estimates[0].Points)
	assert.Empty(t, estimates[0].Missing)
	assert.Equal(t, 0, estimates[1].Points)
	assert.Len(t, estimates[1].Missing, 1)

	// A dry run writes nothing next to the sources.
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.HasSuffix(entry.Name(), ".stub"))
	}
}

func TestWorkflow_Extract(t *testing.T) {
	cfg := config.Default()
	workflow := testWorkflow(t, cfg, nil, nil)

	root := filepath.Join(t.TempDir(), "src")
	writeSource(t, filepath.Join(root, "a.c"),
		"// TC001 STEP1 segment1\n"+
			"check();  "+m.TraceMarker+"\n")

	out := filepath.Join(t.TempDir(), "extracted.yaml")

	table, err := workflow.Extract(m.Path(root), m.Path(out))
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "TC001")
	assert.Contains(t, string(data), "check();")
}

func TestWorkflow_ExtractFailsWithoutStubs(t *testing.T) {
	cfg := config.Default()
	workflow := testWorkflow(t, cfg, nil, nil)

	root := filepath.Join(t.TempDir(), "src")
	writeSource(t, filepath.Join(root, "a.c"), "int x;\n")

	_, err := workflow.Extract(m.Path(root), m.Path(filepath.Join(root, "out.yaml")))
	assert.Error(t, err)
}
