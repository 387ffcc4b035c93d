package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/stubweave/internal/model"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLocalSourceFSAdapter_FindSources(t *testing.T) {
	fs := NewLocalSourceFSAdapter()

	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "a.c"), "int a;\n")
	writeTestFile(t, filepath.Join(root, "b.txt"), "not a source\n")
	writeTestFile(t, filepath.Join(root, "nested", "c.C"), "int c;\n")

	sources, err := fs.FindSources(m.Path(root), []string{".c"})
	require.NoError(t, err)

	require.Len(t, sources, 2)
	assert.Equal(t, m.Path(filepath.Join(root, "a.c")), sources[0])
	assert.Equal(t, m.Path(filepath.Join(root, "nested", "c.C")), sources[1])
}

func TestLocalSourceFSAdapter_FindSourcesRejectsFileRoot(t *testing.T) {
	fs := NewLocalSourceFSAdapter()

	root := t.TempDir()
	file := filepath.Join(root, "a.c")
	writeTestFile(t, file, "int a;\n")

	_, err := fs.FindSources(m.Path(file), []string{".c"})
	assert.Error(t, err)
}

func TestLocalSourceFSAdapter_CopyDir(t *testing.T) {
	fs := NewLocalSourceFSAdapter()

	src := t.TempDir()
	writeTestFile(t, filepath.Join(src, "a.c"), "int a;\n")
	writeTestFile(t, filepath.Join(src, "sub", "b.c"), "int b;\n")
	writeTestFile(t, filepath.Join(src, ".git", "config"), "[core]\n")

	dst := filepath.Join(t.TempDir(), "backup")
	require.NoError(t, fs.CopyDir(m.Path(src), m.Path(dst)))

	data, err := os.ReadFile(filepath.Join(dst, "sub", "b.c"))
	require.NoError(t, err)
	assert.Equal(t, "int b;\n", string(data))

	_, err = os.Stat(filepath.Join(dst, ".git"))
	assert.True(t, os.IsNotExist(err), "CopyDir copied .git metadata")
}

func TestLocalSourceFSAdapter_CopyFileCreatesParents(t *testing.T) {
	fs := NewLocalSourceFSAdapter()

	src := filepath.Join(t.TempDir(), "a.c")
	writeTestFile(t, src, "int a;\n")

	dst := filepath.Join(t.TempDir(), "deep", "tree", "a.c")
	require.NoError(t, fs.CopyFile(m.Path(src), m.Path(dst)))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "int a;\n", string(data))
}

func TestLocalSourceFSAdapter_RelAndJoin(t *testing.T) {
	fs := NewLocalSourceFSAdapter()

	rel, err := fs.RelPath(m.Path("/a/b"), m.Path("/a/b/c/d.c"))
	require.NoError(t, err)
	assert.Equal(t, m.Path(filepath.Join("c", "d.c")), rel)

	joined := fs.JoinPath("/a/b", "c", "d.c")
	assert.Equal(t, m.Path(filepath.Join("/a/b", "c", "d.c")), joined)
}

func TestLocalSourceFSAdapter_Remove(t *testing.T) {
	fs := NewLocalSourceFSAdapter()

	path := filepath.Join(t.TempDir(), "a.c")
	writeTestFile(t, path, "int a;\n")

	require.NoError(t, fs.Remove(m.Path(path)))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
