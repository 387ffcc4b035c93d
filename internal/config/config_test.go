package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, []string{".c"}, cfg.Extensions)
	assert.Equal(t, ".stub", cfg.OutputSuffix)
	assert.Equal(t, []string{"utf-8", "gb18030", "gbk", "latin1"}, cfg.FallbackEncodings)
	assert.False(t, cfg.BlanketInsert)
	assert.Equal(t, 1, cfg.Workers)
	assert.True(t, cfg.Backup)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stubweave.yaml")

	content := `extensions: [".c", ".h"]
workers: 4
blanket_insert: true
backup: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{".c", ".h"}, cfg.Extensions)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.BlanketInsert)
	assert.False(t, cfg.Backup)

	// Untouched keys keep their defaults.
	assert.Equal(t, ".stub", cfg.OutputSuffix)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: [not a number"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EmptyOutputSuffixRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stubweave.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`output_suffix: ""`), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_ClampsWorkers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stubweave.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 0"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Workers)
}

func TestScansExtension(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.ScansExtension(".c"))
	assert.False(t, cfg.ScansExtension(".go"))
}
