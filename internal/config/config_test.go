package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "radpipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.ProjectDir)
	assert.Empty(t, cfg.JournalPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Quiet)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
project_dir: /data/pond
journal_path: /data/pond/journal.db
quiet: true
log_level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/pond", cfg.ProjectDir)
	assert.Equal(t, "/data/pond/journal.db", cfg.JournalPath)
	assert.True(t, cfg.Quiet)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("RADPIPE_TEST_DIR", "/mnt/scratch")
	path := writeConfig(t, "project_dir: ${RADPIPE_TEST_DIR}/proj\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/mnt/scratch/proj", cfg.ProjectDir)
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	path := writeConfig(t, "log_level: chatty\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chatty")
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "quiet: true\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Quiet)
	assert.Equal(t, ".", cfg.ProjectDir)
	assert.Equal(t, "info", cfg.LogLevel)
}
