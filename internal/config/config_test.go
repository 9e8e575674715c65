package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_FlagWins(t *testing.T) {
	flagDir := t.TempDir()
	envDir := t.TempDir()
	t.Setenv(EnvDataDir, envDir)

	cfg, err := Resolve(flagDir)
	require.NoError(t, err)
	assert.Equal(t, flagDir, cfg.DataDir)
}

func TestResolve_EnvFallback(t *testing.T) {
	envDir := t.TempDir()
	t.Setenv(EnvDataDir, envDir)

	cfg, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, envDir, cfg.DataDir)
}

func TestResolve_MissingDirectory(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}

func TestConfig_Paths(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Resolve(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "projects"), cfg.ProjectsDir())
	assert.Equal(t, filepath.Join(dir, "history.jsonl"), cfg.HistoryPath())
	assert.Equal(t, filepath.Join(dir, "todos"), cfg.TodosDir())
}
