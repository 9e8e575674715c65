// Package config resolves the Claude data directory and shared CLI defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvDataDir overrides the default data directory location.
const EnvDataDir = "CLAUDE_DATA_DIR"

// Defaults for the duplicates command. The similarity threshold default
// lives with the engine; these are the caller-side presentation knobs.
const (
	DefaultMinCount  = 2
	DefaultLimit     = 50
	DefaultMinLength = 4
)

// Config holds resolved paths into the Claude data directory.
type Config struct {
	DataDir string
}

// DefaultDataDir returns ~/.claude.
func DefaultDataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".claude")
}

// Resolve picks the data directory with flag > environment > default
// precedence and verifies it exists.
func Resolve(flagValue string) (*Config, error) {
	dir := flagValue
	if dir == "" {
		dir = os.Getenv(EnvDataDir)
	}
	if dir == "" {
		dir = DefaultDataDir()
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data directory %s is not a directory", dir)
	}

	return &Config{DataDir: dir}, nil
}

// ProjectsDir returns the directory holding per-project session transcripts.
func (c *Config) ProjectsDir() string {
	return filepath.Join(c.DataDir, "projects")
}

// HistoryPath returns the prompt history file path.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "history.jsonl")
}

// TodosDir returns the directory holding per-session todo lists.
func (c *Config) TodosDir() string {
	return filepath.Join(c.DataDir, "todos")
}
