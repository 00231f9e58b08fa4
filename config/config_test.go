package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LEDGER_CONFIG", "")

	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.Flat())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ledger.yaml", `files:
  - main.ledger
  - /abs/other.ledger
color: false
balance_style: flat
account_width: 40
`)

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "main.ledger"), "/abs/other.ledger"}, cfg.Files)
	assert.NotZero(t, cfg.Color)
	assert.False(t, *cfg.Color)
	assert.True(t, cfg.Flat())
	assert.Equal(t, 40, cfg.AccountWidth)
}

func TestLoadFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ledger.yaml", "balance_style: flat\n")

	t.Setenv("LEDGER_CONFIG", path)
	t.Setenv("LEDGER_BALANCE_STYLE", "tree")
	t.Setenv("LEDGER_ACCOUNT_WIDTH", "12")
	t.Setenv("LEDGER_DEBUG", "true")

	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, StyleTree, cfg.BalanceStyle)
	assert.Equal(t, 12, cfg.AccountWidth)
	assert.True(t, cfg.Debug)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LEDGER_CONFIG", "")

	tests := []struct {
		name    string
		path    string
		env     map[string]string
		message string
	}{
		{
			name:    "missing explicit file",
			path:    filepath.Join(dir, "missing.yaml"),
			message: "no such file or directory",
		},
		{
			name:    "unknown key",
			path:    writeFile(t, dir, "unknown.yaml", "colour: true\n"),
			message: "field colour not found",
		},
		{
			name:    "invalid style",
			path:    writeFile(t, dir, "style.yaml", "balance_style: nested\n"),
			message: `invalid balance_style "nested"`,
		},
		{
			name:    "negative width",
			path:    writeFile(t, dir, "width.yaml", "account_width: -1\n"),
			message: "invalid account_width -1",
		},
		{
			name:    "invalid env width",
			path:    writeFile(t, dir, "empty.yaml", "{}\n"),
			env:     map[string]string{"LEDGER_ACCOUNT_WIDTH": "wide"},
			message: "invalid LEDGER_ACCOUNT_WIDTH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(tt.path)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "LEDGER_FILE=from-dotenv.ledger\n")

	t.Setenv("LEDGER_FILE", "")
	os.Unsetenv("LEDGER_FILE")

	assert.NoError(t, LoadEnv(path))
	assert.Equal(t, "from-dotenv.ledger", os.Getenv("LEDGER_FILE"))

	assert.Error(t, LoadEnv(filepath.Join(dir, "missing.env")))
}
