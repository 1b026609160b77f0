package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadParsesCommandsAndParameters(t *testing.T) {
	path := writeJSON(t, `{
		"discipline": "rr",
		"commands": ["/bin/echo a", "/bin/echo b"],
		"quantum_ms": 500
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "rr", cfg.Discipline)
	assert.Equal(t, []string{"/bin/echo a", "/bin/echo b"}, cfg.Commands)
	assert.Equal(t, 500, cfg.QuantumMS)
}

func TestValidateRRRequiresPositiveQuantum(t *testing.T) {
	cfg := &Config{Discipline: "rr", QuantumMS: 0}
	assert.Error(t, cfg.Validate())

	cfg.QuantumMS = 500
	assert.NoError(t, cfg.Validate())
}

func TestValidateMLFQRequiresOrderedQuanta(t *testing.T) {
	cfg := &Config{Discipline: "mlfq_offline", Quantum0MS: 1000, Quantum1MS: 500, Quantum2MS: 2000, BoostMS: 4000}
	assert.Error(t, cfg.Validate())

	cfg.Quantum0MS, cfg.Quantum1MS = 500, 1000
	assert.NoError(t, cfg.Validate())
}

func TestValidateClampsHistoryWindowAbove50(t *testing.T) {
	cfg := &Config{Discipline: "sjf_online", HistoryWindowK: 1000}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 50, cfg.HistoryWindowK)
}

func TestValidateRejectsZeroHistoryWindow(t *testing.T) {
	cfg := &Config{Discipline: "sjf_online", HistoryWindowK: 0}
	assert.Error(t, cfg.Validate())
}
