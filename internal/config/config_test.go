package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
logging:
  level: debug
solver:
  seed: 42
  chains: 2
  ga:
    population: 64
    generations: 150
  sa:
    budget: 20000
  weights:
    gaps: 2.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, int64(42), cfg.Solver.Seed)
	assert.Equal(t, 2, cfg.Solver.Chains)
	assert.Equal(t, 64, cfg.Solver.GA.Population)
	assert.Equal(t, 150, cfg.Solver.GA.Generations)
	assert.Equal(t, 20000, cfg.Solver.SA.Budget)
	assert.Equal(t, 2.5, cfg.Solver.Weights.Gaps)

	// Незаданные поля сохраняют значения по умолчанию
	assert.Equal(t, Default().Solver.GA.Elite, cfg.Solver.GA.Elite)
	assert.Equal(t, Default().Solver.SA.Alpha, cfg.Solver.SA.Alpha)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"solver": {"ga": {"population": 30}}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Solver.GA.Population)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeFile(t, "config.yaml", "solver:\n  ga:\n    population: 64\n")
	t.Setenv("TT_SOLVER__GA__POPULATION", "128")
	t.Setenv("TT_LOGGING__LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.Solver.GA.Population)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadRejectsInvalidSolver(t *testing.T) {
	path := writeFile(t, "config.yaml", "solver:\n  ga:\n    population: 1\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadUnknownExtension(t *testing.T) {
	path := writeFile(t, "config.toml", "x = 1\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "нет.yaml"))
	assert.Error(t, err)
}

func TestDefaultValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Solver.Validate())
	assert.Equal(t, "info", cfg.Logging.Level)
}
