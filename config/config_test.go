package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "sqlite", cfg.Journal.Type)
	assert.Equal(t, 2.0, cfg.Analysis.RiskFreeRate)
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Journal.Type = "postgres"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Journal.DBPath = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Analysis.RiskFreeRate = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Analysis.From = "2024-06-01"
	cfg.Analysis.To = "2024-01-01"
	assert.Error(t, cfg.Validate())
}

func TestSaveLoadRoundTripYAML(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Analysis.Strategies = []string{"Iron Condor"}
	cfg.Analysis.From = "2024-01-01"

	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, cfg.SaveToFile(path))

	got, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	from, to, err := got.DateRange()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), from)
	assert.True(t, to.IsZero())
}

func TestSaveLoadRoundTripJSON(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Analysis.NormalizeToOneLot = true

	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, cfg.SaveToFile(path))

	got, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
