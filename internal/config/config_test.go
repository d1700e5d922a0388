package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test,
// matching the behavior of (*testing.T).Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "RegionID", cfg.Inputs.RegionID)
	assert.Equal(t, "working/20", cfg.Output.Dir)
	assert.Equal(t, "NW-Aus-Features-v0-4", cfg.Output.Prefix)
	assert.Equal(t, 10, cfg.Sample.BatchSize)
	assert.Equal(t, 10, cfg.Sample.NumBatches)
	assert.Equal(t, 50.0, cfg.Sample.SimplifyToleranceM)
	assert.Equal(t, 50.0, cfg.Sample.FuzzDistanceM)
	assert.Equal(t, int64(42), cfg.Sample.Seed)
	assert.Equal(t, ExtentModeBBox, cfg.Sample.ExtentMode)
	assert.Equal(t, 2000.0, cfg.Sample.SmallPerimeterM)
	assert.Equal(t, 1, cfg.Sample.SmallPoints)
	assert.Equal(t, 3, cfg.Sample.LargePoints)
	assert.Equal(t, 10, cfg.Sample.MaxAttemptsPerPoint)
	assert.Equal(t, 0.0005, cfg.Overlap.MinOverlapArea)
	assert.Equal(t, 1e-9, cfg.Overlap.BoundaryEps)
	assert.Equal(t, "validation-runs.db", cfg.Manifest.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
inputs:
  features: in/reef.shp
  regions: in/regions.shp
sample:
  batch_size: 5
  seed: 7
  validators:
    - EL
    - MP
  extent_mode: fuzzed
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "in/reef.shp", cfg.Inputs.Features)
	assert.Equal(t, "in/regions.shp", cfg.Inputs.Regions)
	assert.Equal(t, 5, cfg.Sample.BatchSize)
	assert.Equal(t, int64(7), cfg.Sample.Seed)
	assert.Equal(t, []string{"EL", "MP"}, cfg.Sample.Validators)
	assert.Equal(t, ExtentModeFuzzed, cfg.Sample.ExtentMode)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Unset keys keep their defaults.
	assert.Equal(t, 10, cfg.Sample.NumBatches)
	assert.Equal(t, "NW-Aus-Features-v0-4", cfg.Output.Prefix)
}

func TestLoadBadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{not yaml"), 0o644))
	chdir(t, dir)

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LogConfig
		wantErr bool
	}{
		{"json info", LogConfig{Level: "info", Format: "json"}, false},
		{"console debug", LogConfig{Level: "debug", Format: "console"}, false},
		{"bad level", LogConfig{Level: "loud", Format: "json"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InitLogger(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
