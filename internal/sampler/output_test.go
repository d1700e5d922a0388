package sampler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/model"
)

func sampleResult(t *testing.T) *model.RunResult {
	t.Helper()

	region, features := regionGrid(0, 25)
	s, err := New(defaultOpts())
	require.NoError(t, err)
	result, err := s.Run(features, []model.Region{region})
	require.NoError(t, err)
	return result
}

func TestWriteBatchesLayout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := &OutputWriter{Dir: dir, Prefix: "NW-Aus-Features-v0-4"}

	require.NoError(t, w.WriteBatches(sampleResult(t)))

	// 25 features over batch size 10 fills three batches.
	for _, batch := range []string{"01", "02", "03"} {
		for _, layer := range []string{LayerCentroid, LayerExtent, LayerBoundary} {
			path := filepath.Join(dir, "NW-Aus-Features-v0-4_"+layer+"-"+batch+".shp")
			_, err := os.Stat(path)
			assert.NoError(t, err, "missing %s", path)
		}
	}

	_, err := os.Stat(filepath.Join(dir, "NW-Aus-Features-v0-4_"+LayerCentroid+"-04.shp"))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteBatchesPerValidator(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := &OutputWriter{
		Dir:        dir,
		Prefix:     "NW-Aus-Features-v0-4",
		Validators: []string{"EL", "MP"},
	}

	require.NoError(t, w.WriteBatches(sampleResult(t)))

	for _, validator := range []string{"EL", "MP"} {
		path := filepath.Join(dir, validator,
			"NW-Aus-Features-v0-4_"+LayerCentroid+"-01_"+validator+".shp")
		_, err := os.Stat(path)
		assert.NoError(t, err, "missing %s", path)
	}
}
