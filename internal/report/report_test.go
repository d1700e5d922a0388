package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"github.com/twpayne/go-geom"

	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/model"
)

func TestWriteWorkbook(t *testing.T) {
	t.Parallel()

	pt := geom.NewPointFlat(geom.XY, []float64{1, 2})
	result := &model.RunResult{
		Batches: map[int][]*model.ValidationRecord{
			1: {
				{ValidID: 1, FeatureID: 10, RegionID: "RA", Batch: 1, Centroid: pt,
					BoundaryPoints: []*geom.Point{pt, pt, pt}},
			},
			2: {
				{ValidID: 2, FeatureID: 11, RegionID: "RA", Batch: 2, Centroid: pt,
					BoundaryPoints: []*geom.Point{pt}},
			},
		},
		Summaries: []model.RegionSummary{
			{RegionID: "RA", Available: 8, Sampled: 8, Shortfall: 92},
		},
		Exclusions: []model.Exclusion{
			{FeatureID: 99, RegionID: "RA", Reason: model.ExclusionInvalidGeometry},
		},
	}

	path := filepath.Join(t.TempDir(), "summary.xlsx")
	require.NoError(t, Write(path, "run-1", result))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	names := make([]string, 0, len(f.Sheets))
	for _, s := range f.Sheets {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Regions", "Exclusions", "Batches", "Run"}, names)

	regions := f.Sheet["Regions"]
	require.NotNil(t, regions)
	require.Len(t, regions.Rows, 2)
	assert.Equal(t, "RA", regions.Rows[1].Cells[0].Value)
	assert.Equal(t, "92", regions.Rows[1].Cells[3].Value)

	batches := f.Sheet["Batches"]
	require.NotNil(t, batches)
	require.Len(t, batches.Rows, 3) // header + two batches
	assert.Equal(t, "3", batches.Rows[1].Cells[2].Value)
	assert.Equal(t, "1", batches.Rows[2].Cells[2].Value)
}
