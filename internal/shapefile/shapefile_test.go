package shapefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/geometry"
)

func square(minX, minY, size float64) *geom.Polygon {
	flat := []float64{
		minX, minY,
		minX + size, minY,
		minX + size, minY + size,
		minX, minY + size,
		minX, minY,
	}
	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})
}

func TestWriteReadPolygons(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reef.shp")
	fields := []shp.Field{
		shp.StringField("RB_Type_L3", 32),
		shp.StringField("EdgeSrc", 32),
	}
	records := []PolygonRecord{
		{Geom: square(0, 0, 10), Attrs: []any{"Platform Coral Reef", "S2"}},
		{Geom: square(100, 100, 20), Attrs: []any{"Fringing Coral Reef", "Landsat"}},
	}
	require.NoError(t, WritePolygons(path, fields, records))

	features, err := ReadFeatures(path)
	require.NoError(t, err)
	require.Len(t, features, 2)

	assert.Equal(t, "Platform Coral Reef", features[0].Attrs["RB_Type_L3"])
	assert.Equal(t, "S2", features[0].Attrs["EdgeSrc"])
	assert.Equal(t, "Fringing Coral Reef", features[1].Attrs["RB_Type_L3"])

	assert.InDelta(t, 100, geometry.Area(features[0].Geom), 1e-6)
	assert.InDelta(t, 400, geometry.Area(features[1].Geom), 1e-6)
	assert.True(t, geometry.Contains(features[0].Geom, 5, 5))
	assert.True(t, geometry.Contains(features[1].Geom, 110, 110))
}

func TestWriteReadPolygonWithHole(t *testing.T) {
	t.Parallel()

	outer := []float64{0, 0, 10, 0, 10, 10, 0, 10, 0, 0}
	hole := []float64{4, 4, 4, 6, 6, 6, 6, 4, 4, 4}
	flat := append(append([]float64{}, outer...), hole...)
	donut := geom.NewPolygonFlat(geom.XY, flat, []int{len(outer), len(outer) + len(hole)})

	path := filepath.Join(t.TempDir(), "donut.shp")
	fields := []shp.Field{shp.StringField("Name", 16)}
	require.NoError(t, WritePolygons(path, fields, []PolygonRecord{{Geom: donut, Attrs: []any{"donut"}}}))

	features, err := ReadFeatures(path)
	require.NoError(t, err)
	require.Len(t, features, 1)

	g := features[0].Geom
	assert.InDelta(t, 96, geometry.Area(g), 1e-6)
	assert.False(t, geometry.Contains(g, 5, 5))
	assert.True(t, geometry.Contains(g, 2, 2))
}

func TestReadFeaturesNormalizesWinding(t *testing.T) {
	t.Parallel()

	outer := []float64{0, 0, 10, 0, 10, 10, 0, 10, 0, 0}
	hole := []float64{4, 4, 4, 6, 6, 6, 6, 4, 4, 4}
	flat := append(append([]float64{}, outer...), hole...)
	donut := geom.NewPolygonFlat(geom.XY, flat, []int{len(outer), len(outer) + len(hole)})

	path := filepath.Join(t.TempDir(), "wound.shp")
	fields := []shp.Field{shp.StringField("Name", 16)}
	require.NoError(t, WritePolygons(path, fields, []PolygonRecord{
		{Geom: donut, Attrs: []any{"donut"}},
		{Geom: square(20, 0, 5), Attrs: []any{"plain"}},
	}))

	features, err := ReadFeatures(path)
	require.NoError(t, err)
	require.Len(t, features, 2)

	for _, f := range features {
		assert.False(t, f.Rewound, "feature %d", f.ID)
	}

	got, ok := features[0].Geom.(*geom.Polygon)
	require.True(t, ok)
	require.Equal(t, 2, got.NumLinearRings())
	assert.True(t, geometry.IsCCW(got.LinearRing(0).FlatCoords()))
	assert.False(t, geometry.IsCCW(got.LinearRing(1).FlatCoords()))
}

func TestReadFeaturesFlagsMiswoundExterior(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "miswound.shp")
	writer, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	writer.SetFields([]shp.Field{shp.StringField("Name", 16)})

	// Exterior ring wound counter-clockwise, against the format convention.
	pts := []shp.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0}}
	writer.Write(&shp.Polygon{
		Box:       shp.BBoxFromPoints(pts),
		NumParts:  1,
		NumPoints: int32(len(pts)),
		Parts:     []int32{0},
		Points:    pts,
	})
	writer.WriteAttribute(0, 0, "bad")
	writer.Close()

	features, err := ReadFeatures(path)
	require.NoError(t, err)
	require.Len(t, features, 1)

	assert.True(t, features[0].Rewound)
	got, ok := features[0].Geom.(*geom.Polygon)
	require.True(t, ok)
	assert.True(t, geometry.IsCCW(got.LinearRing(0).FlatCoords()))
	assert.InDelta(t, 100, geometry.Area(got), 1e-6)
}

func TestWriteReadPoints(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "centroids.shp")
	fields := []shp.Field{
		shp.NumberField("ValidID", 10),
		shp.StringField("FeatExists", 32),
	}
	records := []PointRecord{
		{X: 1.5, Y: 2.5, Attrs: []any{1, ""}},
		{X: -3, Y: 4, Attrs: []any{2, ""}},
	}
	require.NoError(t, WritePoints(path, fields, records))

	reader, err := shp.Open(path)
	require.NoError(t, err)
	defer reader.Close()

	var pts []shp.Point
	for reader.Next() {
		_, shape := reader.Shape()
		pt, ok := shape.(*shp.Point)
		require.True(t, ok)
		pts = append(pts, *pt)
	}
	require.Len(t, pts, 2)
	assert.Equal(t, shp.Point{X: 1.5, Y: 2.5}, pts[0])
	assert.Equal(t, shp.Point{X: -3, Y: 4}, pts[1])
}

func TestReadRegionsIDFallback(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "regions.shp")
	fields := []shp.Field{shp.StringField("RegionID", 32)}
	records := []PolygonRecord{
		{Geom: square(0, 0, 10), Attrs: []any{"North Kimberley"}},
		{Geom: square(20, 0, 10), Attrs: []any{""}},
	}
	require.NoError(t, WritePolygons(path, fields, records))

	regions, err := ReadRegions(path, "RegionID")
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, "North Kimberley", regions[0].ID)
	assert.Equal(t, "region-1", regions[1].ID)
}

func TestFieldNames(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "named.shp")
	fields := []shp.Field{
		shp.StringField("RB_Type_L3", 32),
		shp.NumberField("EdgeAcc_m", 10),
	}
	require.NoError(t, WritePolygons(path, fields, []PolygonRecord{
		{Geom: square(0, 0, 1), Attrs: []any{"x", 1}},
	}))

	names, err := FieldNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"RB_Type_L3", "EdgeAcc_m"}, names)
}

func TestCopyPrj(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src.shp")
	dst := filepath.Join(dir, "dst.shp")

	wkt := `PROJCS["GDA2020 / MGA zone 51",GEOGCS["GDA2020"]]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src.prj"), []byte(wkt), 0o644))

	require.NoError(t, CopyPrj(src, dst))
	data, err := os.ReadFile(filepath.Join(dir, "dst.prj"))
	require.NoError(t, err)
	assert.Equal(t, wkt, string(data))
}

func TestCopyPrjMissingSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, CopyPrj(filepath.Join(dir, "none.shp"), filepath.Join(dir, "out.shp")))
	_, err := os.Stat(filepath.Join(dir, "out.prj"))
	assert.True(t, os.IsNotExist(err))
}

func TestGeographicCRS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		wkt  string
		want bool
	}{
		{"geographic", `GEOGCS["GDA94",DATUM["GDA94"]]`, true},
		{"geographic 2019", `GEOGCRS["GDA2020"]`, true},
		{"projected", `PROJCS["GDA2020 / MGA zone 51"]`, false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, GeographicCRS(tt.wkt))
		})
	}
}
