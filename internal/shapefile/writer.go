package shapefile

import (
	"os"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/geometry"
)

// PointRecord is one point feature to write, with attribute values in the
// same order as the layer's fields.
type PointRecord struct {
	X, Y  float64
	Attrs []any
}

// PolygonRecord is one polygon feature to write.
type PolygonRecord struct {
	Geom  geom.T
	Attrs []any
}

// WritePoints writes a point shapefile. Field names longer than the DBF
// 10-character limit are truncated by go-shp; callers keep names short.
func WritePoints(path string, fields []shp.Field, records []PointRecord) error {
	writer, err := shp.Create(path, shp.POINT)
	if err != nil {
		return eris.Wrapf(err, "shapefile: create %s", path)
	}
	defer writer.Close()

	writer.SetFields(fields)
	for i, rec := range records {
		writer.Write(&shp.Point{X: rec.X, Y: rec.Y})
		writeAttrs(writer, i, rec.Attrs)
	}
	return nil
}

// WritePolygons writes a polygon shapefile. Exterior rings are written
// clockwise and holes counter-clockwise, as the shapefile format requires.
func WritePolygons(path string, fields []shp.Field, records []PolygonRecord) error {
	writer, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		return eris.Wrapf(err, "shapefile: create %s", path)
	}
	defer writer.Close()

	writer.SetFields(fields)
	for i, rec := range records {
		writer.Write(geomToShpPolygon(rec.Geom))
		writeAttrs(writer, i, rec.Attrs)
	}
	return nil
}

func writeAttrs(writer *shp.Writer, row int, attrs []any) {
	for f, v := range attrs {
		writer.WriteAttribute(row, f, v)
	}
}

// geomToShpPolygon flattens a Polygon or MultiPolygon into a single
// shapefile polygon record with one part per ring.
func geomToShpPolygon(g geom.T) *shp.Polygon {
	out := &shp.Polygon{}
	for _, p := range geometry.Polygons(g) {
		for r := 0; r < p.NumLinearRings(); r++ {
			flat := append([]float64(nil), p.LinearRing(r).FlatCoords()...)
			wantCCW := r != 0 // shapefile holes wind counter-clockwise
			if geometry.IsCCW(flat) != wantCCW {
				flat = reverseFlat(flat)
			}
			out.Parts = append(out.Parts, int32(len(out.Points)))
			n := len(flat) / 2
			for i := 0; i < n; i++ {
				out.Points = append(out.Points, shp.Point{X: flat[2*i], Y: flat[2*i+1]})
			}
			// Close the ring explicitly.
			if n > 0 && (flat[0] != flat[2*n-2] || flat[1] != flat[2*n-1]) {
				out.Points = append(out.Points, shp.Point{X: flat[0], Y: flat[1]})
			}
		}
	}
	out.NumParts = int32(len(out.Parts))
	out.NumPoints = int32(len(out.Points))
	out.Box = shp.BBoxFromPoints(out.Points)
	return out
}

func reverseFlat(flat []float64) []float64 {
	n := len(flat) / 2
	out := make([]float64, 0, len(flat))
	for i := n - 1; i >= 0; i-- {
		out = append(out, flat[2*i], flat[2*i+1])
	}
	return out
}

// CopyPrj copies the .prj sidecar from one shapefile to another so output
// layers carry the same spatial reference as the input. A missing source
// .prj is not an error; the workflow's QGIS stage assigns one manually.
func CopyPrj(srcShp, dstShp string) error {
	data, err := os.ReadFile(withExt(srcShp, ".prj"))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return eris.Wrapf(err, "shapefile: read prj for %s", srcShp)
	}
	if err := os.WriteFile(withExt(dstShp, ".prj"), data, 0o644); err != nil {
		return eris.Wrapf(err, "shapefile: write prj for %s", dstShp)
	}
	return nil
}

// ReadPrj returns the WKT spatial reference of a shapefile, or "" when the
// sidecar is absent.
func ReadPrj(path string) (string, error) {
	data, err := os.ReadFile(withExt(path, ".prj"))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", eris.Wrapf(err, "shapefile: read prj %s", path)
	}
	return strings.TrimSpace(string(data)), nil
}

// GeographicCRS reports whether the WKT describes a degree-based CRS, which
// decides whether metre tolerances need converting.
func GeographicCRS(wkt string) bool {
	if wkt == "" {
		return false
	}
	return strings.HasPrefix(wkt, "GEOGCS") || strings.HasPrefix(wkt, "GEOGCRS")
}

func withExt(shpPath, ext string) string {
	return strings.TrimSuffix(shpPath, ".shp") + ext
}
