// Package shapefile reads and writes the ESRI shapefiles the mapping
// workflow exchanges with the desktop GIS tools.
package shapefile

import (
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/geometry"
	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/model"
)

// ReadFeatures reads a polygon shapefile into model features. The feature ID
// is the zero-based record number. All DBF attributes are carried as trimmed
// strings keyed by their field name. Records without a usable polygon shape
// are skipped and counted.
func ReadFeatures(path string) ([]model.Feature, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "shapefile: open %s", path)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimRight(f.String(), "\x00")
	}

	var features []model.Feature
	var skipped int

	for reader.Next() {
		n, shape := reader.Shape()

		poly, ok := shape.(*shp.Polygon)
		if !ok || poly == nil {
			skipped++
			continue
		}
		g, rewound := polygonToGeom(poly)
		if g == nil {
			skipped++
			continue
		}

		attrs := make(map[string]string, len(names))
		for i, name := range names {
			val := strings.TrimSpace(strings.TrimRight(reader.Attribute(i), "\x00"))
			attrs[name] = val
		}

		features = append(features, model.Feature{ID: n, Attrs: attrs, Geom: g, Rewound: rewound})
	}

	if skipped > 0 {
		zap.L().Warn("shapefile: skipped records without polygon geometry",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	return features, nil
}

// FieldNames returns the DBF field names of a shapefile in layer order.
func FieldNames(path string) ([]string, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "shapefile: open %s", path)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimRight(f.String(), "\x00")
	}
	return names, nil
}

// ReadRegions reads the validation-region layer. The region identity is
// taken from idField (falling back to the record number when blank).
func ReadRegions(path, idField string) ([]model.Region, error) {
	features, err := ReadFeatures(path)
	if err != nil {
		return nil, err
	}
	regions := make([]model.Region, 0, len(features))
	for _, f := range features {
		id := f.Attrs[idField]
		if id == "" {
			zap.L().Warn("shapefile: region without ID attribute, using record number",
				zap.String("field", idField),
				zap.Int("record", f.ID),
			)
			id = "region-" + strconv.Itoa(f.ID)
		}
		regions = append(regions, model.Region{ID: id, Geom: f.Geom})
	}
	return regions, nil
}

// polygonToGeom converts a shapefile polygon record to a go-geom Polygon or
// MultiPolygon. Shapefile exterior rings wind clockwise; a clockwise part
// starts a new polygon and counter-clockwise parts become holes of the
// polygon they follow. Rings are rewound to the in-memory convention
// (counter-clockwise exteriors, clockwise holes) on the way in; rewound
// reports whether the record violated the shapefile convention, which it
// did when a ring used as an exterior wound counter-clockwise in the file.
func polygonToGeom(p *shp.Polygon) (geom.T, bool) {
	if p.NumParts == 0 || len(p.Points) == 0 {
		return nil, false
	}

	type ringT struct {
		flat []float64
		ccw  bool
	}
	rings := make([]ringT, 0, p.NumParts)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}
		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}
		if len(flat) < 8 {
			continue
		}
		rings = append(rings, ringT{flat: flat, ccw: geometry.IsCCW(flat)})
	}
	if len(rings) == 0 {
		return nil, false
	}

	rewound := false
	var polys []*geom.Polygon
	var flat []float64
	var ends []int
	flush := func() {
		if len(ends) > 0 {
			polys = append(polys, geom.NewPolygonFlat(geom.XY, flat, ends))
			flat, ends = nil, nil
		}
	}
	for _, r := range rings {
		exterior := !r.ccw || len(ends) == 0
		if exterior {
			flush()
			if r.ccw {
				// Exterior rings wind clockwise in a well-formed file.
				rewound = true
			}
		}
		// Flip to the in-memory convention.
		if r.ccw == exterior {
			flat = append(flat, r.flat...)
		} else {
			flat = append(flat, reverseFlat(r.flat)...)
		}
		ends = append(ends, len(flat))
	}
	flush()

	if len(polys) == 1 {
		return polys[0], rewound
	}
	mp := geom.NewMultiPolygon(geom.XY)
	for _, poly := range polys {
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("shapefile: skipping malformed polygon part", zap.Error(err))
		}
	}
	if mp.NumPolygons() == 0 {
		return nil, false
	}
	return mp, rewound
}
