package sampler

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/model"
	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/shapefile"
)

// Layer name fragments used in output filenames.
const (
	LayerCentroid = "Feature-centroid"
	LayerExtent   = "Polygon-extent"
	LayerBoundary = "Boundary-error"
)

// OutputWriter writes the three validation layers per batch. Each configured
// validator receives an identical copy under their own directory so
// independent assessments cannot be mixed up. With no validators configured
// a single unsuffixed copy is written to Dir.
type OutputWriter struct {
	Dir        string
	Prefix     string
	SourcePath string // features shapefile; its .prj is copied to every output
	Validators []string
}

// WriteBatches writes every batch of the run result.
func (w *OutputWriter) WriteBatches(result *model.RunResult) error {
	batches := make([]int, 0, len(result.Batches))
	for b := range result.Batches {
		batches = append(batches, b)
	}
	sort.Ints(batches)

	validators := w.Validators
	if len(validators) == 0 {
		validators = []string{""}
	}

	for _, batch := range batches {
		records := result.Batches[batch]
		for _, validator := range validators {
			if err := w.writeBatch(batch, validator, records); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *OutputWriter) writeBatch(batch int, validator string, records []*model.ValidationRecord) error {
	dir := w.Dir
	if validator != "" {
		dir = filepath.Join(w.Dir, validator)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "sampler: create output dir %s", dir)
	}

	centroids := make([]shapefile.PointRecord, 0, len(records))
	extents := make([]shapefile.PolygonRecord, 0, len(records))
	var boundary []shapefile.PointRecord
	for _, rec := range records {
		centroids = append(centroids, shapefile.PointRecord{
			X: rec.Centroid.X(),
			Y: rec.Centroid.Y(),
			// Reviewer attributes start blank; review must be blind.
			Attrs: []any{rec.ValidID, "", "", "", "", ""},
		})
		extents = append(extents, shapefile.PolygonRecord{
			Geom:  rec.Extent,
			Attrs: []any{rec.ValidID},
		})
		for _, pt := range rec.BoundaryPoints {
			boundary = append(boundary, shapefile.PointRecord{
				X:     pt.X(),
				Y:     pt.Y(),
				Attrs: []any{rec.ValidID},
			})
		}
	}

	centroidFields := []shp.Field{shp.NumberField("ValidID", 10)}
	for _, name := range model.ReviewerAttributes {
		centroidFields = append(centroidFields, shp.StringField(name, 32))
	}
	idOnly := []shp.Field{shp.NumberField("ValidID", 10)}

	centroidPath := w.layerPath(dir, LayerCentroid, batch, validator)
	if err := shapefile.WritePoints(centroidPath, centroidFields, centroids); err != nil {
		return err
	}
	extentPath := w.layerPath(dir, LayerExtent, batch, validator)
	if err := shapefile.WritePolygons(extentPath, idOnly, extents); err != nil {
		return err
	}
	boundaryPath := w.layerPath(dir, LayerBoundary, batch, validator)
	if err := shapefile.WritePoints(boundaryPath, idOnly, boundary); err != nil {
		return err
	}

	for _, path := range []string{centroidPath, extentPath, boundaryPath} {
		if err := shapefile.CopyPrj(w.SourcePath, path); err != nil {
			return err
		}
	}

	zap.L().Info("sampler: wrote batch",
		zap.Int("batch", batch),
		zap.String("validator", validator),
		zap.Int("records", len(records)),
		zap.Int("boundary_points", len(boundary)),
	)
	return nil
}

// layerPath builds the deterministic output name, e.g.
// NW-Aus-Features-v0-4_Polygon-extent-01_EL.shp.
func (w *OutputWriter) layerPath(dir, layer string, batch int, validator string) string {
	name := fmt.Sprintf("%s_%s-%02d", w.Prefix, layer, batch)
	if validator != "" {
		name += "_" + validator
	}
	return filepath.Join(dir, name+".shp")
}
