package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/model"
	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/shapefile"
	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export <run-id> <output.geojson>",
	Short: "Export a recorded run's sampled features as GeoJSON",
	Long:  "Looks a sampler run up in the manifest and re-emits its sampled features as a GeoJSON feature collection, joining the recorded feature IDs back to the source polygon layer. Useful for web-map previews of what a review batch covers.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		runID, output := args[0], args[1]

		if f, _ := cmd.Flags().GetString("features"); f != "" {
			cfg.Inputs.Features = f
		}
		if cfg.Inputs.Features == "" {
			return eris.New("export: features input is required")
		}

		manifest, err := store.Open(cfg.Manifest.Path)
		if err != nil {
			return err
		}
		defer func() { _ = manifest.Close() }()
		if err := manifest.Migrate(cmd.Context()); err != nil {
			return err
		}

		records, err := manifest.GetRecords(cmd.Context(), runID)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return eris.Errorf("export: run %s has no records", runID)
		}

		features, err := shapefile.ReadFeatures(cfg.Inputs.Features)
		if err != nil {
			return err
		}

		fc, missing := runCollection(records, features)
		if len(missing) > 0 {
			zap.L().Warn("export: recorded features missing from source layer",
				zap.Ints("feature_ids", missing),
			)
		}

		data, err := json.MarshalIndent(fc, "", "  ")
		if err != nil {
			return eris.Wrap(err, "export: encode feature collection")
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return eris.Wrapf(err, "export: write %s", output)
		}

		fmt.Printf("Exported %d of %d recorded features to %s\n", len(fc.Features), len(records), output)
		return nil
	},
}

// runCollection joins run records back to the source features. Records whose
// feature is no longer in the layer are reported as missing, not fatal; the
// source file may have been edited since the run.
func runCollection(records []store.Record, features []model.Feature) (*geojson.FeatureCollection, []int) {
	byID := make(map[int]model.Feature, len(features))
	for _, f := range features {
		byID[f.ID] = f
	}

	fc := &geojson.FeatureCollection{}
	var missing []int
	for _, rec := range records {
		f, ok := byID[rec.FeatureID]
		if !ok {
			missing = append(missing, rec.FeatureID)
			continue
		}
		props := make(map[string]interface{}, len(f.Attrs)+4)
		for k, v := range f.Attrs {
			props[k] = v
		}
		props["valid_id"] = rec.ValidID
		props["feature_id"] = rec.FeatureID
		props["region"] = rec.RegionID
		props["batch"] = rec.Batch
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         strconv.Itoa(rec.ValidID),
			Geometry:   f.Geom,
			Properties: props,
		})
	}
	return fc, missing
}

func init() {
	exportCmd.Flags().String("features", "", "reef-features polygon shapefile (overrides config)")
	rootCmd.AddCommand(exportCmd)
}
