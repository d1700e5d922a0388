package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/geometry"
	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/model"
	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/report"
	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/sampler"
	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/shapefile"
	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/store"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate stratified validation sample layers",
	Long:  "Assigns reef features to validation regions by centroid, draws a seeded random sample per region, and writes the Feature-centroid, Polygon-extent, and Boundary-error layers per batch.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if f, _ := cmd.Flags().GetString("features"); f != "" {
			cfg.Inputs.Features = f
		}
		if r, _ := cmd.Flags().GetString("regions"); r != "" {
			cfg.Inputs.Regions = r
		}
		if cmd.Flags().Changed("seed") {
			cfg.Sample.Seed, _ = cmd.Flags().GetInt64("seed")
		}
		if cfg.Inputs.Features == "" || cfg.Inputs.Regions == "" {
			return eris.New("sample: features and regions inputs are required")
		}

		features, err := shapefile.ReadFeatures(cfg.Inputs.Features)
		if err != nil {
			return err
		}
		regions, err := shapefile.ReadRegions(cfg.Inputs.Regions, cfg.Inputs.RegionID)
		if err != nil {
			return err
		}
		zap.L().Info("loaded input layers",
			zap.Int("features", len(features)),
			zap.Int("regions", len(regions)),
		)

		var coastline []geom.T
		if cfg.Inputs.Coastline != "" {
			land, err := shapefile.ReadFeatures(cfg.Inputs.Coastline)
			if err != nil {
				return err
			}
			for _, f := range land {
				coastline = append(coastline, f.Geom)
			}
			zap.L().Info("loaded coastline", zap.Int("polygons", len(land)))
		}

		metersPerUnit := 1.0
		wkt, err := shapefile.ReadPrj(cfg.Inputs.Features)
		if err != nil {
			return err
		}
		if shapefile.GeographicCRS(wkt) {
			metersPerUnit = geometry.MetersPerDegree
			zap.L().Info("geographic CRS detected, converting metre tolerances to degrees")
		}

		s, err := sampler.New(sampler.Options{
			BatchSize:           cfg.Sample.BatchSize,
			NumBatches:          cfg.Sample.NumBatches,
			SimplifyToleranceM:  cfg.Sample.SimplifyToleranceM,
			FuzzDistanceM:       cfg.Sample.FuzzDistanceM,
			Seed:                cfg.Sample.Seed,
			ExtentMode:          sampler.ExtentMode(cfg.Sample.ExtentMode),
			SmallPerimeterM:     cfg.Sample.SmallPerimeterM,
			SmallPoints:         cfg.Sample.SmallPoints,
			LargePoints:         cfg.Sample.LargePoints,
			MaxAttemptsPerPoint: cfg.Sample.MaxAttemptsPerPoint,
			MetersPerUnit:       metersPerUnit,
			Coastline:           coastline,
		})
		if err != nil {
			return err
		}

		result, err := s.Run(features, regions)
		if err != nil {
			return err
		}

		writer := &sampler.OutputWriter{
			Dir:        cfg.Output.Dir,
			Prefix:     cfg.Output.Prefix,
			SourcePath: cfg.Inputs.Features,
			Validators: cfg.Sample.Validators,
		}
		if err := writer.WriteBatches(result); err != nil {
			return err
		}

		runID, err := recordRun(ctx, result)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
			return eris.Wrapf(err, "sample: create output dir %s", cfg.Output.Dir)
		}
		summaryPath := filepath.Join(cfg.Output.Dir, cfg.Output.Prefix+"_validation-summary.xlsx")
		if err := report.Write(summaryPath, runID, result); err != nil {
			return err
		}

		formatRunSummary(os.Stdout, runID, result)
		return nil
	},
}

func recordRun(ctx context.Context, result *model.RunResult) (string, error) {
	manifest, err := store.Open(cfg.Manifest.Path)
	if err != nil {
		return "", err
	}
	defer func() { _ = manifest.Close() }()

	if err := manifest.Migrate(ctx); err != nil {
		return "", err
	}
	return manifest.RecordRun(ctx,
		cfg.Sample.Seed, cfg.Sample.BatchSize, cfg.Sample.NumBatches,
		cfg.Sample.ExtentMode, result,
	)
}

func formatRunSummary(w io.Writer, runID string, result *model.RunResult) {
	fmt.Fprintf(w, "Run %s complete\n", runID)
	for _, s := range result.Summaries {
		if s.Shortfall > 0 {
			fmt.Fprintf(w, "  %-24s available=%d sampled=%d shortfall=%d\n", s.RegionID, s.Available, s.Sampled, s.Shortfall)
		} else {
			fmt.Fprintf(w, "  %-24s available=%d sampled=%d\n", s.RegionID, s.Available, s.Sampled)
		}
	}
	if len(result.Exclusions) > 0 {
		fmt.Fprintf(w, "  excluded features: %d (see summary workbook)\n", len(result.Exclusions))
	}
}

func init() {
	sampleCmd.Flags().String("features", "", "reef-features polygon shapefile (overrides config)")
	sampleCmd.Flags().String("regions", "", "validation-regions shapefile (overrides config)")
	sampleCmd.Flags().Int64("seed", 0, "random seed (overrides config)")
	rootCmd.AddCommand(sampleCmd)
}
