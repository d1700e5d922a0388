package main

import (
	"fmt"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/overlap"
	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/shapefile"
)

var cleanOverlapsCmd = &cobra.Command{
	Use:   "clean-overlaps",
	Short: "Resolve overlaps between reef classes",
	Long: "Carves High Intertidal Coral Reef geometry out of overlapping Platform " +
		"and Fringing Coral Reef features, drops features the carve fully consumes, " +
		"and emits a point layer marking each carve site for review.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if in, _ := cmd.Flags().GetString("input"); in != "" {
			cfg.Overlap.Input = in
		}
		if out, _ := cmd.Flags().GetString("output"); out != "" {
			cfg.Overlap.Output = out
		}
		if cfg.Overlap.Input == "" || cfg.Overlap.Output == "" {
			return eris.New("clean-overlaps: input and output are required")
		}

		features, err := shapefile.ReadFeatures(cfg.Overlap.Input)
		if err != nil {
			return err
		}
		names, err := shapefile.FieldNames(cfg.Overlap.Input)
		if err != nil {
			return err
		}

		result := overlap.Clean(features, cfg.Overlap.MinOverlapArea, cfg.Overlap.BoundaryEps)

		fields := make([]shp.Field, 0, len(names))
		for _, name := range names {
			fields = append(fields, shp.StringField(name, 64))
		}
		records := make([]shapefile.PolygonRecord, 0, len(result.Features))
		for _, f := range result.Features {
			attrs := make([]any, 0, len(names))
			for _, name := range names {
				attrs = append(attrs, f.Attrs[name])
			}
			records = append(records, shapefile.PolygonRecord{Geom: f.Geom, Attrs: attrs})
		}
		if err := shapefile.WritePolygons(cfg.Overlap.Output, fields, records); err != nil {
			return err
		}
		if err := shapefile.CopyPrj(cfg.Overlap.Input, cfg.Overlap.Output); err != nil {
			return err
		}

		if cfg.Overlap.PointsOutput != "" {
			pointFields := []shp.Field{
				shp.NumberField("PriorID", 10),
				shp.NumberField("TargetID", 10),
			}
			points := make([]shapefile.PointRecord, 0, len(result.Markers))
			for _, m := range result.Markers {
				points = append(points, shapefile.PointRecord{
					X: m.X, Y: m.Y,
					Attrs: []any{m.PriorityID, m.TargetID},
				})
			}
			if err := shapefile.WritePoints(cfg.Overlap.PointsOutput, pointFields, points); err != nil {
				return err
			}
			if err := shapefile.CopyPrj(cfg.Overlap.Input, cfg.Overlap.PointsOutput); err != nil {
				return err
			}
		}

		fmt.Printf("Kept %d features (%d carved), dropped %d, %d overlap markers\n",
			len(result.Features), len(result.Carved), len(result.Dropped), len(result.Markers))
		return nil
	},
}

func init() {
	cleanOverlapsCmd.Flags().String("input", "", "input polygon shapefile")
	cleanOverlapsCmd.Flags().String("output", "", "output polygon shapefile")
	rootCmd.AddCommand(cleanOverlapsCmd)
}
