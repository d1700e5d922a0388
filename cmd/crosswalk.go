package main

import (
	"fmt"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/crosswalk"
	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/shapefile"
)

var crosswalkCmd = &cobra.Command{
	Use:   "crosswalk",
	Short: "Remap classification codes to a new schema version",
	Long:  "Applies a YAML lookup table to the RB_Type_L3 attribute, corrects ring winding, renames attributes, and writes the re-classified layer.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if t, _ := cmd.Flags().GetString("table"); t != "" {
			cfg.Crosswalk.Table = t
		}
		if in, _ := cmd.Flags().GetString("input"); in != "" {
			cfg.Crosswalk.Input = in
		}
		if out, _ := cmd.Flags().GetString("output"); out != "" {
			cfg.Crosswalk.Output = out
		}
		if cfg.Crosswalk.Table == "" || cfg.Crosswalk.Input == "" || cfg.Crosswalk.Output == "" {
			return eris.New("crosswalk: table, input, and output are required")
		}

		table, err := crosswalk.LoadTable(cfg.Crosswalk.Table)
		if err != nil {
			return err
		}
		features, err := shapefile.ReadFeatures(cfg.Crosswalk.Input)
		if err != nil {
			return err
		}

		result := crosswalk.Apply(table, features)

		fields := make([]shp.Field, 0, len(table.Keep))
		for _, name := range table.Keep {
			fields = append(fields, shp.StringField(name, 64))
		}
		records := make([]shapefile.PolygonRecord, 0, len(result.Features))
		for _, f := range result.Features {
			attrs := make([]any, 0, len(table.Keep))
			for _, name := range table.Keep {
				attrs = append(attrs, f.Attrs[name])
			}
			records = append(records, shapefile.PolygonRecord{Geom: f.Geom, Attrs: attrs})
		}
		if err := shapefile.WritePolygons(cfg.Crosswalk.Output, fields, records); err != nil {
			return err
		}
		if err := shapefile.CopyPrj(cfg.Crosswalk.Input, cfg.Crosswalk.Output); err != nil {
			return err
		}

		fmt.Printf("Cross-walked %d features (%d winding corrections, %d unmapped classes)\n",
			len(result.Features), len(result.WindingFixed), len(result.Unmapped))
		return nil
	},
}

func init() {
	crosswalkCmd.Flags().String("table", "", "YAML cross-walk lookup table")
	crosswalkCmd.Flags().String("input", "", "input polygon shapefile")
	crosswalkCmd.Flags().String("output", "", "output polygon shapefile")
	rootCmd.AddCommand(crosswalkCmd)
}
