package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded sampler runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		manifest, err := store.Open(cfg.Manifest.Path)
		if err != nil {
			return err
		}
		defer func() { _ = manifest.Close() }()
		if err := manifest.Migrate(cmd.Context()); err != nil {
			return err
		}

		runs, err := manifest.ListRuns(cmd.Context(), limit)
		if err != nil {
			return err
		}
		formatRunsList(os.Stdout, runs)
		return nil
	},
}

func formatRunsList(w io.Writer, runs []store.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return
	}

	fmt.Fprintf(w, "%-36s  %-20s  %6s  %7s  %7s  %8s\n",
		"RUN", "CREATED", "SEED", "BATCHES", "RECORDS", "EXTENT")
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s  %-20s  %6d  %7d  %7d  %8s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Seed, r.NumBatches, r.Records, r.ExtentMode)
	}
}

func init() {
	runsCmd.Flags().Int("limit", 20, "maximum runs to list")
	rootCmd.AddCommand(runsCmd)
}
