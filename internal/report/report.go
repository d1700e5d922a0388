// Package report writes the per-run summary workbook used by the review
// coordinators to track allocation and shortfalls.
package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/model"
)

// Write produces an xlsx workbook with a region-allocation sheet, an
// exclusions sheet, and a per-batch counts sheet.
func Write(path, runID string, result *model.RunResult) error {
	f := xlsx.NewFile()

	regions, err := f.AddSheet("Regions")
	if err != nil {
		return eris.Wrap(err, "report: add regions sheet")
	}
	header := regions.AddRow()
	for _, h := range []string{"Region", "Available", "Sampled", "Shortfall"} {
		header.AddCell().Value = h
	}
	for _, s := range result.Summaries {
		row := regions.AddRow()
		row.AddCell().Value = s.RegionID
		row.AddCell().SetInt(s.Available)
		row.AddCell().SetInt(s.Sampled)
		row.AddCell().SetInt(s.Shortfall)
	}

	exclusions, err := f.AddSheet("Exclusions")
	if err != nil {
		return eris.Wrap(err, "report: add exclusions sheet")
	}
	header = exclusions.AddRow()
	for _, h := range []string{"FeatureID", "Region", "Reason"} {
		header.AddCell().Value = h
	}
	for _, ex := range result.Exclusions {
		row := exclusions.AddRow()
		row.AddCell().SetInt(ex.FeatureID)
		row.AddCell().Value = ex.RegionID
		row.AddCell().Value = string(ex.Reason)
	}

	batches, err := f.AddSheet("Batches")
	if err != nil {
		return eris.Wrap(err, "report: add batches sheet")
	}
	header = batches.AddRow()
	for _, h := range []string{"Batch", "Records", "BoundaryPoints"} {
		header.AddCell().Value = h
	}
	for batch := 1; ; batch++ {
		records, ok := result.Batches[batch]
		if !ok {
			break
		}
		points := 0
		for _, rec := range records {
			points += len(rec.BoundaryPoints)
		}
		row := batches.AddRow()
		row.AddCell().SetInt(batch)
		row.AddCell().SetInt(len(records))
		row.AddCell().SetInt(points)
	}

	info, err := f.AddSheet("Run")
	if err != nil {
		return eris.Wrap(err, "report: add run sheet")
	}
	row := info.AddRow()
	row.AddCell().Value = "RunID"
	row.AddCell().Value = runID

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}
