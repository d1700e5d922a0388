// Package model holds the domain types shared across the validation tooling.
package model

import "github.com/twpayne/go-geom"

// OffshoreRegion is the reserved catch-all for features whose centroid falls
// outside every mapped validation region.
const OffshoreRegion = "Offshore"

// ReviewerAttributes are the reviewer-fillable fields carried on the
// Feature-centroid layer. They are emitted blank so the review stays blind
// to the mapped values.
var ReviewerAttributes = []string{"FeatExists", "FeatConf", "RB_Type_L3", "TypeConf", "Attachment"}

// Feature is one polygon from the source reef-boundary layer. ID is the
// zero-based record number of the source shapefile, which is stable for a
// given input file.
type Feature struct {
	ID    int
	Attrs map[string]string
	Geom  geom.T
	// Rewound marks a feature whose ring winding violated the shapefile
	// convention in the source file.
	Rewound bool
}

// Region is one polygon from the validation-regions layer.
type Region struct {
	ID   string
	Geom geom.T
}

// ValidationRecord links one sampled feature to its three output geometries.
type ValidationRecord struct {
	ValidID   int
	FeatureID int
	RegionID  string
	Batch     int

	Centroid       *geom.Point
	Extent         geom.T
	BoundaryPoints []*geom.Point
}

// ExclusionReason classifies why a feature was dropped from sampling.
type ExclusionReason string

const (
	ExclusionInvalidGeometry ExclusionReason = "invalid_geometry"
	ExclusionNoInteriorPoint ExclusionReason = "no_interior_point"
)

// Exclusion reports a feature that could not be sampled.
type Exclusion struct {
	FeatureID int
	RegionID  string
	Reason    ExclusionReason
}

// RegionSummary reports the sampling outcome for one region.
type RegionSummary struct {
	RegionID  string
	Available int
	Sampled   int
	Shortfall int
}

// RunResult is everything a sampler run produced, grouped by batch.
type RunResult struct {
	Batches    map[int][]*ValidationRecord
	Summaries  []RegionSummary
	Exclusions []Exclusion
}
