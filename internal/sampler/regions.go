// Package sampler implements stratified random validation sampling of reef
// features: region assignment, per-region draws, and generation of the
// centroid, extent, and boundary-error layers handed to reviewers.
package sampler

import (
	"go.uber.org/zap"

	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/geometry"
	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/model"
)

// boundaryEps is the distance within which a centroid is considered to sit
// exactly on a region boundary. Such assignments are legitimate but worth a
// log line, since they depend on coordinate precision rather than data.
const boundaryEps = 1e-9

// regionPool is one region's sampling pool, kept in region-layer order so
// draws are reproducible.
type regionPool struct {
	id       string
	features []model.Feature
}

// assignRegions buckets features by the region containing their centroid.
// Features whose centroid falls outside every region go to the Offshore
// pool. Features with unusable geometry are excluded up front. The returned
// pools preserve region-layer order, with Offshore appended last.
func assignRegions(features []model.Feature, regions []model.Region) ([]*regionPool, []model.Exclusion) {
	pools := make([]*regionPool, 0, len(regions)+1)
	byID := make(map[string]*regionPool, len(regions)+1)
	for _, r := range regions {
		if _, ok := byID[r.ID]; ok {
			// Multi-part regions split across records share one pool.
			continue
		}
		p := &regionPool{id: r.ID}
		pools = append(pools, p)
		byID[r.ID] = p
	}
	offshore := &regionPool{id: model.OffshoreRegion}
	pools = append(pools, offshore)
	byID[model.OffshoreRegion] = offshore

	var exclusions []model.Exclusion

	for _, f := range features {
		if err := geometry.Validate(f.Geom); err != nil {
			zap.L().Warn("sampler: excluding feature with invalid geometry",
				zap.Int("feature_id", f.ID),
				zap.Error(err),
			)
			exclusions = append(exclusions, model.Exclusion{
				FeatureID: f.ID,
				Reason:    model.ExclusionInvalidGeometry,
			})
			continue
		}

		cx, cy, ok := geometry.Centroid(f.Geom)
		if !ok {
			exclusions = append(exclusions, model.Exclusion{
				FeatureID: f.ID,
				Reason:    model.ExclusionInvalidGeometry,
			})
			continue
		}

		assigned := offshore
		for _, r := range regions {
			if geometry.Contains(r.Geom, cx, cy) {
				assigned = byID[r.ID]
				if geometry.OnBoundary(r.Geom, cx, cy, boundaryEps) {
					// Tie-break is first containing region in layer order.
					zap.L().Warn("sampler: centroid on region boundary",
						zap.Int("feature_id", f.ID),
						zap.String("region", r.ID),
					)
				}
				break
			}
		}
		assigned.features = append(assigned.features, f)
	}

	for _, p := range pools {
		zap.L().Info("sampler: region pool",
			zap.String("region", p.id),
			zap.Int("features", len(p.features)),
		)
	}

	return pools, exclusions
}
