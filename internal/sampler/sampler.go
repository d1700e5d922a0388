package sampler

import (
	"math/rand"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/geometry"
	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/model"
)

// ExtentMode selects what the Polygon-extent layer shows reviewers.
type ExtentMode string

const (
	// ExtentFuzzed emits the simplified, vertex-perturbed polygon.
	ExtentFuzzed ExtentMode = "fuzzed"
	// ExtentBBox emits only the bounding box of the fuzzed polygon, giving
	// reviewers the approximate size and location without any boundary shape.
	ExtentBBox ExtentMode = "bbox"
)

// Options configures a sampling run. Distances are in meters; MetersPerUnit
// converts them to CRS units (1 for projected CRS, ~111000 per degree for
// geographic).
type Options struct {
	BatchSize           int
	NumBatches          int
	SimplifyToleranceM  float64
	FuzzDistanceM       float64
	Seed                int64
	ExtentMode          ExtentMode
	SmallPerimeterM     float64
	SmallPoints         int
	LargePoints         int
	MaxAttemptsPerPoint int
	MetersPerUnit       float64

	// Coastline polygons; boundary points falling on land are re-drawn.
	Coastline []geom.T
}

// Sampler draws stratified validation samples from a feature layer.
type Sampler struct {
	opts Options
	rng  *rand.Rand
}

// New creates a Sampler. The random stream is seeded once here; re-running
// with the same seed and inputs reproduces identical output.
func New(opts Options) (*Sampler, error) {
	if opts.BatchSize <= 0 || opts.NumBatches <= 0 {
		return nil, eris.Errorf("sampler: batch size %d and batch count %d must be positive", opts.BatchSize, opts.NumBatches)
	}
	if opts.ExtentMode != ExtentFuzzed && opts.ExtentMode != ExtentBBox {
		return nil, eris.Errorf("sampler: unknown extent mode %q", opts.ExtentMode)
	}
	if opts.MetersPerUnit <= 0 {
		opts.MetersPerUnit = 1
	}
	if opts.SmallPoints <= 0 {
		opts.SmallPoints = 1
	}
	if opts.LargePoints <= 0 {
		opts.LargePoints = opts.SmallPoints
	}
	if opts.MaxAttemptsPerPoint <= 0 {
		opts.MaxAttemptsPerPoint = 10
	}
	return &Sampler{
		opts: opts,
		rng:  rand.New(rand.NewSource(opts.Seed)),
	}, nil
}

// Run assigns features to regions, draws up to BatchSize features per region
// per batch without replacement, and produces the three linked record
// geometries for every draw. Shortfalls and per-feature failures are
// reported in the result, never fatal.
func (s *Sampler) Run(features []model.Feature, regions []model.Region) (*model.RunResult, error) {
	if len(regions) == 0 {
		return nil, eris.New("sampler: no regions loaded")
	}

	pools, exclusions := assignRegions(features, regions)

	result := &model.RunResult{
		Batches: make(map[int][]*model.ValidationRecord, s.opts.NumBatches),
	}
	result.Exclusions = exclusions

	sampled := make(map[string]int, len(pools))
	drawn := make(map[string]map[int]bool, len(pools))
	for _, p := range pools {
		drawn[p.id] = make(map[int]bool)
	}

	validID := 1
	for batch := 1; batch <= s.opts.NumBatches; batch++ {
		for _, pool := range pools {
			avail := available(pool, drawn[pool.id])
			if len(avail) == 0 {
				continue
			}
			take := s.opts.BatchSize
			if take > len(avail) {
				take = len(avail)
			}
			for _, f := range s.draw(avail, take) {
				drawn[pool.id][f.ID] = true
				rec, err := s.record(f, pool.id, batch, validID)
				if err != nil {
					zap.L().Warn("sampler: excluding feature",
						zap.Int("feature_id", f.ID),
						zap.String("region", pool.id),
						zap.Error(err),
					)
					result.Exclusions = append(result.Exclusions, model.Exclusion{
						FeatureID: f.ID,
						RegionID:  pool.id,
						Reason:    model.ExclusionNoInteriorPoint,
					})
					continue
				}
				result.Batches[batch] = append(result.Batches[batch], rec)
				sampled[pool.id]++
				validID++
			}
		}
	}

	quota := s.opts.BatchSize * s.opts.NumBatches
	for _, pool := range pools {
		sum := model.RegionSummary{
			RegionID:  pool.id,
			Available: len(pool.features),
			Sampled:   sampled[pool.id],
		}
		if sum.Sampled < quota {
			sum.Shortfall = quota - sum.Sampled
			zap.L().Info("sampler: region under quota",
				zap.String("region", pool.id),
				zap.Int("sampled", sum.Sampled),
				zap.Int("quota", quota),
				zap.Int("shortfall", sum.Shortfall),
			)
		}
		result.Summaries = append(result.Summaries, sum)
	}

	return result, nil
}

// available filters a pool to the features not drawn in earlier batches,
// preserving source order so the draw stream stays reproducible.
func available(pool *regionPool, used map[int]bool) []model.Feature {
	out := make([]model.Feature, 0, len(pool.features))
	for _, f := range pool.features {
		if !used[f.ID] {
			out = append(out, f)
		}
	}
	return out
}

// draw selects take features uniformly without replacement via a partial
// Fisher-Yates shuffle.
func (s *Sampler) draw(avail []model.Feature, take int) []model.Feature {
	picked := append([]model.Feature(nil), avail...)
	for i := 0; i < take; i++ {
		j := i + s.rng.Intn(len(picked)-i)
		picked[i], picked[j] = picked[j], picked[i]
	}
	return picked[:take]
}

// record builds the three linked geometries for one sampled feature.
func (s *Sampler) record(f model.Feature, regionID string, batch, validID int) (*model.ValidationRecord, error) {
	cx, cy, ok := geometry.InteriorPoint(f.Geom)
	if !ok {
		return nil, eris.Errorf("sampler: no interior point for feature %d", f.ID)
	}

	extent := s.extent(f.Geom)
	boundary := s.boundaryPoints(extent)

	return &model.ValidationRecord{
		ValidID:        validID,
		FeatureID:      f.ID,
		RegionID:       regionID,
		Batch:          batch,
		Centroid:       geom.NewPointFlat(geom.XY, []float64{cx, cy}),
		Extent:         extent,
		BoundaryPoints: boundary,
	}, nil
}

// extent simplifies then fuzzes each polygon part's exterior ring.
// Simplification runs first so the perturbation budget is not spent on
// vertices that are about to be discarded. In bbox mode only the bounding
// box of the fuzzed result is emitted.
func (s *Sampler) extent(g geom.T) geom.T {
	tol := s.opts.SimplifyToleranceM / s.opts.MetersPerUnit
	fuzz := s.opts.FuzzDistanceM / s.opts.MetersPerUnit

	parts := geometry.Polygons(g)
	fuzzed := make([]*geom.Polygon, 0, len(parts))
	for _, p := range parts {
		simplified := geometry.SimplifyPolygon(p, tol)
		fuzzed = append(fuzzed, geometry.FuzzPolygon(simplified, fuzz, s.rng))
	}

	var out geom.T
	if len(fuzzed) == 1 {
		out = fuzzed[0]
	} else {
		mp := geom.NewMultiPolygon(geom.XY)
		for _, p := range fuzzed {
			_ = mp.Push(p)
		}
		out = mp
	}

	if s.opts.ExtentMode == ExtentBBox {
		return geometry.BoundsPolygon(out)
	}
	return out
}

// boundaryPoints seeds points on the emitted extent boundary. Sampling runs
// against the post-fuzz geometry, so the points lie exactly on the edges the
// reviewer sees. Candidates landing on a coastline polygon are rejected and
// re-drawn up to MaxAttemptsPerPoint times each.
func (s *Sampler) boundaryPoints(extent geom.T) []*geom.Point {
	parts := geometry.Polygons(extent)
	if len(parts) == 0 {
		return nil
	}

	perimeters := make([]float64, len(parts))
	var total float64
	for i, p := range parts {
		perimeters[i] = geometry.RingLength(p.LinearRing(0).FlatCoords())
		total += perimeters[i]
	}
	if total <= 0 {
		return nil
	}

	want := s.opts.LargePoints
	if total*s.opts.MetersPerUnit < s.opts.SmallPerimeterM {
		want = s.opts.SmallPoints
	}

	var points []*geom.Point
	attempts := 0
	maxAttempts := want * s.opts.MaxAttemptsPerPoint
	for len(points) < want && attempts < maxAttempts {
		attempts++
		pos := s.rng.Float64() * total
		part := parts[len(parts)-1]
		for i, p := range parts {
			if pos <= perimeters[i] {
				part = p
				break
			}
			pos -= perimeters[i]
		}
		x, y := geometry.PointAlongBoundary(part, pos)
		if s.onLand(x, y) {
			continue
		}
		points = append(points, geom.NewPointFlat(geom.XY, []float64{x, y}))
	}

	if len(points) < want {
		zap.L().Warn("sampler: boundary points under quota after land rejection",
			zap.Int("wanted", want),
			zap.Int("placed", len(points)),
			zap.Int("attempts", attempts),
		)
	}
	return points
}

func (s *Sampler) onLand(x, y float64) bool {
	for _, land := range s.opts.Coastline {
		if geometry.Contains(land, x, y) {
			return true
		}
	}
	return false
}
