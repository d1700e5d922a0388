package geometry

import (
	"math"
	"math/rand"

	"github.com/twpayne/go-geom"
)

// FuzzPolygon perturbs every distinct vertex of p's exterior ring by an
// independent per-axis uniform offset in [-distance, +distance], keeping the
// ring closed. Maximum displacement of any vertex is distance·√2.
func FuzzPolygon(p *geom.Polygon, distance float64, rng *rand.Rand) *geom.Polygon {
	flat := p.LinearRing(0).FlatCoords()
	pts := ringPoints(flat)
	out := make([][2]float64, len(pts))
	for i := 0; i < len(pts)-1; i++ {
		out[i] = [2]float64{
			pts[i][0] + uniform(rng, -distance, distance),
			pts[i][1] + uniform(rng, -distance, distance),
		}
	}
	out[len(out)-1] = out[0]
	return geom.NewPolygonFlat(geom.XY, pointsFlat(out), []int{len(out) * 2})
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// PointAlongBoundary walks the exterior ring of p and returns the point at
// arc-length pos from the first vertex. Because pos is drawn uniformly over
// the total perimeter, each edge is selected with probability proportional
// to its length, so vertex-dense stretches are not over-sampled.
func PointAlongBoundary(p *geom.Polygon, pos float64) (float64, float64) {
	flat := p.LinearRing(0).FlatCoords()
	n := len(flat) / 2
	if n == 0 {
		return 0, 0
	}
	total := RingLength(flat)
	if total <= 0 {
		return flat[0], flat[1]
	}
	pos = math.Mod(pos, total)
	if pos < 0 {
		pos += total
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		x1, y1 := flat[2*i], flat[2*i+1]
		x2, y2 := flat[2*j], flat[2*j+1]
		edge := math.Hypot(x2-x1, y2-y1)
		if pos <= edge {
			if edge == 0 {
				return x1, y1
			}
			t := pos / edge
			return x1 + t*(x2-x1), y1 + t*(y2-y1)
		}
		pos -= edge
	}
	return flat[0], flat[1]
}
