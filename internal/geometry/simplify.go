package geometry

import (
	"math"

	"github.com/twpayne/go-geom"
)

// SimplifyPolygon returns a copy of p with its exterior ring reduced by
// Douglas-Peucker with the given tolerance. Holes are dropped: the extent
// shown to reviewers only needs the outer footprint. A non-positive
// tolerance returns the exterior ring unsimplified.
func SimplifyPolygon(p *geom.Polygon, tolerance float64) *geom.Polygon {
	flat := p.LinearRing(0).FlatCoords()
	if tolerance > 0 {
		flat = SimplifyRing(flat, tolerance)
	} else {
		flat = append([]float64(nil), flat...)
	}
	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})
}

// SimplifyRing runs Douglas-Peucker over a closed ring. The ring is split at
// its first vertex and at the vertex farthest from it, each open half is
// simplified independently, and the halves are rejoined. If simplification
// would collapse the ring below a triangle the original ring is returned.
func SimplifyRing(flat []float64, tolerance float64) []float64 {
	pts := ringPoints(flat)
	if len(pts) < 5 {
		return append([]float64(nil), flat...)
	}
	// pts is closed (first == last); work on the distinct vertices.
	open := pts[:len(pts)-1]

	split := farthestFrom(open, 0)
	if split == 0 {
		return append([]float64(nil), flat...)
	}

	first := douglasPeucker(open[:split+1], tolerance)
	second := douglasPeucker(append(append([][2]float64{}, open[split:]...), open[0]), tolerance)

	out := make([][2]float64, 0, len(first)+len(second)-1)
	out = append(out, first...)
	out = append(out, second[1:]...) // second starts at the split vertex, ends at the start vertex

	if len(out) < 4 { // closed triangle needs 4 points
		return append([]float64(nil), flat...)
	}
	return pointsFlat(out)
}

// douglasPeucker simplifies an open polyline, always keeping both endpoints.
func douglasPeucker(pts [][2]float64, tolerance float64) [][2]float64 {
	if len(pts) <= 2 {
		return pts
	}
	maxDist := -1.0
	maxIdx := 0
	a, b := pts[0], pts[len(pts)-1]
	for i := 1; i < len(pts)-1; i++ {
		d := segmentDistance(pts[i][0], pts[i][1], a[0], a[1], b[0], b[1])
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxDist <= tolerance {
		return [][2]float64{a, b}
	}
	left := douglasPeucker(pts[:maxIdx+1], tolerance)
	right := douglasPeucker(pts[maxIdx:], tolerance)
	return append(left[:len(left)-1], right...)
}

func farthestFrom(pts [][2]float64, idx int) int {
	maxDist := -1.0
	maxIdx := 0
	ox, oy := pts[idx][0], pts[idx][1]
	for i := range pts {
		if i == idx {
			continue
		}
		if d := math.Hypot(pts[i][0]-ox, pts[i][1]-oy); d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	return maxIdx
}

// ringPoints expands flat coords into point pairs, ensuring closure.
func ringPoints(flat []float64) [][2]float64 {
	n := len(flat) / 2
	pts := make([][2]float64, 0, n+1)
	for i := 0; i < n; i++ {
		pts = append(pts, [2]float64{flat[2*i], flat[2*i+1]})
	}
	if n > 0 && (pts[0] != pts[n-1]) {
		pts = append(pts, pts[0])
	}
	return pts
}

func pointsFlat(pts [][2]float64) []float64 {
	flat := make([]float64, 0, len(pts)*2)
	for _, p := range pts {
		flat = append(flat, p[0], p[1])
	}
	return flat
}
