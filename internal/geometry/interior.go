package geometry

import (
	"math"
	"sort"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// Centroid returns the area centroid of a Polygon or MultiPolygon. The
// result is not guaranteed to lie inside the geometry; use InteriorPoint for
// the verified contract.
func Centroid(g geom.T) (float64, float64, bool) {
	polys := Polygons(g)
	if len(polys) == 0 {
		return 0, 0, false
	}
	c := xy.PolygonsCentroid(polys[0], polys[1:]...)
	if len(c) < 2 || math.IsNaN(c[0]) || math.IsNaN(c[1]) {
		return 0, 0, false
	}
	return c[0], c[1], true
}

// InteriorPoint returns a point verified to lie inside g. It tries the area
// centroid first and falls back to a scanline representative point when the
// centroid lands outside, which happens for concave and multi-part shapes.
// The unchecked centroid is never exposed.
func InteriorPoint(g geom.T) (float64, float64, bool) {
	cx, cy, ok := Centroid(g)
	if ok && Contains(g, cx, cy) {
		return cx, cy, true
	}

	b := g.Bounds()
	minY, maxY := b.Min(1), b.Max(1)
	candidates := []float64{cy, (minY + maxY) / 2}
	for _, f := range []float64{0.25, 0.75, 0.4, 0.6, 0.1, 0.9} {
		candidates = append(candidates, minY+f*(maxY-minY))
	}

	for _, y := range candidates {
		if y <= minY || y >= maxY {
			continue
		}
		if x, ok := widestIntervalMid(g, y); ok && Contains(g, x, y) {
			return x, y, true
		}
	}
	return 0, 0, false
}

// widestIntervalMid intersects a horizontal scanline with every ring of g,
// pairs the crossings even-odd per polygon part, and returns the midpoint of
// the widest interior interval.
func widestIntervalMid(g geom.T, y float64) (float64, bool) {
	bestWidth := -1.0
	bestMid := 0.0
	for _, p := range Polygons(g) {
		var xs []float64
		for r := 0; r < p.NumLinearRings(); r++ {
			xs = append(xs, ringCrossings(p.LinearRing(r).FlatCoords(), y)...)
		}
		if len(xs) < 2 {
			continue
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			if w := xs[i+1] - xs[i]; w > bestWidth {
				bestWidth = w
				bestMid = (xs[i] + xs[i+1]) / 2
			}
		}
	}
	return bestMid, bestWidth > 0
}

func ringCrossings(flat []float64, y float64) []float64 {
	n := len(flat) / 2
	var xs []float64
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		yi, yj := flat[2*i+1], flat[2*j+1]
		if (yi > y) != (yj > y) {
			xi, xj := flat[2*i], flat[2*j]
			xs = append(xs, xi+(y-yi)*(xj-xi)/(yj-yi))
		}
	}
	return xs
}
