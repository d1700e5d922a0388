package geometry

import (
	"math"

	"github.com/twpayne/go-geom"
)

// pointInRing runs an even-odd ray cast of (x, y) against a closed ring
// given as flat XY coordinates. Points exactly on an edge land on whichever
// side the crossing arithmetic resolves to; that resolution is deterministic
// for a given ring, which is what the region tie-break contract requires.
func pointInRing(x, y float64, flat []float64) bool {
	n := len(flat) / 2
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := flat[2*i], flat[2*i+1]
		xj, yj := flat[2*j], flat[2*j+1]
		if (yi > y) != (yj > y) &&
			x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// inBounds is a cheap prefilter against the geometry's bounding box.
func inBounds(g geom.T, x, y float64) bool {
	b := g.Bounds()
	return x >= b.Min(0) && x <= b.Max(0) && y >= b.Min(1) && y <= b.Max(1)
}

// Contains reports whether (x, y) lies inside the Polygon or MultiPolygon g,
// treating interior rings as holes.
func Contains(g geom.T, x, y float64) bool {
	if !inBounds(g, x, y) {
		return false
	}
	for _, p := range Polygons(g) {
		if p.NumLinearRings() == 0 {
			continue
		}
		if !pointInRing(x, y, p.LinearRing(0).FlatCoords()) {
			continue
		}
		inHole := false
		for i := 1; i < p.NumLinearRings(); i++ {
			if pointInRing(x, y, p.LinearRing(i).FlatCoords()) {
				inHole = true
				break
			}
		}
		if !inHole {
			return true
		}
	}
	return false
}

// segmentDistance returns the distance from (x, y) to the segment
// (x1,y1)-(x2,y2).
func segmentDistance(x, y, x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(x-x1, y-y1)
	}
	t := ((x-x1)*dx + (y-y1)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(x-(x1+t*dx), y-(y1+t*dy))
}

// DistanceToBoundary returns the minimum distance from (x, y) to any ring
// edge of g.
func DistanceToBoundary(g geom.T, x, y float64) float64 {
	min := math.Inf(1)
	for _, p := range Polygons(g) {
		for r := 0; r < p.NumLinearRings(); r++ {
			flat := p.LinearRing(r).FlatCoords()
			n := len(flat) / 2
			for i := 0; i < n; i++ {
				j := (i + 1) % n
				d := segmentDistance(x, y, flat[2*i], flat[2*i+1], flat[2*j], flat[2*j+1])
				if d < min {
					min = d
				}
			}
		}
	}
	return min
}

// OnBoundary reports whether (x, y) lies within eps of an edge of g.
func OnBoundary(g geom.T, x, y, eps float64) bool {
	b := g.Bounds()
	if x < b.Min(0)-eps || x > b.Max(0)+eps || y < b.Min(1)-eps || y > b.Max(1)+eps {
		return false
	}
	return DistanceToBoundary(g, x, y) <= eps
}
