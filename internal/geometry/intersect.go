package geometry

import "github.com/twpayne/go-geom"

func orient(ax, ay, bx, by, cx, cy float64) float64 {
	return (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
}

// segmentsProperCross reports whether segments a1-a2 and b1-b2 cross at a
// single interior point of both, and returns that point. Touching endpoints
// and collinear overlap are not proper crossings; adjacent reef polygons
// routinely share edges and must not be flagged as overlapping.
func segmentsProperCross(a1x, a1y, a2x, a2y, b1x, b1y, b2x, b2y float64) (float64, float64, bool) {
	d1 := orient(b1x, b1y, b2x, b2y, a1x, a1y)
	d2 := orient(b1x, b1y, b2x, b2y, a2x, a2y)
	d3 := orient(a1x, a1y, a2x, a2y, b1x, b1y)
	d4 := orient(a1x, a1y, a2x, a2y, b2x, b2y)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		denom := (a2x-a1x)*(b2y-b1y) - (a2y-a1y)*(b2x-b1x)
		t := ((b1x-a1x)*(b2y-b1y) - (b1y-a1y)*(b2x-b1x)) / denom
		return a1x + t*(a2x-a1x), a1y + t*(a2y-a1y), true
	}
	return 0, 0, false
}

func boundsOverlap(a, b geom.T) bool {
	ab, bb := a.Bounds(), b.Bounds()
	return ab.Min(0) <= bb.Max(0) && bb.Min(0) <= ab.Max(0) &&
		ab.Min(1) <= bb.Max(1) && bb.Min(1) <= ab.Max(1)
}

// Overlap tests whether two polygonal geometries share interior area and, if
// so, returns a marker point for review: a strictly interior vertex of one
// geometry inside the other, or a proper edge-crossing point. eps is the
// distance below which a vertex is treated as lying on the other boundary
// rather than inside it.
func Overlap(a, b geom.T, eps float64) (float64, float64, bool) {
	if !boundsOverlap(a, b) {
		return 0, 0, false
	}

	if x, y, ok := interiorVertex(a, b, eps); ok {
		return x, y, true
	}
	if x, y, ok := interiorVertex(b, a, eps); ok {
		return x, y, true
	}

	for _, pa := range Polygons(a) {
		fa := pa.LinearRing(0).FlatCoords()
		na := len(fa) / 2
		for _, pb := range Polygons(b) {
			fb := pb.LinearRing(0).FlatCoords()
			nb := len(fb) / 2
			for i := 0; i < na; i++ {
				i2 := (i + 1) % na
				for j := 0; j < nb; j++ {
					j2 := (j + 1) % nb
					x, y, ok := segmentsProperCross(
						fa[2*i], fa[2*i+1], fa[2*i2], fa[2*i2+1],
						fb[2*j], fb[2*j+1], fb[2*j2], fb[2*j2+1],
					)
					if ok {
						return x, y, true
					}
				}
			}
		}
	}
	return 0, 0, false
}

// interiorVertex returns the first exterior-ring vertex of a that lies
// strictly inside b, at least eps away from b's boundary.
func interiorVertex(a, b geom.T, eps float64) (float64, float64, bool) {
	for _, p := range Polygons(a) {
		flat := p.LinearRing(0).FlatCoords()
		for i := 0; i < len(flat)/2; i++ {
			x, y := flat[2*i], flat[2*i+1]
			if Contains(b, x, y) && !OnBoundary(b, x, y, eps) {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

// Within reports whether every exterior vertex of a lies inside or on the
// boundary of b. Combined with an Overlap hit it identifies lower-priority
// features fully consumed by a higher-priority one.
func Within(a, b geom.T, eps float64) bool {
	if !boundsOverlap(a, b) {
		return false
	}
	for _, p := range Polygons(a) {
		flat := p.LinearRing(0).FlatCoords()
		for i := 0; i < len(flat)/2; i++ {
			x, y := flat[2*i], flat[2*i+1]
			if !Contains(b, x, y) && !OnBoundary(b, x, y, eps) {
				return false
			}
		}
	}
	return true
}
