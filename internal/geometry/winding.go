package geometry

import "github.com/twpayne/go-geom"

// IsCCW reports whether a closed ring winds counter-clockwise.
func IsCCW(flat []float64) bool {
	return RingArea(flat) > 0
}

func reverseRing(flat []float64) []float64 {
	n := len(flat) / 2
	out := make([]float64, 0, len(flat))
	for i := n - 1; i >= 0; i-- {
		out = append(out, flat[2*i], flat[2*i+1])
	}
	return out
}

// FixWinding rewinds every polygon part of g so that exteriors are
// counter-clockwise and holes clockwise. It returns the corrected geometry
// and whether any ring needed rewinding.
func FixWinding(g geom.T) (geom.T, bool) {
	polys := Polygons(g)
	if len(polys) == 0 {
		return g, false
	}

	fixed := false
	rewound := make([]*geom.Polygon, 0, len(polys))
	for _, p := range polys {
		var flat []float64
		var ends []int
		for r := 0; r < p.NumLinearRings(); r++ {
			ring := append([]float64(nil), p.LinearRing(r).FlatCoords()...)
			wantCCW := r == 0
			if IsCCW(ring) != wantCCW {
				ring = reverseRing(ring)
				fixed = true
			}
			flat = append(flat, ring...)
			ends = append(ends, len(flat))
		}
		rewound = append(rewound, geom.NewPolygonFlat(geom.XY, flat, ends))
	}

	if !fixed {
		return g, false
	}
	if _, ok := g.(*geom.Polygon); ok && len(rewound) == 1 {
		return rewound[0], true
	}
	mp := geom.NewMultiPolygon(geom.XY)
	for _, p := range rewound {
		_ = mp.Push(p)
	}
	return mp, true
}
