// Package geometry provides the planar polygon operations used by the
// validation tooling: containment, interior-point placement, simplification,
// vertex fuzzing and boundary interpolation. All operations work on go-geom
// XY geometries in the coordinate system of the input layers.
package geometry

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// MetersPerDegree is the rough equatorial conversion used when inputs are in
// a geographic CRS and tolerances are configured in meters.
const MetersPerDegree = 111000.0

// Polygons flattens a Polygon or MultiPolygon into its polygon parts.
func Polygons(g geom.T) []*geom.Polygon {
	switch t := g.(type) {
	case *geom.Polygon:
		return []*geom.Polygon{t}
	case *geom.MultiPolygon:
		polys := make([]*geom.Polygon, 0, t.NumPolygons())
		for i := 0; i < t.NumPolygons(); i++ {
			polys = append(polys, t.Polygon(i))
		}
		return polys
	default:
		return nil
	}
}

// RingArea returns the signed shoelace area of a closed ring given as flat
// XY coordinates. Positive means counter-clockwise winding.
func RingArea(flat []float64) float64 {
	n := len(flat) / 2
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += flat[2*i]*flat[2*j+1] - flat[2*j]*flat[2*i+1]
	}
	return sum / 2
}

// RingLength returns the perimeter of a closed ring given as flat XY
// coordinates. The closing edge is counted whether or not the ring repeats
// its first vertex.
func RingLength(flat []float64) float64 {
	n := len(flat) / 2
	if n < 2 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += math.Hypot(flat[2*j]-flat[2*i], flat[2*j+1]-flat[2*i+1])
	}
	return sum
}

// Area returns the unsigned area of a Polygon or MultiPolygon, counting
// holes as negative space.
func Area(g geom.T) float64 {
	var total float64
	for _, p := range Polygons(g) {
		for i := 0; i < p.NumLinearRings(); i++ {
			a := math.Abs(RingArea(p.LinearRing(i).FlatCoords()))
			if i == 0 {
				total += a
			} else {
				total -= a
			}
		}
	}
	return total
}

// Perimeter returns the total exterior-ring length of a Polygon or
// MultiPolygon.
func Perimeter(g geom.T) float64 {
	var total float64
	for _, p := range Polygons(g) {
		if p.NumLinearRings() == 0 {
			continue
		}
		total += RingLength(p.LinearRing(0).FlatCoords())
	}
	return total
}

// Validate reports whether g is usable: at least one polygon part with a
// non-degenerate, non-zero-area exterior ring.
func Validate(g geom.T) error {
	polys := Polygons(g)
	if len(polys) == 0 {
		return eris.New("geometry: not a polygon")
	}
	for _, p := range polys {
		if p.NumLinearRings() == 0 {
			return eris.New("geometry: polygon without rings")
		}
		flat := p.LinearRing(0).FlatCoords()
		if len(flat) < 8 {
			return eris.New("geometry: degenerate exterior ring")
		}
		if math.Abs(RingArea(flat)) == 0 {
			return eris.New("geometry: zero-area exterior ring")
		}
	}
	return nil
}

// BoundsPolygon returns the axis-aligned bounding box of g as a closed
// counter-clockwise polygon.
func BoundsPolygon(g geom.T) *geom.Polygon {
	b := g.Bounds()
	minX, minY := b.Min(0), b.Min(1)
	maxX, maxY := b.Max(0), b.Max(1)
	flat := []float64{
		minX, minY,
		maxX, minY,
		maxX, maxY,
		minX, maxY,
		minX, minY,
	}
	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})
}

// ExteriorRingPolygon returns a polygon built from just the exterior ring of
// p, dropping any holes.
func ExteriorRingPolygon(p *geom.Polygon) *geom.Polygon {
	flat := append([]float64(nil), p.LinearRing(0).FlatCoords()...)
	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})
}
