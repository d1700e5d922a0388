package geometry

import (
	"math"
	"sort"

	"github.com/twpayne/go-geom"
)

// clipNode is one vertex of a ring being clipped. Intersection nodes appear
// in both rings and point at each other through neighbor.
type clipNode struct {
	x, y     float64
	next     *clipNode
	neighbor *clipNode
	inter    bool
	entering bool // subject crosses into the clip interior here
	visited  bool
}

// Difference returns subject minus clip, operating on exterior rings only
// (holes of either polygon are dropped when a carve happens, matching how
// extents drop holes elsewhere in this package). Results may be several
// polygons when the carve splits the subject. A clip strictly inside the
// subject becomes a hole; a subject strictly inside the clip vanishes (nil).
// Rings that only touch at vertices or shared edges are treated as disjoint;
// callers screen those cases with Overlap.
func Difference(subject, clip *geom.Polygon) []*geom.Polygon {
	if !boundsOverlap(subject, clip) {
		return []*geom.Polygon{subject}
	}

	subjFlat := openRing(subject.LinearRing(0).FlatCoords(), true)
	clipFlat := openRing(clip.LinearRing(0).FlatCoords(), false)
	if len(subjFlat) < 6 || len(clipFlat) < 6 {
		return []*geom.Polygon{subject}
	}

	subjRing, crossings := linkRings(subjFlat, clipFlat)
	if crossings == 0 {
		if pointInRing(clipFlat[0], clipFlat[1], subjFlat) {
			return []*geom.Polygon{punchHole(subjFlat, clipFlat)}
		}
		if pointInRing(subjFlat[0], subjFlat[1], clipFlat) {
			return nil
		}
		return []*geom.Polygon{subject}
	}

	markEntries(subjRing, clipFlat)
	return collectLoops(subjRing)
}

// openRing returns the distinct vertices of a ring, oriented CCW when
// wantCCW and CW otherwise.
func openRing(flat []float64, wantCCW bool) []float64 {
	n := len(flat) / 2
	if n > 1 && flat[0] == flat[2*n-2] && flat[1] == flat[2*n-1] {
		flat = flat[:2*n-2]
	}
	if IsCCW(flat) != wantCCW {
		return reverseRing(flat)
	}
	return append([]float64(nil), flat...)
}

// linkRings builds circular linked lists for both rings with every proper
// edge crossing inserted into each, paired through neighbor. It returns the
// subject ring head and the crossing count. The clip ring is reachable only
// through neighbors, which is all the traversal needs.
func linkRings(subjFlat, clipFlat []float64) (*clipNode, int) {
	ns, nc := len(subjFlat)/2, len(clipFlat)/2

	type edgeHit struct {
		t    float64
		node *clipNode
	}
	subjHits := make([][]edgeHit, ns)
	clipHits := make([][]edgeHit, nc)
	crossings := 0

	for i := 0; i < ns; i++ {
		i2 := (i + 1) % ns
		a1x, a1y := subjFlat[2*i], subjFlat[2*i+1]
		a2x, a2y := subjFlat[2*i2], subjFlat[2*i2+1]
		for j := 0; j < nc; j++ {
			j2 := (j + 1) % nc
			b1x, b1y := clipFlat[2*j], clipFlat[2*j+1]
			b2x, b2y := clipFlat[2*j2], clipFlat[2*j2+1]

			x, y, ok := segmentsProperCross(a1x, a1y, a2x, a2y, b1x, b1y, b2x, b2y)
			if !ok {
				continue
			}
			sNode := &clipNode{x: x, y: y, inter: true}
			cNode := &clipNode{x: x, y: y, inter: true}
			sNode.neighbor, cNode.neighbor = cNode, sNode
			subjHits[i] = append(subjHits[i], edgeHit{t: edgeAlpha(a1x, a1y, a2x, a2y, x, y), node: sNode})
			clipHits[j] = append(clipHits[j], edgeHit{t: edgeAlpha(b1x, b1y, b2x, b2y, x, y), node: cNode})
			crossings++
		}
	}

	link := func(flat []float64, hits [][]edgeHit) *clipNode {
		var head, tail *clipNode
		push := func(n *clipNode) {
			if head == nil {
				head = n
			} else {
				tail.next = n
			}
			tail = n
		}
		for i := 0; i < len(flat)/2; i++ {
			push(&clipNode{x: flat[2*i], y: flat[2*i+1]})
			sort.Slice(hits[i], func(a, b int) bool { return hits[i][a].t < hits[i][b].t })
			for _, h := range hits[i] {
				push(h.node)
			}
		}
		tail.next = head
		return head
	}

	subjRing := link(subjFlat, subjHits)
	link(clipFlat, clipHits)
	return subjRing, crossings
}

func edgeAlpha(x1, y1, x2, y2, x, y float64) float64 {
	dx, dy := x2-x1, y2-y1
	if math.Abs(dx) >= math.Abs(dy) {
		if dx == 0 {
			return 0
		}
		return (x - x1) / dx
	}
	return (y - y1) / dy
}

// markEntries classifies every crossing on the subject ring: entering means
// the subject boundary passes into the clip interior there. Between two
// consecutive crossings the in/out status is constant, so the midpoint of
// each stretch decides it.
func markEntries(subjRing *clipNode, clipFlat []float64) {
	for n := subjRing; ; {
		if n.inter {
			mid := n.next
			mx, my := (n.x+mid.x)/2, (n.y+mid.y)/2
			n.entering = pointInRing(mx, my, clipFlat)
			n.neighbor.entering = n.entering
		}
		n = n.next
		if n == subjRing {
			break
		}
	}
}

// collectLoops walks the difference boundary: start at a crossing where the
// subject leaves the clip, follow the subject forward, and switch rings at
// every crossing. The clip ring winds CW, so following it forward traces the
// carved edge in the direction that keeps the kept area on the left.
func collectLoops(subjRing *clipNode) []*geom.Polygon {
	var polys []*geom.Polygon

	for _, start := range loopStarts(subjRing) {
		if start.visited {
			continue
		}
		var flat []float64
		cur := start
		for {
			flat = append(flat, cur.x, cur.y)
			if cur.inter {
				cur.visited = true
				cur.neighbor.visited = true
			}
			next := cur.next
			if next.inter {
				if next == start || next.neighbor == start {
					break
				}
				cur = next.neighbor
			} else {
				cur = next
			}
		}
		if len(flat) < 6 || math.Abs(RingArea(flat)) == 0 {
			continue
		}
		flat = append(flat, flat[0], flat[1])
		polys = append(polys, geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)}))
	}
	return polys
}

// loopStarts yields, in ring order, every crossing where the subject exits
// the clip; unvisited ones each start one result loop.
func loopStarts(subjRing *clipNode) []*clipNode {
	var starts []*clipNode
	for n := subjRing; ; {
		if n.inter && !n.entering {
			starts = append(starts, n)
		}
		n = n.next
		if n == subjRing {
			break
		}
	}
	return starts
}

// punchHole returns the subject exterior with the clip ring as a hole.
func punchHole(subjFlat, clipFlat []float64) *geom.Polygon {
	ext := append([]float64(nil), subjFlat...)
	ext = append(ext, ext[0], ext[1])
	hole := append([]float64(nil), clipFlat...) // already CW
	hole = append(hole, hole[0], hole[1])
	flat := append(ext, hole...)
	return geom.NewPolygonFlat(geom.XY, flat, []int{len(ext), len(flat)})
}
