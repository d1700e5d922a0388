package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

// rect returns a closed CCW rectangle.
func rect(minX, minY, maxX, maxY float64) *geom.Polygon {
	flat := []float64{
		minX, minY,
		maxX, minY,
		maxX, maxY,
		minX, maxY,
		minX, minY,
	}
	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})
}

func TestOverlapDisjoint(t *testing.T) {
	t.Parallel()

	_, _, ok := Overlap(square(0, 0, 10), square(20, 20, 10), 1e-9)
	assert.False(t, ok)
}

func TestOverlapSharedEdgeIsNotOverlap(t *testing.T) {
	t.Parallel()

	// Adjacent polygons sharing a full edge happen wherever reef features
	// were split along a common boundary.
	_, _, ok := Overlap(square(0, 0, 10), square(10, 0, 10), 1e-6)
	assert.False(t, ok)
}

func TestOverlapTouchingCornerIsNotOverlap(t *testing.T) {
	t.Parallel()

	_, _, ok := Overlap(square(0, 0, 10), square(10, 10, 10), 1e-6)
	assert.False(t, ok)
}

func TestOverlapPartial(t *testing.T) {
	t.Parallel()

	a := square(0, 0, 10)
	b := square(5, 5, 10)
	x, y, ok := Overlap(a, b, 1e-9)
	require.True(t, ok)

	// The marker lies in the shared area.
	assert.True(t, Contains(a, x, y) || OnBoundary(a, x, y, 1e-9))
	assert.True(t, Contains(b, x, y) || OnBoundary(b, x, y, 1e-9))
}

func TestOverlapEdgeCrossingOnly(t *testing.T) {
	t.Parallel()

	// A tall thin rectangle through a wide flat one: no vertex of either is
	// inside the other, only edges cross.
	tall := rect(4, -5, 6, 15)
	wide := rect(-5, 4, 15, 6)

	x, y, ok := Overlap(tall, wide, 1e-9)
	require.True(t, ok)
	assert.True(t, OnBoundary(tall, x, y, 1e-9))
	assert.True(t, OnBoundary(wide, x, y, 1e-9))
}

func TestWithin(t *testing.T) {
	t.Parallel()

	assert.True(t, Within(square(2, 2, 4), square(0, 0, 10), 1e-9))
	assert.True(t, Within(square(0, 0, 10), square(0, 0, 10), 1e-6))
	assert.False(t, Within(square(5, 5, 10), square(0, 0, 10), 1e-9))
	assert.False(t, Within(square(20, 20, 2), square(0, 0, 10), 1e-9))
}
