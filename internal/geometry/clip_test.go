package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func totalArea(polys []*geom.Polygon) float64 {
	var sum float64
	for _, p := range polys {
		sum += Area(p)
	}
	return sum
}

func containsAny(polys []*geom.Polygon, x, y float64) bool {
	for _, p := range polys {
		if Contains(p, x, y) {
			return true
		}
	}
	return false
}

func TestDifferenceDisjoint(t *testing.T) {
	t.Parallel()

	subject := square(0, 0, 10)
	got := Difference(subject, square(50, 50, 10))
	require.Len(t, got, 1)
	assert.Same(t, subject, got[0])
}

func TestDifferencePartialOverlap(t *testing.T) {
	t.Parallel()

	subject := square(0, 0, 100)
	clip := square(50, 50, 100)

	got := Difference(subject, clip)
	require.Len(t, got, 1)

	assert.InDelta(t, 7500, Area(got[0]), 1e-9)
	assert.False(t, containsAny(got, 75, 75)) // the carved corner
	assert.True(t, containsAny(got, 25, 25))
	assert.True(t, containsAny(got, 75, 25))
	assert.True(t, containsAny(got, 25, 75))
}

func TestDifferenceClipInsideMakesHole(t *testing.T) {
	t.Parallel()

	subject := square(0, 0, 100)
	clip := square(40, 40, 20)

	got := Difference(subject, clip)
	require.Len(t, got, 1)

	assert.Equal(t, 2, got[0].NumLinearRings())
	assert.InDelta(t, 9600, Area(got[0]), 1e-9)
	assert.False(t, Contains(got[0], 50, 50))
	assert.True(t, Contains(got[0], 10, 10))
}

func TestDifferenceSubjectInsideClip(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Difference(square(40, 40, 20), square(0, 0, 100)))
}

func TestDifferenceSplitsSubject(t *testing.T) {
	t.Parallel()

	subject := square(0, 0, 100)
	band := rect(-10, 40, 110, 60)

	got := Difference(subject, band)
	require.Len(t, got, 2)

	assert.InDelta(t, 8000, totalArea(got), 1e-9)
	assert.True(t, containsAny(got, 50, 20))
	assert.True(t, containsAny(got, 50, 80))
	assert.False(t, containsAny(got, 50, 50))
}

func TestDifferenceResultWindsCCW(t *testing.T) {
	t.Parallel()

	got := Difference(square(0, 0, 100), square(50, 50, 100))
	require.Len(t, got, 1)
	assert.True(t, IsCCW(got[0].LinearRing(0).FlatCoords()))
}

func TestDifferenceLeavesInputsUntouched(t *testing.T) {
	t.Parallel()

	subject := square(0, 0, 100)
	clip := square(50, 50, 100)
	subjBefore := append([]float64(nil), subject.FlatCoords()...)
	clipBefore := append([]float64(nil), clip.FlatCoords()...)

	Difference(subject, clip)

	assert.Equal(t, subjBefore, subject.FlatCoords())
	assert.Equal(t, clipBefore, clip.FlatCoords())
}
