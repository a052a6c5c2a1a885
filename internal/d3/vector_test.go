package d3

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/stretchr/testify/assert"
)

func TestUnitZeroVector(t *testing.T) {
	got := Unit(ms3.Vec{})
	assert.Equal(t, ms3.Vec{}, got)
	assert.True(t, IsFinite(got))
}

func TestUnitLength(t *testing.T) {
	for _, v := range []ms3.Vec{{X: 3, Y: 4}, {X: -1, Y: 2, Z: -7}, {Z: 1e-3}} {
		u := Unit(v)
		assert.InDelta(t, 1, Norm(u), 1e-5, "vector %v", v)
	}
}

func TestCrossOrthogonal(t *testing.T) {
	x := ms3.Vec{X: 1}
	y := ms3.Vec{Y: 1}
	assert.Equal(t, ms3.Vec{Z: 1}, Cross(x, y))
	a := ms3.Vec{X: 1, Y: 2, Z: 3}
	b := ms3.Vec{X: -2, Y: 0.5, Z: 4}
	c := Cross(a, b)
	assert.InDelta(t, 0, Dot(a, c), 1e-5)
	assert.InDelta(t, 0, Dot(b, c), 1e-5)
}

func TestBoxIntersectRay(t *testing.T) {
	bb := CenteredBox(ms3.Vec{}, Elem(1))
	t0, t1, ok := bb.IntersectRay(ms3.Vec{Z: -5}, ms3.Vec{Z: 1}, 100)
	assert.True(t, ok)
	assert.InDelta(t, 4, t0, 1e-6)
	assert.InDelta(t, 6, t1, 1e-6)

	_, _, ok = bb.IntersectRay(ms3.Vec{X: 3, Z: -5}, ms3.Vec{Z: 1}, 100)
	assert.False(t, ok, "parallel ray outside slab")

	_, _, ok = bb.IntersectRay(ms3.Vec{Z: -5}, ms3.Vec{Z: 1}, 3)
	assert.False(t, ok, "segment ends before box")

	_, _, ok = bb.IntersectRay(ms3.Vec{}, ms3.Vec{}, 100)
	assert.True(t, ok, "zero direction inside box")
}

func TestBoxExtend(t *testing.T) {
	bb := Empty()
	assert.True(t, bb.IsEmpty())
	bb = bb.Extend(CenteredBox(ms3.Vec{X: 2}, Elem(1)))
	assert.False(t, bb.IsEmpty())
	assert.True(t, bb.Contains(ms3.Vec{X: 2.5}))
	assert.False(t, bb.Contains(ms3.Vec{}))
	bb = bb.Enlarge(1)
	assert.True(t, bb.Contains(ms3.Vec{}))
	assert.False(t, math32.IsNaN(bb.Max.X))
}
