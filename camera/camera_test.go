package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/termsdf/internal/d3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasisOrthonormal(t *testing.T) {
	cams := []Camera{
		{Eye: ms3.Vec{Z: -5}, Up: ms3.Vec{Y: 1}},
		{Eye: ms3.Vec{X: 3, Y: 2, Z: -4}, At: ms3.Vec{Y: 1}, Up: ms3.Vec{X: 0.3, Y: 1, Z: 0.2}},
	}
	for _, c := range cams {
		f, r, u := c.Basis()
		assert.InDelta(t, 1, d3.Norm(f), 1e-5)
		assert.InDelta(t, 1, d3.Norm(r), 1e-5)
		assert.InDelta(t, 1, d3.Norm(u), 1e-5)
		assert.InDelta(t, 0, d3.Dot(f, r), 1e-5)
		assert.InDelta(t, 0, d3.Dot(f, u), 1e-5)
		assert.InDelta(t, 0, d3.Dot(r, u), 1e-5)
		assert.Positive(t, d3.Dot(u, c.Up), "up keeps the configured orientation")
	}
}

func TestCenterPixel(t *testing.T) {
	c := Camera{Eye: ms3.Vec{X: 1, Y: 2, Z: -5}, At: ms3.Vec{Y: 0.5}, Up: ms3.Vec{Y: 1}, FOV: 60}
	forward, _, _ := c.Basis()
	for _, size := range [][2]int{{1, 1}, {5, 3}, {81, 41}} {
		b, err := c.GenerateRays(size[0], size[1])
		require.NoError(t, err)
		o, d := b.Ray(size[1]/2, size[0]/2)
		assert.Equal(t, c.Eye, o)
		assert.True(t, d3.EqualWithin(forward, d, 1e-5), "%v: %v != %v", size, d, forward)
	}
}

func TestEvenSizeStraddlesForward(t *testing.T) {
	c := Camera{Eye: ms3.Vec{X: 1, Y: 2, Z: -5}, At: ms3.Vec{Y: 0.5}, Up: ms3.Vec{Y: 1}, FOV: 60}
	forward, _, _ := c.Basis()
	for _, size := range [][2]int{{2, 2}, {4, 6}, {80, 40}} {
		w, h := size[0], size[1]
		b, err := c.GenerateRays(w, h)
		require.NoError(t, err)
		// The four pixels around the image center are symmetric about forward.
		_, tl := b.Ray(h/2-1, w/2-1)
		_, br := b.Ray(h/2, w/2)
		_, tr := b.Ray(h/2-1, w/2)
		_, bl := b.Ray(h/2, w/2-1)
		assert.False(t, d3.EqualWithin(forward, tl, 1e-5), "%v", size)
		mid := d3.Unit(d3.Add(d3.Add(tl, br), d3.Add(tr, bl)))
		assert.True(t, d3.EqualWithin(forward, mid, 1e-5), "%v: %v != %v", size, mid, forward)
	}
}

func TestCornersAndOrder(t *testing.T) {
	c := Camera{Eye: ms3.Vec{Z: -5}, Up: ms3.Vec{Y: 1}, FOV: 90}
	b, err := c.GenerateRays(3, 3)
	require.NoError(t, err)
	require.Equal(t, 9, b.Len())
	_, right, up := c.Basis()
	// Row 0 is the top of the image.
	_, top := b.Ray(0, 1)
	_, bottom := b.Ray(2, 1)
	assert.Positive(t, d3.Dot(top, up))
	assert.Negative(t, d3.Dot(bottom, up))
	_, left := b.Ray(1, 0)
	_, rgt := b.Ray(1, 2)
	assert.Negative(t, d3.Dot(left, right))
	assert.Positive(t, d3.Dot(rgt, right))
	// fov 90 puts the top edge at 45 degrees.
	assert.InDelta(t, math32.Sqrt(0.5), d3.Dot(top, up), 1e-5)
	for _, d := range b.Dirs {
		assert.InDelta(t, 1, d3.Norm(d), 1e-5)
	}
}

func TestCellAspectWidensView(t *testing.T) {
	c := Camera{Eye: ms3.Vec{Z: -5}, Up: ms3.Vec{Y: 1}, FOV: 60}
	square, err := c.GenerateRays(3, 3)
	require.NoError(t, err)
	c.CellAspect = 0.5
	narrow, err := c.GenerateRays(3, 3)
	require.NoError(t, err)
	_, sq := square.Ray(1, 2)
	_, nr := narrow.Ray(1, 2)
	assert.Less(t, math32.Abs(nr.X), math32.Abs(sq.X))
}

func TestDegenerateEyeAt(t *testing.T) {
	c := Camera{Eye: ms3.Vec{X: 1}, At: ms3.Vec{X: 1}, Up: ms3.Vec{Y: 1}, FOV: 60}
	f, r, u := c.Basis()
	assert.Equal(t, ms3.Vec{}, f)
	assert.Equal(t, ms3.Vec{}, r)
	assert.Equal(t, ms3.Vec{}, u)
	b, err := c.GenerateRays(4, 2)
	require.NoError(t, err)
	for _, d := range b.Dirs {
		assert.True(t, d3.IsFinite(d))
		assert.Equal(t, ms3.Vec{}, d)
	}
}

func TestGenerateErrors(t *testing.T) {
	c := Camera{Eye: ms3.Vec{Z: -5}, Up: ms3.Vec{Y: 1}, FOV: 60}
	var b RayBatch
	assert.ErrorIs(t, c.GenerateRaysInto(&b, 0, 3, 100), ErrInvalid)
	assert.ErrorIs(t, c.GenerateRaysInto(&b, 20, 20, 100), ErrCapacity)
	assert.Zero(t, b.Len())
	c.FOV = 180
	assert.ErrorIs(t, c.GenerateRaysInto(&b, 2, 2, 100), ErrInvalid)

	c.FOV = 60
	require.NoError(t, c.GenerateRaysInto(&b, 10, 10, 100))
	allocs := testing.AllocsPerRun(5, func() {
		if err := c.GenerateRaysInto(&b, 8, 8, 100); err != nil {
			panic(err)
		}
	})
	assert.Zero(t, allocs)
}
