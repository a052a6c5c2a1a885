package eval

import (
	"testing"

	"github.com/soypat/glgl/math/ms3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunc(t *testing.T) {
	f := Func(func(p ms3.Vec) float32 { return p.X - 1 })
	pos := []ms3.Vec{{X: 0}, {X: 1}, {X: 3}}
	dist := make([]float32, len(pos))
	require.NoError(t, f.Evaluate(pos, dist, nil))
	assert.Equal(t, []float32{-1, 0, 2}, dist)
	assert.Equal(t, float32(4), f.EvaluatePoint(ms3.Vec{X: 5}))
	assert.ErrorIs(t, f.Evaluate(pos, dist[:1], nil), ErrLengthMismatch)
}

func TestVecPoolReuse(t *testing.T) {
	var vp VecPool
	a := vp.Float.Acquire(16)
	assert.Len(t, a, 16)
	b := vp.Float.Acquire(8)
	assert.Error(t, vp.AssertAllReleased())
	require.NoError(t, vp.Float.Release(a))
	require.NoError(t, vp.Float.Release(b))
	require.NoError(t, vp.AssertAllReleased())

	// Released buffers are handed out again instead of allocating.
	c := vp.Float.Acquire(10)
	assert.Len(t, c, 10)
	assert.Same(t, &a[0], &c[0])
	require.NoError(t, vp.Float.Release(c))
	assert.Equal(t, 24*4, vp.Allocated())
}

func TestVecPoolReleaseErrors(t *testing.T) {
	var vp VecPool
	v := vp.V3.Acquire(4)
	require.NoError(t, vp.V3.Release(v))
	assert.Error(t, vp.V3.Release(v), "double release")
	assert.Error(t, vp.V3.Release(make([]ms3.Vec, 4)), "foreign buffer")
	empty := vp.V3.Acquire(0)
	assert.Len(t, empty, 0)
	assert.NoError(t, vp.V3.Release(empty))
}

type leaky struct{}

func (leaky) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	vp, err := GetVecPool(userData)
	if err != nil {
		return err
	}
	vp.Float.Acquire(len(pos))
	return nil
}

func TestCPULeakDetection(t *testing.T) {
	cpu := CPU{SDF: leaky{}}
	err := cpu.Evaluate(make([]ms3.Vec, 2), make([]float32, 2), nil)
	assert.Error(t, err)

	_, err = GetVecPool(42)
	assert.Error(t, err)
	vp, err := GetVecPool(&cpu)
	require.NoError(t, err)
	assert.Same(t, cpu.VecPool(), vp)
}
