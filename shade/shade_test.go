package shade

import (
	"testing"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/termsdf"
	"github.com/soypat/termsdf/march"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type solid termsdf.Color

func (s solid) ColorAt(ms3.Vec) termsdf.Color { return termsdf.Color(s) }

func TestPointLighting(t *testing.T) {
	albedo := termsdf.Color{R: 0.5, G: 0.5, B: 0.5}
	up := ms3.Vec{Y: 1}
	var tests = []struct {
		name  string
		light Lighting
		n     ms3.Vec
		want  termsdf.Color
	}{
		{"ambient only", Lighting{Ambient: 0.2}, up, termsdf.Color{R: 0.1, G: 0.1, B: 0.1}},
		{"directional facing", Lighting{Direction: ms3.Vec{Y: 2}, Intensity: 1}, up, albedo},
		{"directional behind", Lighting{Direction: ms3.Vec{Y: -1}, Intensity: 1}, up, termsdf.Color{}},
		{"point at radius", Lighting{Points: []PointLight{{
			Position: ms3.Vec{Y: 2}, Color: termsdf.Color{R: 1}, Intensity: 1, Radius: 2,
		}}}, up, termsdf.Color{R: 0.25}},
		{"clamped", Lighting{Ambient: 10}, up, termsdf.Color{R: 1, G: 1, B: 1}},
	}
	for _, test := range tests {
		got := test.light.Point(albedo, ms3.Vec{}, test.n)
		assert.InDelta(t, test.want.R, got.R, 1e-6, test.name)
		assert.InDelta(t, test.want.G, got.G, 1e-6, test.name)
		assert.InDelta(t, test.want.B, got.B, 1e-6, test.name)
	}
}

func TestShade(t *testing.T) {
	res := march.Result{
		Hit: []bool{true, false},
		Pos: []ms3.Vec{{}, {Z: 9}},
	}
	normals := []ms3.Vec{{Z: -1}, {}}
	bg := termsdf.Color{R: 0.1, G: 0.2, B: 0.3}
	light := Lighting{Ambient: 0.5, Direction: ms3.Vec{Z: -3}, Intensity: 0.5}
	dst := make([]termsdf.Color, 2)
	require.NoError(t, Shade(solid{R: 1, G: 0.5}, &res, normals, light, bg, dst))
	assert.Equal(t, bg, dst[1])
	assert.InDelta(t, 1, dst[0].R, 1e-6)
	assert.InDelta(t, 0.5, dst[0].G, 1e-6)
	assert.Zero(t, dst[0].B)

	assert.Error(t, Shade(solid{}, &res, normals[:1], light, bg, dst))
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultLighting().Validate(8))
	l := DefaultLighting()
	l.Points = make([]PointLight, 3)
	for i := range l.Points {
		l.Points[i] = PointLight{Intensity: 1, Radius: 1}
	}
	require.NoError(t, l.Validate(0))
	assert.ErrorIs(t, l.Validate(2), ErrInvalidLight)
	l.Points[1].Radius = 0
	assert.ErrorIs(t, l.Validate(8), ErrInvalidLight)
	l = DefaultLighting()
	l.Ambient = -1
	assert.ErrorIs(t, l.Validate(8), ErrInvalidLight)
}

func TestBackground(t *testing.T) {
	c := Background(0)
	assert.InDelta(t, 0.02, c.R, 1e-6)
	for _, tm := range []float32{0, 1.5, 10, 1000} {
		c := Background(tm)
		assert.Equal(t, c, c.Clamp())
		assert.Less(t, c.MaxChannel(), float32(0.05))
	}
	assert.NotEqual(t, Background(0), Background(3))
}
