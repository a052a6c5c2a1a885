package render

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/termsdf"
	"github.com/soypat/termsdf/camera"
	"github.com/soypat/termsdf/internal/d3"
	"github.com/soypat/termsdf/raster"
	"github.com/soypat/termsdf/scene"
	"github.com/soypat/termsdf/shade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red  = termsdf.Color{R: 1}
	blue = termsdf.Color{B: 1}
	bg   = termsdf.Color{R: 0.02, G: 0.02, B: 0.03}
)

func sphere(r float32, pos ms3.Vec, c termsdf.Color) scene.ObjectDef {
	return scene.ObjectDef{Shape: scene.Shape{Kind: scene.Sphere, Params: []float32{r}, Color: c}, Position: pos}
}

func newRenderer(t testing.TB, mod func(*Options)) *Renderer {
	opts := DefaultOptions()
	if mod != nil {
		mod(&opts)
	}
	r, err := New(opts)
	require.NoError(t, err)
	return r
}

func TestSingleSphereCenterPixel(t *testing.T) {
	r := newRenderer(t, nil)
	in := Input{
		Objects:    []scene.ObjectDef{sphere(1, ms3.Vec{}, red)},
		Camera:     camera.Camera{Eye: ms3.Vec{Z: -5}, Up: ms3.Vec{Y: 1}, FOV: 60},
		Lighting:   shade.DefaultLighting(),
		Background: bg,
	}
	require.NoError(t, r.Render(&in, 1, 1))
	res := r.Result()
	require.True(t, res.Hit[0])
	assert.InDelta(t, 4, res.Dist[0], float64(r.Options().March.HitThreshold))
	n := r.Normals()[0]
	assert.True(t, d3.EqualWithin(n, ms3.Vec{Z: -1}, 1e-3), "normal %v", n)
	assert.NotEqual(t, bg, r.Colors()[0])
	assert.Equal(t, 1, r.Stats().Hits)
}

// wideView looks down +Z from z=-10 with a square 90 degree frustum over a 41x11 cell grid.
const wideW, wideH = 41, 11

func wideView() camera.Camera {
	return camera.Camera{Eye: ms3.Vec{Z: -10}, Up: ms3.Vec{Y: 1}, FOV: 90, CellAspect: float32(wideH) / wideW}
}

func TestHardSpheresGap(t *testing.T) {
	r := newRenderer(t, nil)
	in := Input{
		Objects:    []scene.ObjectDef{sphere(1, ms3.Vec{X: -3}, red), sphere(1, ms3.Vec{X: 3}, blue)},
		Groups:     []scene.GroupDef{{Blend: scene.Hard}},
		SmoothK:    0.5,
		Camera:     wideView(),
		Lighting:   shade.DefaultLighting(),
		Background: bg,
	}
	require.NoError(t, r.Render(&in, wideW, wideH))
	res := r.Result()
	colors := r.Colors()
	const mid = wideW / 2
	var left, right bool
	for row := 0; row < wideH; row++ {
		for col := 0; col < wideW; col++ {
			i := row*wideW + col
			if !res.Hit[i] {
				assert.Equal(t, bg, colors[i])
				continue
			}
			left = left || col < mid
			right = right || col > mid
		}
		assert.False(t, res.Hit[row*wideW+mid], "row %d center column hit", row)
	}
	assert.True(t, left)
	assert.True(t, right)
	// Left hits are red, right hits are blue.
	row := wideH / 2
	for col := 0; col < wideW; col++ {
		i := row*wideW + col
		if res.Hit[i] && col < mid {
			assert.Zero(t, colors[i].B)
		} else if res.Hit[i] {
			assert.Zero(t, colors[i].R)
		}
	}
}

func TestSmoothSpheresBlend(t *testing.T) {
	r := newRenderer(t, nil)
	in := Input{
		Objects:    []scene.ObjectDef{sphere(1, ms3.Vec{X: -0.5}, red), sphere(1, ms3.Vec{X: 0.5}, blue)},
		Groups:     []scene.GroupDef{{Blend: scene.Smooth}},
		SmoothK:    2,
		Camera:     wideView(),
		Lighting:   shade.DefaultLighting(),
		Background: bg,
	}
	require.NoError(t, r.Render(&in, wideW, wideH))
	res := r.Result()
	row := wideH / 2
	first, last := -1, -1
	for col := 0; col < wideW; col++ {
		if res.Hit[row*wideW+col] {
			if first < 0 {
				first = col
			}
			last = col
		}
	}
	require.GreaterOrEqual(t, first, 0)
	for col := first; col <= last; col++ {
		assert.True(t, res.Hit[row*wideW+col], "gap at column %d", col)
	}
	center := r.Colors()[row*wideW+wideW/2]
	assert.Greater(t, center.R, float32(0.1))
	assert.Greater(t, center.B, float32(0.1))
	assert.InDelta(t, center.R, center.B, 0.02)
	assert.InDelta(t, 0, center.G, 1e-6)
}

func TestCapacityErrors(t *testing.T) {
	r := newRenderer(t, func(o *Options) {
		o.MaxRays = 100
		o.Limits = scene.Limits{MaxShapes: 2, MaxGroups: 1}
		o.MaxPointLights = 1
	})
	ok := Input{
		Objects:  []scene.ObjectDef{sphere(1, ms3.Vec{}, red)},
		Camera:   camera.Camera{Eye: ms3.Vec{Z: -5}, Up: ms3.Vec{Y: 1}, FOV: 60},
		Lighting: shade.DefaultLighting(),
	}
	require.NoError(t, r.Render(&ok, 10, 10))

	err := r.Render(&ok, 11, 10)
	assert.ErrorIs(t, err, ErrCapacity)

	many := ok
	many.Objects = []scene.ObjectDef{ok.Objects[0], ok.Objects[0], ok.Objects[0]}
	err = r.Render(&many, 4, 4)
	assert.ErrorIs(t, err, ErrCapacity)
	assert.ErrorIs(t, err, scene.ErrCapacity)

	lights := ok
	lights.Lighting.Points = make([]shade.PointLight, 2)
	assert.ErrorIs(t, r.Render(&lights, 4, 4), ErrCapacity)

	bad := ok
	bad.Objects = []scene.ObjectDef{{Shape: scene.Shape{Kind: scene.Box, Params: make([]float32, 6)}}}
	err = r.Render(&bad, 4, 4)
	assert.ErrorIs(t, err, scene.ErrMalformed)
	assert.False(t, errors.Is(err, ErrCapacity))

	assert.Error(t, r.Render(&ok, 0, 4))

	opts := DefaultOptions()
	opts.Limits.MaxGroups = scene.MaxLimits.MaxGroups + 1
	_, err = New(opts)
	assert.ErrorIs(t, err, ErrCapacity)
}

func TestUpscaleAndModes(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := newRenderer(t, func(o *Options) {
		o.Scale = 2
		o.Logger = log
	})
	in := Input{
		Objects:    []scene.ObjectDef{sphere(1, ms3.Vec{}, red)},
		Camera:     camera.Camera{Eye: ms3.Vec{Z: -4}, Up: ms3.Vec{Y: 1}, FOV: 60},
		Lighting:   shade.DefaultLighting(),
		Background: bg,
	}
	const w, h = 9, 7
	for m := raster.ASCII; m <= raster.HalfBlock; m++ {
		r.SetMode(m)
		require.NoError(t, r.Render(&in, w, h))
		assert.Len(t, r.Colors(), w*h)
		assert.Equal(t, 5*4, r.Result().Len())
		cells := r.Cells()
		assert.Equal(t, w, cells.Width)
		assert.Equal(t, m.Rows(h), cells.Height)
		out := string(r.AppendANSI(nil))
		assert.Equal(t, m.Rows(h), strings.Count(out, "\r\n")+1)
	}
	assert.Contains(t, buf.String(), "msg=frame")
}

func TestRegistry(t *testing.T) {
	var reg Registry
	calls := 0
	spin := func() Source {
		return SourceFunc(func(tm float32, in *Input) error {
			calls++
			in.Objects = append(in.Objects, sphere(1, ms3.Vec{X: tm}, red))
			in.Camera = camera.Camera{Eye: ms3.Vec{Z: -5}, Up: ms3.Vec{Y: 1}, FOV: 60}
			in.Lighting = shade.DefaultLighting()
			return nil
		})
	}
	require.NoError(t, reg.Register("spin", spin))
	assert.Error(t, reg.Register("spin", spin))
	require.NoError(t, reg.Register("another", spin))
	assert.Equal(t, []string{"another", "spin"}, reg.Names())
	_, err := reg.New("missing")
	assert.ErrorIs(t, err, ErrUnknownSource)

	src, err := reg.New("spin")
	require.NoError(t, err)
	r := newRenderer(t, nil)
	var in Input
	for i := 0; i < 3; i++ {
		require.NoError(t, r.Frame(src, float32(i)*0.1, &in, 8, 4))
		assert.Len(t, in.Objects, 1)
	}
	assert.Equal(t, 3, calls)
}

func BenchmarkRender(b *testing.B) {
	r := newRenderer(b, nil)
	in := Input{
		Objects: []scene.ObjectDef{
			sphere(1, ms3.Vec{X: -0.8}, red),
			sphere(0.9, ms3.Vec{X: 0.8}, blue),
			{Shape: scene.Shape{Kind: scene.Torus, Params: []float32{1.6, 0.25}, Color: red}, Position: ms3.Vec{Y: -1}},
		},
		SmoothK:  0.5,
		Camera:   camera.Camera{Eye: ms3.Vec{Y: 1, Z: -6}, Up: ms3.Vec{Y: 1}, FOV: 60, CellAspect: 0.5},
		Lighting: shade.DefaultLighting(),
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Render(&in, 120, 40)
	}
}
