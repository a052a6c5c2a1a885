package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/termsdf"
	"github.com/soypat/termsdf/raster"
	"github.com/soypat/termsdf/render"
	"github.com/soypat/termsdf/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOML = `
[render]
mode = "halfblock"
max_steps = 48
smooth_k = 0.8
background = "#101820"

[camera]
eye = [0, 2, -7]
fov = 70

[lighting]
ambient = 0.2

[[lighting.point]]
position = [2, 3, -2]
color = "#ff8000"
intensity = 1.5
radius = 4

[[groups]]
blend = "smooth"

[[groups]]
blend = "hard"

[[objects]]
kind = "sphere"
params = [1]
position = [-1, 0, 0]
color = "#ff0000"

[[objects]]
kind = "box"
params = [0.5, 0.5, 0.5]
position = [2, 0, 0]
color = "#0000ff"
group = 1
`

const sampleYAML = `
render:
  mode: truecolor
  scale: 2
camera:
  eye: [0, 0, -5]
objects:
  - kind: torus
    params: [1.5, 0.3]
    position: [0, 0, 0]
    color: "#00ff00"
`

func TestDecodeTOML(t *testing.T) {
	cfg, err := Decode(strings.NewReader(sampleTOML), TOML)
	require.NoError(t, err)
	assert.Equal(t, "halfblock", cfg.Render.Mode)
	assert.Equal(t, 48, cfg.Render.MaxSteps)
	// Omitted fields keep defaults.
	assert.Equal(t, Default().Render.MaxDist, cfg.Render.MaxDist)
	assert.Equal(t, Default().Camera.Up, cfg.Camera.Up)
	assert.Equal(t, float32(70), cfg.Camera.FOV)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, raster.HalfBlock, opts.Mode)
	assert.Equal(t, 48, opts.March.MaxSteps)

	objs, groups, err := cfg.Scene()
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, []scene.GroupDef{{Blend: scene.Smooth}, {Blend: scene.Hard}}, groups)
	assert.Equal(t, scene.Box, objs[1].Shape.Kind)
	assert.Equal(t, termsdf.Color{B: 1}, objs[1].Shape.Color)
	assert.Equal(t, ms3.Vec{X: 2}, objs[1].Position)
	assert.Equal(t, 1, objs[1].Group)

	light, err := cfg.Lighting.Build()
	require.NoError(t, err)
	require.Len(t, light.Points, 1)
	assert.InDelta(t, 128.0/255, light.Points[0].Color.G, 1e-6)
	bg, err := cfg.Background()
	require.NoError(t, err)
	assert.Equal(t, "#101820", bg.Hex())
}

func TestDecodeYAML(t *testing.T) {
	cfg, err := Decode(strings.NewReader(sampleYAML), YAML)
	require.NoError(t, err)
	assert.Equal(t, "truecolor", cfg.Render.Mode)
	assert.Equal(t, 2, cfg.Render.Scale)
	assert.Equal(t, Default().Render.SmoothK, cfg.Render.SmoothK)
	require.Len(t, cfg.Objects, 1)
	assert.Equal(t, "torus", cfg.Objects[0].Kind)

	// Empty documents are the defaults.
	cfg, err = Decode(strings.NewReader(""), YAML)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDecodeErrors(t *testing.T) {
	var tests = []struct {
		name string
		f    Format
		doc  string
	}{
		{"unknown toml field", TOML, "[render]\nwidht = 3\n"},
		{"unknown yaml field", YAML, "camera:\n  fvo: 3\n"},
		{"bad mode", TOML, "[render]\nmode = \"sixel\"\n"},
		{"bad color", TOML, "[[objects]]\nkind = \"sphere\"\nparams = [1]\ncolor = \"red\"\n"},
		{"bad kind", YAML, "objects:\n  - kind: blob\n    color: \"#fff\"\n"},
		{"too many params", YAML, "objects:\n  - kind: box\n    params: [1,2,3,4,5]\n    color: \"#fff\"\n"},
		{"bad group", TOML, "[[groups]]\nblend = \"soft\"\n"},
		{"bad fov", TOML, "[camera]\nfov = 180\n"},
		{"bad light", TOML, "[[lighting.point]]\ncolor = \"#fff\"\nradius = 0\n"},
		{"bad steps", TOML, "[render]\nmax_steps = 0\n"},
		{"syntax", TOML, "[render\n"},
	}
	for _, test := range tests {
		_, err := Decode(strings.NewReader(test.doc), test.f)
		assert.ErrorIs(t, err, ErrInvalid, test.name)
	}
	_, err := Decode(strings.NewReader(""), Format("json"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoadAndEncode(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Decode(strings.NewReader(sampleTOML), TOML)
	require.NoError(t, err)
	for _, name := range []string{"scene.toml", "scene.yml"} {
		f, err := FormatOf(name)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, cfg.Encode(&buf, f))
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
		got, err := Load(path)
		require.NoError(t, err, buf.String())
		assert.Equal(t, cfg, got, name)
	}
	_, err = FormatOf("scene.json")
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestSource(t *testing.T) {
	cfg, err := Decode(strings.NewReader(sampleTOML), TOML)
	require.NoError(t, err)
	src, err := cfg.Source()
	require.NoError(t, err)
	opts, err := cfg.Options()
	require.NoError(t, err)
	r, err := render.New(opts)
	require.NoError(t, err)
	var in render.Input
	require.NoError(t, r.Frame(src, 0, &in, 16, 8))
	assert.Len(t, in.Objects, 2)
	assert.Equal(t, float32(0.8), in.SmoothK)
	assert.Positive(t, r.Stats().Hits)

	// Animated background without a fixed color.
	cfg.Render.Background = ""
	src, err = cfg.Source()
	require.NoError(t, err)
	require.NoError(t, src.Update(3, &in))
	assert.NotEqual(t, termsdf.Color{}, in.Background)
}
