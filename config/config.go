// Package config loads renderer settings, camera, lighting and static scenes
// from TOML or YAML documents.
package config

import (
	"errors"
	"fmt"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/termsdf"
	"github.com/soypat/termsdf/camera"
	"github.com/soypat/termsdf/march"
	"github.com/soypat/termsdf/raster"
	"github.com/soypat/termsdf/render"
	"github.com/soypat/termsdf/scene"
	"github.com/soypat/termsdf/shade"
)

// ErrInvalid is returned for configuration documents that fail to decode or validate.
var ErrInvalid = errors.New("invalid configuration")

// Vec is a 3 component vector written as an array.
type Vec [3]float32

func (v Vec) ms3() ms3.Vec { return ms3.Vec{X: v[0], Y: v[1], Z: v[2]} }

// Config is the root configuration document.
type Config struct {
	Render   Render   `toml:"render" yaml:"render"`
	Camera   Camera   `toml:"camera" yaml:"camera"`
	Lighting Lighting `toml:"lighting" yaml:"lighting"`
	Groups   []Group  `toml:"groups,omitempty" yaml:"groups,omitempty"`
	Objects  []Object `toml:"objects,omitempty" yaml:"objects,omitempty"`
}

// Render holds output and marching settings.
type Render struct {
	// Width and Height in cells. Zero means the terminal size.
	Width  int     `toml:"width" yaml:"width"`
	Height int     `toml:"height" yaml:"height"`
	Mode   string  `toml:"mode" yaml:"mode"`
	Scale  int     `toml:"scale" yaml:"scale"`
	FPS    float64 `toml:"fps" yaml:"fps"`

	MaxSteps     int     `toml:"max_steps" yaml:"max_steps"`
	MaxDist      float32 `toml:"max_dist" yaml:"max_dist"`
	HitThreshold float32 `toml:"hit_threshold" yaml:"hit_threshold"`
	NormalEps    float32 `toml:"normal_eps" yaml:"normal_eps"`
	Cull         bool    `toml:"cull" yaml:"cull"`
	SmoothK      float32 `toml:"smooth_k" yaml:"smooth_k"`
	// Background is a hex color. Empty selects the animated background.
	Background string `toml:"background,omitempty" yaml:"background,omitempty"`
}

type Camera struct {
	Eye        Vec     `toml:"eye" yaml:"eye"`
	At         Vec     `toml:"at" yaml:"at"`
	Up         Vec     `toml:"up" yaml:"up"`
	FOV        float32 `toml:"fov" yaml:"fov"`
	CellAspect float32 `toml:"cell_aspect" yaml:"cell_aspect"`
}

type Lighting struct {
	Ambient   float32      `toml:"ambient" yaml:"ambient"`
	Direction Vec          `toml:"direction" yaml:"direction"`
	Intensity float32      `toml:"intensity" yaml:"intensity"`
	Points    []PointLight `toml:"point,omitempty" yaml:"point,omitempty"`
}

type PointLight struct {
	Position  Vec     `toml:"position" yaml:"position"`
	Color     string  `toml:"color" yaml:"color"`
	Intensity float32 `toml:"intensity" yaml:"intensity"`
	Radius    float32 `toml:"radius" yaml:"radius"`
}

// Group declares the blend mode of a group: "hard" or "smooth".
type Group struct {
	Blend string `toml:"blend" yaml:"blend"`
}

// Object is one primitive of a static scene.
type Object struct {
	Kind     string    `toml:"kind" yaml:"kind"`
	Params   []float32 `toml:"params" yaml:"params"`
	Position Vec       `toml:"position" yaml:"position"`
	Color    string    `toml:"color" yaml:"color"`
	Group    int       `toml:"group,omitempty" yaml:"group,omitempty"`
}

// Default returns the default configuration. Decoding a document on top of
// it keeps defaults for omitted fields.
func Default() Config {
	mc := march.DefaultConfig()
	light := shade.DefaultLighting()
	return Config{
		Render: Render{
			Mode:         raster.ASCII.String(),
			Scale:        1,
			FPS:          30,
			MaxSteps:     mc.MaxSteps,
			MaxDist:      mc.MaxDist,
			HitThreshold: mc.HitThreshold,
			NormalEps:    mc.NormalEps,
			Cull:         mc.Cull,
			SmoothK:      0.5,
		},
		Camera: Camera{
			Eye:        Vec{0, 1, -6},
			Up:         Vec{0, 1, 0},
			FOV:        60,
			CellAspect: 0.5,
		},
		Lighting: Lighting{
			Ambient:   light.Ambient,
			Direction: Vec{light.Direction.X, light.Direction.Y, light.Direction.Z},
			Intensity: light.Intensity,
		},
	}
}

// Validate checks every section and returns the first problem found wrapped in [ErrInvalid].
func (c *Config) Validate() error {
	if _, err := raster.ParseMode(c.Render.Mode); err != nil {
		return fmt.Errorf("%w: render: %w", ErrInvalid, err)
	}
	switch {
	case c.Render.Width < 0 || c.Render.Height < 0:
		return fmt.Errorf("%w: render: negative size %dx%d", ErrInvalid, c.Render.Width, c.Render.Height)
	case c.Render.Scale < 1:
		return fmt.Errorf("%w: render: scale must be at least 1, got %d", ErrInvalid, c.Render.Scale)
	case !(c.Render.FPS > 0):
		return fmt.Errorf("%w: render: fps must be positive, got %v", ErrInvalid, c.Render.FPS)
	case c.Render.SmoothK < 0:
		return fmt.Errorf("%w: render: negative smooth_k %v", ErrInvalid, c.Render.SmoothK)
	}
	if err := c.March().Validate(); err != nil {
		return fmt.Errorf("%w: render: %w", ErrInvalid, err)
	}
	if _, err := c.Background(); err != nil {
		return err
	}
	if _, err := c.Camera.Build().GenerateRays(1, 1); err != nil {
		return fmt.Errorf("%w: camera: %w", ErrInvalid, err)
	}
	light, err := c.Lighting.Build()
	if err != nil {
		return err
	}
	if err := light.Validate(0); err != nil {
		return fmt.Errorf("%w: lighting: %w", ErrInvalid, err)
	}
	objs, groups, err := c.Scene()
	if err != nil {
		return err
	}
	lim := scene.Limits{MaxShapes: max(len(objs), 1), MaxGroups: max(len(groups), 1)}
	if err := scene.CompileInto(new(scene.Flat), lim, objs, groups, c.Render.SmoothK); err != nil {
		return fmt.Errorf("%w: scene: %w", ErrInvalid, err)
	}
	return nil
}

// March returns the marching configuration.
func (c *Config) March() march.Config {
	return march.Config{
		MaxSteps:     c.Render.MaxSteps,
		MaxDist:      c.Render.MaxDist,
		HitThreshold: c.Render.HitThreshold,
		NormalEps:    c.Render.NormalEps,
		Cull:         c.Render.Cull,
	}
}

// Options returns renderer options with default capacities.
func (c *Config) Options() (render.Options, error) {
	mode, err := raster.ParseMode(c.Render.Mode)
	if err != nil {
		return render.Options{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	opts := render.DefaultOptions()
	opts.March = c.March()
	opts.Mode = mode
	opts.Scale = c.Render.Scale
	return opts, nil
}

// Background returns the fixed background color. It is black when unset.
func (c *Config) Background() (bg termsdf.Color, err error) {
	if c.Render.Background == "" {
		return bg, nil
	}
	bg, err = termsdf.ColorFromHex(c.Render.Background)
	if err != nil {
		return bg, fmt.Errorf("%w: render: background: %w", ErrInvalid, err)
	}
	return bg, nil
}

// Build returns the camera described by c.
func (c Camera) Build() camera.Camera {
	return camera.Camera{
		Eye:        c.Eye.ms3(),
		At:         c.At.ms3(),
		Up:         c.Up.ms3(),
		FOV:        c.FOV,
		CellAspect: c.CellAspect,
	}
}

// Build converts the lighting section, parsing point light colors.
func (l Lighting) Build() (shade.Lighting, error) {
	out := shade.Lighting{
		Ambient:   l.Ambient,
		Direction: l.Direction.ms3(),
		Intensity: l.Intensity,
	}
	for i, p := range l.Points {
		color, err := termsdf.ColorFromHex(p.Color)
		if err != nil {
			return out, fmt.Errorf("%w: lighting: point %d color: %w", ErrInvalid, i, err)
		}
		out.Points = append(out.Points, shade.PointLight{
			Position:  p.Position.ms3(),
			Color:     color,
			Intensity: p.Intensity,
			Radius:    p.Radius,
		})
	}
	return out, nil
}

// Scene converts the objects and groups sections.
func (c *Config) Scene() ([]scene.ObjectDef, []scene.GroupDef, error) {
	groups := make([]scene.GroupDef, len(c.Groups))
	for i, g := range c.Groups {
		switch g.Blend {
		case "hard":
			groups[i].Blend = scene.Hard
		case "smooth", "":
			groups[i].Blend = scene.Smooth
		default:
			return nil, nil, fmt.Errorf("%w: groups: %d: unknown blend %q", ErrInvalid, i, g.Blend)
		}
	}
	objs := make([]scene.ObjectDef, len(c.Objects))
	for i, o := range c.Objects {
		kind, ok := scene.ParseShapeKind(o.Kind)
		if !ok {
			return nil, nil, fmt.Errorf("%w: objects: %d: unknown kind %q", ErrInvalid, i, o.Kind)
		}
		color, err := termsdf.ColorFromHex(o.Color)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: objects: %d: color: %w", ErrInvalid, i, err)
		}
		objs[i] = scene.ObjectDef{
			Shape:    scene.Shape{Kind: kind, Params: o.Params, Color: color},
			Position: o.Position.ms3(),
			Group:    o.Group,
		}
	}
	return objs, groups, nil
}

// Source returns a source rendering the static scene of c with its camera
// and lighting. Without a fixed background the animated one is used.
func (c *Config) Source() (render.Source, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	objs, groups, _ := c.Scene()
	light, _ := c.Lighting.Build()
	bg, _ := c.Background()
	animated := c.Render.Background == ""
	cam := c.Camera.Build()
	k := c.Render.SmoothK
	return render.SourceFunc(func(t float32, in *render.Input) error {
		in.Objects = append(in.Objects, objs...)
		in.Groups = append(in.Groups, groups...)
		in.SmoothK = k
		in.Camera = cam
		in.Lighting = light
		in.Background = bg
		if animated {
			in.Background = shade.Background(t)
		}
		return nil
	}), nil
}
