// Package demo provides animated scene sources for the command line renderer.
package demo

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/termsdf"
	"github.com/soypat/termsdf/camera"
	"github.com/soypat/termsdf/render"
	"github.com/soypat/termsdf/scene"
	"github.com/soypat/termsdf/shade"
)

// Default is the name of the source used when none is requested.
const Default = "blobs"

// Registry returns a registry holding every demo source.
func Registry() *render.Registry {
	var reg render.Registry
	for name, ctor := range map[string]func() render.Source{
		"blobs":  func() render.Source { return render.SourceFunc(blobs) },
		"shapes": func() render.Source { return render.SourceFunc(shapes) },
		"lights": func() render.Source { return render.SourceFunc(lights) },
	} {
		if err := reg.Register(name, ctor); err != nil {
			panic(err)
		}
	}
	return &reg
}

var palette = []termsdf.Color{
	{R: 0.95, G: 0.35, B: 0.25},
	{R: 0.25, G: 0.6, B: 0.95},
	{R: 0.4, G: 0.9, B: 0.45},
	{R: 0.95, G: 0.8, B: 0.3},
	{R: 0.75, G: 0.4, B: 0.9},
}

func orbitCamera(t, radius, height float32) camera.Camera {
	s, c := math32.Sincos(t * 0.2)
	return camera.Camera{
		Eye:        ms3.Vec{X: radius * s, Y: height, Z: -radius * c},
		Up:         ms3.Vec{Y: 1},
		FOV:        60,
		CellAspect: 0.5,
	}
}

func sphere(r float32, pos ms3.Vec, c termsdf.Color, group int) scene.ObjectDef {
	return scene.ObjectDef{Shape: scene.Shape{Kind: scene.Sphere, Params: []float32{r}, Color: c}, Position: pos, Group: group}
}

// blobs is a lava lamp of smoothly merging spheres around a crisp mascot.
func blobs(t float32, in *render.Input) error {
	in.Groups = append(in.Groups, scene.GroupDef{Blend: scene.Smooth}, scene.GroupDef{Blend: scene.Hard})
	in.SmoothK = 0.6
	for i := range palette {
		fi := float32(i)
		phase := t*(0.4+0.13*fi) + fi*1.3
		pos := ms3.Vec{
			X: 1.6 * math32.Sin(phase),
			Y: 0.9 * math32.Sin(phase*0.7+fi),
			Z: 1.2 * math32.Cos(phase*0.9),
		}
		r := 0.55 + 0.15*math32.Sin(t+fi)
		in.Objects = append(in.Objects, sphere(r, pos, palette[i], 0))
	}
	bob := 0.15 * math32.Sin(t*2)
	white := termsdf.Color{R: 0.9, G: 0.9, B: 0.9}
	in.Objects = append(in.Objects,
		sphere(0.35, ms3.Vec{Y: 2 + bob}, white, 1),
		scene.ObjectDef{Shape: scene.Shape{Kind: scene.Cone, Params: []float32{0.3, 0.5}, Color: palette[3]}, Position: ms3.Vec{Y: 2.25 + bob}, Group: 1},
		scene.ObjectDef{Shape: scene.Shape{Kind: scene.Plane, Params: []float32{0, 1, 0, 0}, Color: termsdf.Color{R: 0.3, G: 0.3, B: 0.35}}, Position: ms3.Vec{Y: -2}, Group: 1},
	)
	in.Camera = orbitCamera(t, 6, 1.2)
	in.Lighting = shade.DefaultLighting()
	in.Background = shade.Background(t)
	return nil
}

// shapes shows every primitive kind side by side in hard groups.
func shapes(t float32, in *render.Input) error {
	in.Groups = append(in.Groups, scene.GroupDef{Blend: scene.Hard})
	spin := 0.3 * math32.Sin(t)
	kinds := []scene.Shape{
		{Kind: scene.Sphere, Params: []float32{0.7}},
		{Kind: scene.Box, Params: []float32{0.5, 0.6 + 0.1*spin, 0.5}},
		{Kind: scene.Torus, Params: []float32{0.6, 0.2}},
		{Kind: scene.Cylinder, Params: []float32{0.4, 0.7}},
		{Kind: scene.CylinderX, Params: []float32{0.3, 0.7}},
		{Kind: scene.Cone, Params: []float32{0.5, 1.2}},
	}
	for i, s := range kinds {
		s.Color = palette[i%len(palette)]
		angle := float32(i)/float32(len(kinds))*2*math32.Pi + t*0.3
		y, x := math32.Sincos(angle)
		in.Objects = append(in.Objects, scene.ObjectDef{Shape: s, Position: ms3.Vec{X: 2.5 * x, Z: 2.5 * y}})
	}
	in.Objects = append(in.Objects, scene.ObjectDef{
		Shape:    scene.Shape{Kind: scene.Plane, Params: []float32{0, 1, 0, 0}, Color: termsdf.Color{R: 0.25, G: 0.25, B: 0.3}},
		Position: ms3.Vec{Y: -1},
	})
	in.Camera = camera.Camera{Eye: ms3.Vec{Y: 3, Z: -6}, Up: ms3.Vec{Y: 1}, FOV: 65, CellAspect: 0.5}
	in.Lighting = shade.DefaultLighting()
	in.Background = shade.Background(t)
	return nil
}

// lights orbits colored point lights around a smooth cluster with a dim key light.
func lights(t float32, in *render.Input) error {
	in.SmoothK = 0.8
	grey := termsdf.Color{R: 0.85, G: 0.85, B: 0.85}
	in.Objects = append(in.Objects,
		sphere(1, ms3.Vec{X: -0.6}, grey, 0),
		sphere(0.8, ms3.Vec{X: 0.7, Y: 0.3 * math32.Sin(t)}, grey, 0),
		scene.ObjectDef{Shape: scene.Shape{Kind: scene.Torus, Params: []float32{1.6, 0.2}, Color: grey}, Position: ms3.Vec{Y: -0.8}},
	)
	in.Lighting = shade.Lighting{Ambient: 0.05, Direction: ms3.Vec{Y: 1}, Intensity: 0.2}
	for i := 0; i < 3; i++ {
		angle := t + float32(i)*2*math32.Pi/3
		s, c := math32.Sincos(angle)
		in.Lighting.Points = append(in.Lighting.Points, shade.PointLight{
			Position:  ms3.Vec{X: 3 * c, Y: 1, Z: 3 * s},
			Color:     palette[i],
			Intensity: 2,
			Radius:    2.5,
		})
	}
	in.Camera = orbitCamera(t*0.5, 5, 1.5)
	in.Background = shade.Background(t)
	return nil
}
