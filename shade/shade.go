package shade

import (
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/termsdf"
	"github.com/soypat/termsdf/eval"
	"github.com/soypat/termsdf/internal/d3"
	"github.com/soypat/termsdf/march"
)

// Albedo provides the surface color at a point, such as a [scene.Flat].
type Albedo interface {
	ColorAt(p ms3.Vec) termsdf.Color
}

var white = termsdf.Color{R: 1, G: 1, B: 1}

// Point returns the lit color of a surface point p with normal n and base color albedo.
func (l *Lighting) Point(albedo termsdf.Color, p, n ms3.Vec) termsdf.Color {
	c := albedo.Scale(l.Ambient)
	if l.Intensity > 0 {
		if lambert := d3.Dot(n, d3.Unit(l.Direction)); lambert > 0 {
			c = c.Add(albedo.Mul(white).Scale(l.Intensity * lambert))
		}
	}
	for i := range l.Points {
		pl := &l.Points[i]
		toLight := d3.Sub(pl.Position, p)
		dist := d3.Norm(toLight)
		lambert := d3.Dot(n, d3.Unit(toLight))
		if lambert <= 0 {
			continue
		}
		q := dist / pl.Radius
		atten := pl.Intensity / (1 + q*q)
		c = c.Add(albedo.Mul(pl.Color).Scale(atten * lambert))
	}
	return c.Clamp()
}

// Shade writes the color of every ray in res to dst. Hits are lit with the
// albedo of src at the hit position, misses get background unlit.
// normals must hold the surface normal of every hit ray.
func Shade(src Albedo, res *march.Result, normals []ms3.Vec, light Lighting, background termsdf.Color, dst []termsdf.Color) error {
	n := res.Len()
	if len(normals) != n || len(dst) != n {
		return eval.ErrLengthMismatch
	}
	// Normalize once instead of per pixel.
	light.Direction = d3.Unit(light.Direction)
	background = background.Clamp()
	for i, hit := range res.Hit {
		if !hit {
			dst[i] = background
			continue
		}
		p := res.Pos[i]
		dst[i] = light.Point(src.ColorAt(p), p, normals[i])
	}
	return nil
}

