// Package shade turns march results into colors using ambient, directional
// and point lights.
package shade

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/termsdf"
	"github.com/soypat/termsdf/internal/d3"
)

// ErrInvalidLight is returned by [Lighting.Validate].
var ErrInvalidLight = errors.New("invalid lighting")

// PointLight is a colored light with a soft inverse square falloff.
type PointLight struct {
	Position  ms3.Vec
	Color     termsdf.Color
	Intensity float32
	// Radius is the distance at which the light's contribution halves.
	Radius float32
}

// Lighting is the per frame light setup.
type Lighting struct {
	Ambient float32
	// Direction points from the surface towards the directional light. It need not be normalized.
	Direction ms3.Vec
	// Intensity of the white directional light.
	Intensity float32
	Points    []PointLight
}

// DefaultLighting returns a dim ambient term and a white key light from the upper right front.
func DefaultLighting() Lighting {
	return Lighting{
		Ambient:   0.1,
		Direction: ms3.Vec{X: 0.577, Y: 0.577, Z: -0.577},
		Intensity: 1,
	}
}

// Validate checks light parameters are finite and within range.
// maxPoints <= 0 means no limit on the number of point lights.
func (l Lighting) Validate(maxPoints int) error {
	if maxPoints > 0 && len(l.Points) > maxPoints {
		return fmt.Errorf("%w: %d point lights, maximum is %d", ErrInvalidLight, len(l.Points), maxPoints)
	}
	if !finite(l.Ambient) || l.Ambient < 0 || !finite(l.Intensity) || l.Intensity < 0 || !d3.IsFinite(l.Direction) {
		return fmt.Errorf("%w: ambient %v directional %v intensity %v", ErrInvalidLight, l.Ambient, l.Direction, l.Intensity)
	}
	for i, p := range l.Points {
		switch {
		case !(p.Radius > 0) || math32.IsInf(p.Radius, 0):
			return fmt.Errorf("%w: point light %d radius %v", ErrInvalidLight, i, p.Radius)
		case !finite(p.Intensity) || p.Intensity < 0:
			return fmt.Errorf("%w: point light %d intensity %v", ErrInvalidLight, i, p.Intensity)
		case !d3.IsFinite(p.Position):
			return fmt.Errorf("%w: point light %d position %v", ErrInvalidLight, i, p.Position)
		}
	}
	return nil
}

func finite(v float32) bool { return !math32.IsNaN(v) && !math32.IsInf(v, 0) }

// Background returns the animated backdrop color at time t seconds: a dark
// blue grey slowly oscillating per channel.
func Background(t float32) termsdf.Color {
	c := termsdf.Color{
		R: 0.02 + math32.Sin(t*0.5)*0.01,
		G: 0.02 + math32.Sin(t*0.3+1)*0.01,
		B: 0.03 + math32.Sin(t*0.7+2)*0.015,
	}
	return c.Clamp()
}
