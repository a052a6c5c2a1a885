package d3

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// ms3.Vec manipulation routines used across the renderer.
// All functions are pure and return new values.

func Elem(s float32) ms3.Vec {
	return ms3.Vec{X: s, Y: s, Z: s}
}

func Add(a, b ms3.Vec) ms3.Vec {
	return ms3.Vec{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z}
}

func Sub(a, b ms3.Vec) ms3.Vec {
	return ms3.Vec{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}
}

func Scale(f float32, a ms3.Vec) ms3.Vec {
	return ms3.Vec{X: f * a.X, Y: f * a.Y, Z: f * a.Z}
}

func Dot(a, b ms3.Vec) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func Cross(a, b ms3.Vec) ms3.Vec {
	return ms3.Vec{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

// Norm returns the euclidean length of a.
func Norm(a ms3.Vec) float32 {
	return math32.Sqrt(Dot(a, a))
}

// Unit returns a scaled to unit length. The zero vector (or one whose
// length is not a finite positive number) yields the zero vector instead of NaNs.
func Unit(a ms3.Vec) ms3.Vec {
	l := Norm(a)
	if !(l > 0) || math32.IsInf(l, 0) {
		return ms3.Vec{}
	}
	return Scale(1/l, a)
}

// AddScaled returns a + t*b.
func AddScaled(a ms3.Vec, t float32, b ms3.Vec) ms3.Vec {
	return ms3.Vec{X: a.X + t*b.X, Y: a.Y + t*b.Y, Z: a.Z + t*b.Z}
}

func AbsElem(a ms3.Vec) ms3.Vec {
	return ms3.Vec{X: math32.Abs(a.X), Y: math32.Abs(a.Y), Z: math32.Abs(a.Z)}
}

// MinElem return a vector with the minimum components of two vectors.
func MinElem(a, b ms3.Vec) ms3.Vec {
	return ms3.Vec{X: math32.Min(a.X, b.X), Y: math32.Min(a.Y, b.Y), Z: math32.Min(a.Z, b.Z)}
}

// MaxElem return a vector with the maximum components of two vectors.
func MaxElem(a, b ms3.Vec) ms3.Vec {
	return ms3.Vec{X: math32.Max(a.X, b.X), Y: math32.Max(a.Y, b.Y), Z: math32.Max(a.Z, b.Z)}
}

// Max returns the largest component of a.
func Max(a ms3.Vec) float32 {
	return math32.Max(a.Z, math32.Max(a.X, a.Y))
}

func EqualWithin(a, b ms3.Vec, tol float32) bool {
	return math32.Abs(a.X-b.X) <= tol &&
		math32.Abs(a.Y-b.Y) <= tol &&
		math32.Abs(a.Z-b.Z) <= tol
}

// IsFinite reports whether all components of a are neither NaN nor infinite.
func IsFinite(a ms3.Vec) bool {
	return !(math32.IsNaN(a.X) || math32.IsNaN(a.Y) || math32.IsNaN(a.Z) ||
		math32.IsInf(a.X, 0) || math32.IsInf(a.Y, 0) || math32.IsInf(a.Z, 0))
}
