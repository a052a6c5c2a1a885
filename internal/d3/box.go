package d3

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// Box is an axis aligned bounding box.
type Box struct {
	Min, Max ms3.Vec
}

// CenteredBox creates a Box with a given center and half extents.
// Negative components of half will be interpreted as zero.
func CenteredBox(center, half ms3.Vec) Box {
	half = MaxElem(half, ms3.Vec{})
	return Box{Min: Sub(center, half), Max: Add(center, half)}
}

// Empty returns a box that contains nothing. Extending it with any
// other box results in that box.
func Empty() Box {
	const big = 1e10
	return Box{Min: Elem(big), Max: Elem(-big)}
}

// IsEmpty reports whether the box has a negative extent along any axis.
func (a Box) IsEmpty() bool {
	return a.Min.X > a.Max.X || a.Min.Y > a.Max.Y || a.Min.Z > a.Max.Z
}

// Extend returns a box enclosing two 3d boxes.
func (a Box) Extend(b Box) Box {
	return Box{
		Min: MinElem(a.Min, b.Min),
		Max: MaxElem(a.Max, b.Max),
	}
}

// Enlarge grows the box by pad on every side.
func (a Box) Enlarge(pad float32) Box {
	return Box{Min: Sub(a.Min, Elem(pad)), Max: Add(a.Max, Elem(pad))}
}

// Contains checks if the 3d box contains the given vector (considering bounds as inside).
func (a Box) Contains(v ms3.Vec) bool {
	return a.Min.X <= v.X && a.Min.Y <= v.Y && a.Min.Z <= v.Z &&
		v.X <= a.Max.X && v.Y <= a.Max.Y && v.Z <= a.Max.Z
}

// IntersectRay clips the ray segment origin + t*dir, t in [0, tmax] against
// the box using the slab method. ok is false when the segment does not touch the box.
func (a Box) IntersectRay(origin, dir ms3.Vec, tmax float32) (t0, t1 float32, ok bool) {
	t0, t1 = 0, tmax
	o := [3]float32{origin.X, origin.Y, origin.Z}
	d := [3]float32{dir.X, dir.Y, dir.Z}
	lo := [3]float32{a.Min.X, a.Min.Y, a.Min.Z}
	hi := [3]float32{a.Max.X, a.Max.Y, a.Max.Z}
	for i := 0; i < 3; i++ {
		if d[i] == 0 {
			if o[i] < lo[i] || o[i] > hi[i] {
				return 0, 0, false
			}
			continue
		}
		inv := 1 / d[i]
		tnear := (lo[i] - o[i]) * inv
		tfar := (hi[i] - o[i]) * inv
		if tnear > tfar {
			tnear, tfar = tfar, tnear
		}
		t0 = math32.Max(t0, tnear)
		t1 = math32.Min(t1, tfar)
		if t0 > t1 {
			return 0, 0, false
		}
	}
	return t0, t1, true
}
