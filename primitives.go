package termsdf

import (
	"errors"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/termsdf/internal/d3"
)

// Huge is used as the extent of unbounded shapes.
const Huge = 1e10

// NewSphere returns a sphere of radius r centered at center.
func NewSphere(r float32, center ms3.Vec) (Node, error) {
	if !(r > 0) {
		return Node{}, errors.New("zero or negative sphere radius")
	}
	return Node{kind: KindSphere, v: center, s0: r}, nil
}

// NewBox returns an axis aligned box with the given half extents centered at center.
func NewBox(half, center ms3.Vec) (Node, error) {
	if !(half.X > 0 && half.Y > 0 && half.Z > 0) {
		return Node{}, errors.New("zero or negative box dimension")
	}
	return Node{kind: KindBox, v: half, c: center}, nil
}

// NewTorus returns a torus centered at the origin lying on the XZ plane.
func NewTorus(major, minor float32) (Node, error) {
	if !(major > 0 && minor > 0) {
		return Node{}, errors.New("invalid torus parameter")
	} else if minor > major {
		return Node{}, errors.New("too large torus ring radius")
	}
	return Node{kind: KindTorus, s0: major, s1: minor}, nil
}

// NewPlane returns the half space dot(p, unit(normal)) + offset <= 0.
func NewPlane(normal ms3.Vec, offset float32) (Node, error) {
	n := d3.Unit(normal)
	if n == (ms3.Vec{}) {
		return Node{}, errors.New("zero length plane normal")
	}
	return Node{kind: KindPlane, v: n, s0: offset}, nil
}

// NewCylinder returns a capped cylinder along the Y axis centered at the origin.
func NewCylinder(r, halfHeight float32) (Node, error) {
	if !(r > 0 && halfHeight > 0) {
		return Node{}, errors.New("zero or negative cylinder dimension")
	}
	return Node{kind: KindCylinder, s0: r, s1: halfHeight}, nil
}

// NewCylinderX returns a capped cylinder along the X axis centered at the origin.
func NewCylinderX(r, halfHeight float32) (Node, error) {
	if !(r > 0 && halfHeight > 0) {
		return Node{}, errors.New("zero or negative cylinder dimension")
	}
	return Node{kind: KindCylinderX, s0: r, s1: halfHeight}, nil
}

// NewCone returns a cone with base radius r on the XZ plane and its tip at (0,h,0).
func NewCone(r, h float32) (Node, error) {
	if !(r > 0 && h > 0) {
		return Node{}, errors.New("zero or negative cone dimension")
	}
	return Node{kind: KindCone, s0: r, s1: h}, nil
}

// Distance functions below take the query point in the shape's local frame.

// SphereDist is the exact distance to a sphere of radius r at the origin.
func SphereDist(p ms3.Vec, r float32) float32 {
	return d3.Norm(p) - r
}

// BoxDist is the distance to a box with half extents half at the origin.
// Exact outside, a bound inside.
func BoxDist(p, half ms3.Vec) float32 {
	q := d3.Sub(d3.AbsElem(p), half)
	return d3.Norm(d3.MaxElem(q, ms3.Vec{})) + math32.Min(d3.Max(q), 0)
}

// TorusDist is the exact distance to a torus with ring radius major and
// tube radius minor lying on the XZ plane.
func TorusDist(p ms3.Vec, major, minor float32) float32 {
	qx := math32.Hypot(p.X, p.Z) - major
	return math32.Hypot(qx, p.Y) - minor
}

// PlaneDist is the signed distance to a plane with unit normal n.
func PlaneDist(p, n ms3.Vec, offset float32) float32 {
	return d3.Dot(p, n) + offset
}

// CylinderDist is the distance to a capped cylinder along Y.
func CylinderDist(p ms3.Vec, r, halfHeight float32) float32 {
	return capped(math32.Hypot(p.X, p.Z)-r, math32.Abs(p.Y)-halfHeight)
}

// CylinderXDist is the distance to a capped cylinder along X.
func CylinderXDist(p ms3.Vec, r, halfHeight float32) float32 {
	return capped(math32.Hypot(p.Y, p.Z)-r, math32.Abs(p.X)-halfHeight)
}

// capped combines a radial and axial distance into the distance of a capped solid.
func capped(radial, axial float32) float32 {
	outside := math32.Hypot(math32.Max(radial, 0), math32.Max(axial, 0))
	inside := math32.Min(math32.Max(radial, axial), 0)
	return outside + inside
}

// ConeDist is the exact distance to a Y-axis cone with base radius r at y=0 and tip at y=h.
// It works on the (radial, y) half plane where the cone is the triangle (0,0), (r,0), (0,h).
func ConeDist(p ms3.Vec, r, h float32) float32 {
	q := math32.Hypot(p.X, p.Z)
	// Base segment.
	bx := q - Clamp(q, 0, r)
	dBase := math32.Hypot(bx, p.Y)
	// Slant segment from (r,0) to (0,h).
	ex, ey := -r, h
	wx, wy := q-r, p.Y
	t := Clamp((wx*ex+wy*ey)/(ex*ex+ey*ey), 0, 1)
	dSlant := math32.Hypot(wx-ex*t, wy-ey*t)
	d := math32.Min(dBase, dSlant)
	if p.Y > 0 && p.Y < h && q < r*(1-p.Y/h) {
		return -d
	}
	return d
}
