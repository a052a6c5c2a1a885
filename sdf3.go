package termsdf

import (
	"strconv"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/termsdf/internal/d3"
)

// 3D signed distance node tree.

// Kind enumerates the closed set of SDF node variants.
type Kind uint8

const (
	kindInvalid Kind = iota
	KindSphere
	KindBox
	KindTorus
	KindPlane
	KindCylinder
	KindCylinderX
	KindCone
	KindUnion
	KindIntersection
	KindDifference
	KindTranslate
	KindRotateY
	KindScale
)

var kindNames = [...]string{
	kindInvalid:      "invalid",
	KindSphere:       "sphere",
	KindBox:          "box",
	KindTorus:        "torus",
	KindPlane:        "plane",
	KindCylinder:     "cylinder",
	KindCylinderX:    "cylinderx",
	KindCone:         "cone",
	KindUnion:        "union",
	KindIntersection: "intersection",
	KindDifference:   "difference",
	KindTranslate:    "translate",
	KindRotateY:      "rotatey",
	KindScale:        "scale",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Node is one node of an immutable SDF tree. Leaves are primitives, inner nodes
// are boolean combinators or point transforms. Each node owns its children,
// trees are built fresh every frame and never share subtrees.
// The zero value is not a valid node.
type Node struct {
	kind Kind
	// v holds the primitive's center (sphere), half extents (box),
	// unit normal (plane) or translation offset. For RotateY v is (cos, sin, angle).
	v ms3.Vec
	// c is the box center.
	c ms3.Vec
	// s0 and s1 are scalar parameters: radii, heights, plane offset,
	// blend radius k or scale factor depending on kind.
	s0, s1   float32
	children []Node
}

// Kind returns the variant of the node.
func (n Node) Kind() Kind { return n.kind }

// IsValid reports whether n was built by one of the package constructors.
func (n Node) IsValid() bool { return n.kind != kindInvalid }

// Evaluate returns the signed distance from p to the surface represented
// by the tree. Negative values are inside.
func (n Node) Evaluate(p ms3.Vec) float32 {
	switch n.kind {
	case KindSphere:
		return SphereDist(d3.Sub(p, n.v), n.s0)
	case KindBox:
		return BoxDist(d3.Sub(p, n.c), n.v)
	case KindTorus:
		return TorusDist(p, n.s0, n.s1)
	case KindPlane:
		return PlaneDist(p, n.v, n.s0)
	case KindCylinder:
		return CylinderDist(p, n.s0, n.s1)
	case KindCylinderX:
		return CylinderXDist(p, n.s0, n.s1)
	case KindCone:
		return ConeDist(p, n.s0, n.s1)

	case KindUnion:
		a, b := n.children[0].Evaluate(p), n.children[1].Evaluate(p)
		return SmoothMin(a, b, n.s0)
	case KindIntersection:
		a, b := n.children[0].Evaluate(p), n.children[1].Evaluate(p)
		return SmoothMax(a, b, n.s0)
	case KindDifference:
		a, b := n.children[0].Evaluate(p), n.children[1].Evaluate(p)
		return SmoothMax(a, -b, n.s0)

	case KindTranslate:
		return n.children[0].Evaluate(d3.Sub(p, n.v))
	case KindRotateY:
		// Rotate query point by -angle into the child's frame.
		cos, sin := n.v.X, n.v.Y
		local := ms3.Vec{
			X: cos*p.X - sin*p.Z,
			Y: p.Y,
			Z: sin*p.X + cos*p.Z,
		}
		return n.children[0].Evaluate(local)
	case KindScale:
		return n.children[0].Evaluate(d3.Scale(1/n.s0, p)) * n.s0
	}
	panic("evaluate of invalid termsdf.Node")
}

// Bounds returns a box containing the whole surface. Planes are unbounded
// and return a box spanning [-Huge, Huge] on every axis.
func (n Node) Bounds() d3.Box {
	switch n.kind {
	case KindSphere:
		return d3.CenteredBox(n.v, d3.Elem(n.s0))
	case KindBox:
		return d3.CenteredBox(n.c, n.v)
	case KindTorus:
		R := n.s0 + n.s1
		return d3.CenteredBox(ms3.Vec{}, ms3.Vec{X: R, Y: n.s1, Z: R})
	case KindPlane:
		return d3.CenteredBox(ms3.Vec{}, d3.Elem(Huge))
	case KindCylinder:
		return d3.CenteredBox(ms3.Vec{}, ms3.Vec{X: n.s0, Y: n.s1, Z: n.s0})
	case KindCylinderX:
		return d3.CenteredBox(ms3.Vec{}, ms3.Vec{X: n.s1, Y: n.s0, Z: n.s0})
	case KindCone:
		return d3.Box{Min: ms3.Vec{X: -n.s0, Z: -n.s0}, Max: ms3.Vec{X: n.s0, Y: n.s1, Z: n.s0}}

	case KindUnion:
		return n.children[0].Bounds().Extend(n.children[1].Bounds()).Enlarge(n.s0)
	case KindIntersection:
		a, b := n.children[0].Bounds(), n.children[1].Bounds()
		return d3.Box{Min: d3.MaxElem(a.Min, b.Min), Max: d3.MinElem(a.Max, b.Max)}
	case KindDifference:
		return n.children[0].Bounds()

	case KindTranslate:
		bb := n.children[0].Bounds()
		return d3.Box{Min: d3.Add(bb.Min, n.v), Max: d3.Add(bb.Max, n.v)}
	case KindRotateY:
		// Conservative: the XZ footprint of any rotation fits in the circumscribed square.
		bb := n.children[0].Bounds()
		r := math32.Hypot(
			math32.Max(math32.Abs(bb.Min.X), math32.Abs(bb.Max.X)),
			math32.Max(math32.Abs(bb.Min.Z), math32.Abs(bb.Max.Z)),
		)
		return d3.Box{Min: ms3.Vec{X: -r, Y: bb.Min.Y, Z: -r}, Max: ms3.Vec{X: r, Y: bb.Max.Y, Z: r}}
	case KindScale:
		bb := n.children[0].Bounds()
		return d3.Box{Min: d3.Scale(n.s0, bb.Min), Max: d3.Scale(n.s0, bb.Max)}
	}
	panic("bounds of invalid termsdf.Node")
}
