package termsdf

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// Union joins a and b. k > 0 blends the seam with radius k, k <= 0 is a hard union.
func Union(a, b Node, k float32) Node {
	return binary(KindUnion, a, b, k)
}

// Intersection keeps the volume common to a and b.
func Intersection(a, b Node, k float32) Node {
	return binary(KindIntersection, a, b, k)
}

// Difference is the SDF difference of a-b.
func Difference(a, b Node, k float32) Node {
	return binary(KindDifference, a, b, k)
}

func binary(kind Kind, a, b Node, k float32) Node {
	if !a.IsValid() || !b.IsValid() {
		panic("invalid argument to " + kind.String())
	}
	if k < 0 || math32.IsNaN(k) {
		k = 0
	}
	return Node{kind: kind, s0: k, children: []Node{a, b}}
}

// UnionAll joins all nodes left to right with blend radius k. It panics if nodes is empty.
func UnionAll(k float32, nodes ...Node) Node {
	if len(nodes) == 0 {
		panic("UnionAll of no nodes")
	}
	u := nodes[0]
	for _, n := range nodes[1:] {
		u = Union(u, n, k)
	}
	return u
}

// Translate moves s by offset.
func Translate(s Node, offset ms3.Vec) Node {
	if !s.IsValid() {
		panic("invalid argument to Translate")
	}
	return Node{kind: KindTranslate, v: offset, children: []Node{s}}
}

// RotateY rotates s by angle radians about the Y axis (right handed).
func RotateY(s Node, angle float32) Node {
	if !s.IsValid() {
		panic("invalid argument to RotateY")
	}
	sin, cos := math32.Sincos(angle)
	return Node{kind: KindRotateY, v: ms3.Vec{X: cos, Y: sin, Z: angle}, children: []Node{s}}
}

// Scale uniformly scales s by factor, which must be positive.
func Scale(s Node, factor float32) Node {
	if !s.IsValid() {
		panic("invalid argument to Scale")
	}
	if !(factor > 0) {
		panic("zero or negative scale factor")
	}
	return Node{kind: KindScale, s0: factor, children: []Node{s}}
}
