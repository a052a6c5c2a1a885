package scene

import (
	"fmt"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/termsdf"
)

// Tree builds the equivalent [termsdf.Node] tree of the flat scene. Shapes
// with parameters a node constructor rejects, such as zero radii, return an error.
func (f *Flat) Tree() (termsdf.Node, error) {
	if f.Count == 0 {
		return termsdf.Node{}, fmt.Errorf("%w: no objects", ErrMalformed)
	}
	var smooth, hard termsdf.Node
	for g := 0; g < f.GroupCount; g++ {
		members := f.groupMembers(g)
		if len(members) == 0 {
			continue
		}
		k := float32(0)
		if f.Blend[g] == Smooth {
			k = f.SmoothK
		}
		leaves := make([]termsdf.Node, len(members))
		for j, i := range members {
			leaf, err := f.node(int(i))
			if err != nil {
				return termsdf.Node{}, err
			}
			leaves[j] = leaf
		}
		group := termsdf.UnionAll(k, leaves...)
		switch {
		case f.Blend[g] != Smooth:
			hard = join(hard, group, 0)
		default:
			smooth = join(smooth, group, f.SmoothK)
		}
	}
	return join(smooth, hard, 0), nil
}

func join(acc, n termsdf.Node, k float32) termsdf.Node {
	if !acc.IsValid() {
		return n
	}
	if !n.IsValid() {
		return acc
	}
	return termsdf.Union(acc, n, k)
}

func (f *Flat) node(i int) (n termsdf.Node, err error) {
	p0, p1, p2, p3 := f.param(i)
	switch f.Kinds[i] {
	case Sphere:
		n, err = termsdf.NewSphere(p0, ms3.Vec{})
	case Box:
		n, err = termsdf.NewBox(ms3.Vec{X: p0, Y: p1, Z: p2}, ms3.Vec{})
	case Torus:
		n, err = termsdf.NewTorus(p0, p1)
	case Plane:
		n, err = termsdf.NewPlane(ms3.Vec{X: p0, Y: p1, Z: p2}, p3)
	case Cylinder:
		n, err = termsdf.NewCylinder(p0, p1)
	case CylinderX:
		n, err = termsdf.NewCylinderX(p0, p1)
	case Cone:
		n, err = termsdf.NewCone(p0, p1)
	default:
		err = fmt.Errorf("unknown shape kind %d", f.Kinds[i])
	}
	if err != nil {
		return termsdf.Node{}, fmt.Errorf("%w: object %d %s: %s", ErrMalformed, i, f.Kinds[i], err)
	}
	return termsdf.Translate(n, f.Position(i)), nil
}
