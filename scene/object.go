// Package scene compiles per-frame object lists into a flat struct-of-arrays
// scene and evaluates its signed distance field, both per point and batched.
package scene

import (
	"strconv"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/termsdf"
)

// ShapeKind identifies a primitive shape in a flat scene.
type ShapeKind uint8

const (
	Sphere    ShapeKind = iota // radius
	Box                        // half extents x, y, z
	Torus                      // major radius, minor radius
	Plane                      // normal x, y, z, offset
	Cylinder                   // radius, half height. Y axis.
	CylinderX                  // radius, half height. X axis.
	Cone                       // base radius, height. Y axis, base at position.
	numKinds
)

var kindNames = [numKinds]string{"sphere", "box", "torus", "plane", "cylinder", "cylinderx", "cone"}

func (k ShapeKind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "ShapeKind(" + strconv.Itoa(int(k)) + ")"
}

// ParseShapeKind returns the kind named s as printed by String.
func ParseShapeKind(s string) (ShapeKind, bool) {
	for i, name := range kindNames {
		if name == s {
			return ShapeKind(i), true
		}
	}
	return 0, false
}

// NumParams returns how many parameters the kind reads.
func (k ShapeKind) NumParams() int {
	switch k {
	case Sphere:
		return 1
	case Box:
		return 3
	case Plane:
		return 4
	case Torus, Cylinder, CylinderX, Cone:
		return 2
	}
	return 0
}

// ParamStride is the fixed number of parameter slots per object.
const ParamStride = 4

// Shape is a primitive with its parameters and color.
type Shape struct {
	Kind   ShapeKind
	Params []float32
	Color  termsdf.Color
}

// ObjectDef is one primitive instance placed in the world.
type ObjectDef struct {
	Shape    Shape
	Position ms3.Vec
	Group    int
}

// BlendMode selects how objects of a group combine.
type BlendMode uint8

const (
	Hard   BlendMode = iota // strict minimum, crisp seams.
	Smooth                  // smooth minimum with the scene's blend radius.
)

func (b BlendMode) String() string {
	switch b {
	case Hard:
		return "hard"
	case Smooth:
		return "smooth"
	}
	return "BlendMode(" + strconv.Itoa(int(b)) + ")"
}

// GroupDef declares the blending of one group.
type GroupDef struct {
	Blend BlendMode
}
