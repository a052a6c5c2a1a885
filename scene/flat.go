package scene

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/termsdf"
	"github.com/soypat/termsdf/internal/d3"
)

// Limits bounds the size of a compiled scene.
type Limits struct {
	MaxShapes int
	MaxGroups int
}

// DefaultLimits are the limits used by [Compile].
var DefaultLimits = Limits{MaxShapes: 64, MaxGroups: 8}

// MaxLimits are the largest limits a [Flat] can index: group ids are stored
// in a byte and object indices in 16 bits.
var MaxLimits = Limits{MaxShapes: 1 << 16, MaxGroups: 1 << 8}

// Validate returns an error wrapping [ErrCapacity] if l is not positive or exceeds [MaxLimits].
func (l Limits) Validate() error {
	if l.MaxShapes <= 0 || l.MaxGroups <= 0 || l.MaxShapes > MaxLimits.MaxShapes || l.MaxGroups > MaxLimits.MaxGroups {
		return fmt.Errorf("%w: limits of %d shapes and %d groups, must be within 1..%d and 1..%d",
			ErrCapacity, l.MaxShapes, l.MaxGroups, MaxLimits.MaxShapes, MaxLimits.MaxGroups)
	}
	return nil
}

// Flat is the struct-of-arrays form of a scene. For object i the parameters
// live at Params[i*ParamStride:], position and color at [i*3:] of their arrays.
// Every per-object array has logical length Count, Blend has length GroupCount.
type Flat struct {
	Kinds      []ShapeKind
	NumParams  []uint8
	Params     []float32
	Positions  []float32
	Colors     []float32
	Groups     []uint8
	Blend      []BlendMode
	Count      int
	GroupCount int
	SmoothK    float32

	// order lists object indices sorted by group, groupStart[g] is the
	// offset of group g's first member in order.
	order      []uint16
	groupStart []int
	bb         d3.Box
}

// Compile converts objects and groups into a new flat scene using [DefaultLimits].
// If groups is empty every object belongs to a single implicit smooth group 0.
func Compile(objects []ObjectDef, groups []GroupDef, smoothK float32) (*Flat, error) {
	var f Flat
	err := CompileInto(&f, DefaultLimits, objects, groups, smoothK)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// CompileInto compiles into dst reusing its buffers. On error dst is left empty.
func CompileInto(dst *Flat, lim Limits, objects []ObjectDef, groups []GroupDef, smoothK float32) error {
	dst.reset()
	if err := lim.Validate(); err != nil {
		return err
	}
	if len(objects) > lim.MaxShapes {
		return fmt.Errorf("%w: %d objects, maximum is %d", ErrCapacity, len(objects), lim.MaxShapes)
	}
	if len(groups) > lim.MaxGroups {
		return fmt.Errorf("%w: %d groups, maximum is %d", ErrCapacity, len(groups), lim.MaxGroups)
	}
	if math32.IsNaN(smoothK) || math32.IsInf(smoothK, 0) {
		return fmt.Errorf("%w: smooth radius %v", ErrMalformed, smoothK)
	}
	ngroups := len(groups)
	if ngroups == 0 {
		ngroups = 1
	}
	for i := range objects {
		obj := &objects[i]
		switch {
		case obj.Shape.Kind >= numKinds:
			return fmt.Errorf("%w: object %d has unknown shape kind %d", ErrMalformed, i, obj.Shape.Kind)
		case len(obj.Shape.Params) > ParamStride:
			return fmt.Errorf("%w: object %d %s has %d params, stride is %d", ErrMalformed, i, obj.Shape.Kind, len(obj.Shape.Params), ParamStride)
		case obj.Group < 0 || obj.Group >= ngroups:
			return fmt.Errorf("%w: object %d references group %d of %d", ErrMalformed, i, obj.Group, ngroups)
		case obj.Shape.Kind == Plane && zeroNormal(obj.Shape.Params):
			return fmt.Errorf("%w: object %d plane has a zero normal", ErrMalformed, i)
		}
	}

	n := len(objects)
	dst.Count = n
	dst.GroupCount = ngroups
	dst.SmoothK = max(smoothK, 0)
	dst.Kinds = grow(dst.Kinds, n)
	dst.NumParams = grow(dst.NumParams, n)
	dst.Params = grow(dst.Params, n*ParamStride)
	dst.Positions = grow(dst.Positions, n*3)
	dst.Colors = grow(dst.Colors, n*3)
	dst.Groups = grow(dst.Groups, n)
	dst.Blend = grow(dst.Blend, ngroups)
	if len(groups) == 0 {
		dst.Blend[0] = Smooth
	}
	for g := range groups {
		dst.Blend[g] = groups[g].Blend
	}
	for i := range objects {
		obj := &objects[i]
		dst.Kinds[i] = obj.Shape.Kind
		dst.NumParams[i] = uint8(len(obj.Shape.Params))
		params := dst.Params[i*ParamStride : (i+1)*ParamStride]
		copy(params, obj.Shape.Params)
		clear(params[len(obj.Shape.Params):])
		dst.Positions[i*3] = obj.Position.X
		dst.Positions[i*3+1] = obj.Position.Y
		dst.Positions[i*3+2] = obj.Position.Z
		c := obj.Shape.Color
		dst.Colors[i*3] = c.R
		dst.Colors[i*3+1] = c.G
		dst.Colors[i*3+2] = c.B
		dst.Groups[i] = uint8(obj.Group)
	}

	// Group members in input order, groups contiguous.
	dst.order = grow(dst.order, n)
	dst.groupStart = grow(dst.groupStart, ngroups+1)
	k := 0
	for g := 0; g < ngroups; g++ {
		dst.groupStart[g] = k
		for i := 0; i < n; i++ {
			if int(dst.Groups[i]) == g {
				dst.order[k] = uint16(i)
				k++
			}
		}
	}
	dst.groupStart[ngroups] = k
	dst.bb = dst.computeBounds()
	return nil
}

// zeroNormal reports whether the first three plane params, zero padded, are all zero.
func zeroNormal(params []float32) bool {
	for _, v := range params[:min(len(params), 3)] {
		if v != 0 {
			return false
		}
	}
	return true
}

func (f *Flat) reset() {
	f.Count = 0
	f.GroupCount = 0
	f.SmoothK = 0
	f.Kinds = f.Kinds[:0]
	f.NumParams = f.NumParams[:0]
	f.Params = f.Params[:0]
	f.Positions = f.Positions[:0]
	f.Colors = f.Colors[:0]
	f.Groups = f.Groups[:0]
	f.Blend = f.Blend[:0]
	f.order = f.order[:0]
	f.groupStart = f.groupStart[:0]
	f.bb = d3.Empty()
}

func grow[T any](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	return s[:n]
}

// Object reads back object i as it was given to the compiler.
func (f *Flat) Object(i int) ObjectDef {
	np := int(f.NumParams[i])
	params := make([]float32, np)
	copy(params, f.Params[i*ParamStride:])
	return ObjectDef{
		Shape: Shape{
			Kind:   f.Kinds[i],
			Params: params,
			Color:  f.Color(i),
		},
		Position: f.Position(i),
		Group:    int(f.Groups[i]),
	}
}

// Position returns the world position of object i.
func (f *Flat) Position(i int) ms3.Vec {
	return ms3.Vec{X: f.Positions[i*3], Y: f.Positions[i*3+1], Z: f.Positions[i*3+2]}
}

// Color returns the color of object i.
func (f *Flat) Color(i int) termsdf.Color {
	return termsdf.Color{R: f.Colors[i*3], G: f.Colors[i*3+1], B: f.Colors[i*3+2]}
}

func (f *Flat) param(i int) (p0, p1, p2, p3 float32) {
	p := f.Params[i*ParamStride : (i+1)*ParamStride]
	return p[0], p[1], p[2], p[3]
}

// groupMembers returns the indices of objects in group g.
func (f *Flat) groupMembers(g int) []uint16 {
	return f.order[f.groupStart[g]:f.groupStart[g+1]]
}

// Bounds returns the box enclosing every object padded by twice the blend
// radius. The box is empty for a scene with no objects and huge if the scene has a plane.
func (f *Flat) Bounds() d3.Box { return f.bb }

func (f *Flat) computeBounds() d3.Box {
	bb := d3.Empty()
	for i := 0; i < f.Count; i++ {
		p0, p1, p2, _ := f.param(i)
		var half ms3.Vec
		center := f.Position(i)
		switch f.Kinds[i] {
		case Sphere:
			half = d3.Elem(p0)
		case Box:
			half = ms3.Vec{X: p0, Y: p1, Z: p2}
		case Torus:
			half = ms3.Vec{X: p0 + p1, Y: p1, Z: p0 + p1}
		case Plane:
			half = d3.Elem(termsdf.Huge)
		case Cylinder:
			half = ms3.Vec{X: p0, Y: p1, Z: p0}
		case CylinderX:
			half = ms3.Vec{X: p1, Y: p0, Z: p0}
		case Cone:
			half = ms3.Vec{X: p0, Y: p1 / 2, Z: p0}
			center.Y += p1 / 2
		}
		bb = bb.Extend(d3.CenteredBox(center, d3.AbsElem(half)))
	}
	if bb.IsEmpty() {
		return bb
	}
	return bb.Enlarge(2 * f.SmoothK)
}
