package scene

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/termsdf"
	"github.com/soypat/termsdf/eval"
	"github.com/soypat/termsdf/internal/d3"
)

// EmptyDist is the distance reported for a scene with no objects.
const EmptyDist = termsdf.Huge

// PrimitiveDist returns the distance from p to object i alone.
func (f *Flat) PrimitiveDist(i int, p ms3.Vec) float32 {
	p0, p1, p2, p3 := f.param(i)
	q := d3.Sub(p, f.Position(i))
	switch f.Kinds[i] {
	case Sphere:
		return termsdf.SphereDist(q, p0)
	case Box:
		return termsdf.BoxDist(q, ms3.Vec{X: p0, Y: p1, Z: p2})
	case Torus:
		return termsdf.TorusDist(q, p0, p1)
	case Plane:
		return termsdf.PlaneDist(q, d3.Unit(ms3.Vec{X: p0, Y: p1, Z: p2}), p3)
	case Cylinder:
		return termsdf.CylinderDist(q, p0, p1)
	case CylinderX:
		return termsdf.CylinderXDist(q, p0, p1)
	case Cone:
		return termsdf.ConeDist(q, p0, p1)
	}
	return EmptyDist
}

// EvaluatePoint returns the scene distance at p. Objects of a hard group are
// joined with min, objects of a smooth group with the smooth minimum. Smooth
// groups are then smooth-joined with each other and hard groups are joined to
// the result with min.
func (f *Flat) EvaluatePoint(p ms3.Vec) float32 {
	smooth, hard := float32(EmptyDist), float32(EmptyDist)
	hasSmooth := false
	k := f.SmoothK
	for g := 0; g < f.GroupCount; g++ {
		members := f.groupMembers(g)
		if len(members) == 0 {
			continue
		}
		isSmooth := f.Blend[g] == Smooth
		gd := f.PrimitiveDist(int(members[0]), p)
		for _, i := range members[1:] {
			d := f.PrimitiveDist(int(i), p)
			if isSmooth {
				gd = termsdf.SmoothMin(gd, d, k)
			} else {
				gd = math32.Min(gd, d)
			}
		}
		switch {
		case !isSmooth:
			hard = math32.Min(hard, gd)
		case hasSmooth:
			smooth = termsdf.SmoothMin(smooth, gd, k)
		default:
			smooth = gd
			hasSmooth = true
		}
	}
	return math32.Min(smooth, hard)
}

var _ eval.SDF3 = (*Flat)(nil)

// Evaluate is the batched form of [Flat.EvaluatePoint]. The outer loop runs
// over objects and the inner loop over positions. userData must provide an
// [eval.VecPool].
func (f *Flat) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	if len(pos) != len(dist) {
		return eval.ErrLengthMismatch
	}
	vp, err := eval.GetVecPool(userData)
	if err != nil {
		return err
	}
	n := len(pos)
	smooth := vp.Float.Acquire(n)
	defer vp.Float.Release(smooth)
	group := vp.Float.Acquire(n)
	defer vp.Float.Release(group)
	prim := vp.Float.Acquire(n)
	defer vp.Float.Release(prim)

	for j := range dist {
		dist[j] = EmptyDist // Hard accumulator.
	}
	hasSmooth := false
	k := f.SmoothK
	for g := 0; g < f.GroupCount; g++ {
		members := f.groupMembers(g)
		if len(members) == 0 {
			continue
		}
		isSmooth := f.Blend[g] == Smooth
		f.evaluatePrimitive(int(members[0]), pos, group)
		for _, i := range members[1:] {
			f.evaluatePrimitive(int(i), pos, prim)
			if isSmooth {
				smoothMinInto(group, prim, k)
			} else {
				minInto(group, prim)
			}
		}
		switch {
		case !isSmooth:
			minInto(dist, group)
		case hasSmooth:
			smoothMinInto(smooth, group, k)
		default:
			copy(smooth, group)
			hasSmooth = true
		}
	}
	if hasSmooth {
		minInto(dist, smooth)
	}
	return nil
}

func minInto(dst, src []float32) {
	for j := range dst {
		dst[j] = math32.Min(dst[j], src[j])
	}
}

func smoothMinInto(dst, src []float32, k float32) {
	if k <= 0 {
		minInto(dst, src)
		return
	}
	for j := range dst {
		dst[j] = termsdf.SmoothMin(dst[j], src[j], k)
	}
}

// evaluatePrimitive writes the distance of object i at every position into dst.
func (f *Flat) evaluatePrimitive(i int, pos []ms3.Vec, dst []float32) {
	p0, p1, p2, p3 := f.param(i)
	c := f.Position(i)
	switch f.Kinds[i] {
	case Sphere:
		for j, p := range pos {
			dst[j] = termsdf.SphereDist(d3.Sub(p, c), p0)
		}
	case Box:
		half := ms3.Vec{X: p0, Y: p1, Z: p2}
		for j, p := range pos {
			dst[j] = termsdf.BoxDist(d3.Sub(p, c), half)
		}
	case Torus:
		for j, p := range pos {
			dst[j] = termsdf.TorusDist(d3.Sub(p, c), p0, p1)
		}
	case Plane:
		n := d3.Unit(ms3.Vec{X: p0, Y: p1, Z: p2})
		for j, p := range pos {
			dst[j] = termsdf.PlaneDist(d3.Sub(p, c), n, p3)
		}
	case Cylinder:
		for j, p := range pos {
			dst[j] = termsdf.CylinderDist(d3.Sub(p, c), p0, p1)
		}
	case CylinderX:
		for j, p := range pos {
			dst[j] = termsdf.CylinderXDist(d3.Sub(p, c), p0, p1)
		}
	case Cone:
		for j, p := range pos {
			dst[j] = termsdf.ConeDist(d3.Sub(p, c), p0, p1)
		}
	default:
		for j := range dst {
			dst[j] = EmptyDist
		}
	}
}

// Nearest returns the index of the object closest to p by its individual
// distance and that distance. It returns -1 for an empty scene.
func (f *Flat) Nearest(p ms3.Vec) (idx int, dist float32) {
	idx, dist = -1, EmptyDist
	for i := 0; i < f.Count; i++ {
		d := f.PrimitiveDist(i, p)
		if d < dist {
			idx, dist = i, d
		}
	}
	return idx, dist
}

// ColorAt returns the albedo at p. It is the color of the nearest object
// unless that object is in a smooth group, in which case colors of smooth
// objects within the blend radius of the nearest distance are mixed with
// weights falling quadratically to zero at the blend radius.
func (f *Flat) ColorAt(p ms3.Vec) termsdf.Color {
	nearest, dmin := f.Nearest(p)
	if nearest < 0 {
		return termsdf.Color{}
	}
	k := f.SmoothK
	if k <= 0 || f.Blend[f.Groups[nearest]] != Smooth {
		return f.Color(nearest)
	}
	var sum termsdf.Color
	var wsum float32
	for i := 0; i < f.Count; i++ {
		if f.Blend[f.Groups[i]] != Smooth {
			continue
		}
		w := 1 - (f.PrimitiveDist(i, p)-dmin)/k
		if w <= 0 {
			continue
		}
		w *= w
		sum = sum.Add(f.Color(i).Scale(w))
		wsum += w
	}
	// wsum >= 1 since the nearest object has weight 1.
	return sum.Scale(1 / wsum)
}
