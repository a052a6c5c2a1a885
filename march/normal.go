package march

import (
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/termsdf/eval"
	"github.com/soypat/termsdf/internal/d3"
)

// fallbackNormal is returned where the gradient vanishes.
var fallbackNormal = ms3.Vec{Y: 1}

// Normal returns the normal of sdf at p (doesn't need to be on the surface).
// Computed by sampling it several times inside a box of side 2*eps centered on p.
func Normal(sdf eval.Scalar, p ms3.Vec, eps float32) ms3.Vec {
	return unitOrFallback(ms3.Vec{
		X: sdf.EvaluatePoint(d3.Add(p, ms3.Vec{X: eps})) - sdf.EvaluatePoint(d3.Sub(p, ms3.Vec{X: eps})),
		Y: sdf.EvaluatePoint(d3.Add(p, ms3.Vec{Y: eps})) - sdf.EvaluatePoint(d3.Sub(p, ms3.Vec{Y: eps})),
		Z: sdf.EvaluatePoint(d3.Add(p, ms3.Vec{Z: eps})) - sdf.EvaluatePoint(d3.Sub(p, ms3.Vec{Z: eps})),
	})
}

func unitOrFallback(g ms3.Vec) ms3.Vec {
	n := d3.Unit(g)
	if n == (ms3.Vec{}) {
		return fallbackNormal
	}
	return n
}

// EstimateNormals is the batched form of [Normal]. The six samples of every
// position are evaluated with a single call to sdf. userData must provide an [eval.VecPool].
func EstimateNormals(sdf eval.SDF3, pos []ms3.Vec, eps float32, dst []ms3.Vec, userData any) error {
	if len(pos) != len(dst) {
		return eval.ErrLengthMismatch
	}
	vp, err := eval.GetVecPool(userData)
	if err != nil {
		return err
	}
	n := len(pos)
	samples := vp.V3.Acquire(6 * n)
	defer vp.V3.Release(samples)
	dist := vp.Float.Acquire(6 * n)
	defer vp.Float.Release(dist)
	ex, ey, ez := ms3.Vec{X: eps}, ms3.Vec{Y: eps}, ms3.Vec{Z: eps}
	for i, p := range pos {
		s := samples[6*i : 6*i+6]
		s[0], s[1] = d3.Add(p, ex), d3.Sub(p, ex)
		s[2], s[3] = d3.Add(p, ey), d3.Sub(p, ey)
		s[4], s[5] = d3.Add(p, ez), d3.Sub(p, ez)
	}
	err = sdf.Evaluate(samples, dist, userData)
	if err != nil {
		return err
	}
	for i := range dst {
		d := dist[6*i : 6*i+6]
		dst[i] = unitOrFallback(ms3.Vec{X: d[0] - d[1], Y: d[2] - d[3], Z: d[4] - d[5]})
	}
	return nil
}

// Normals estimates normals at the hit positions of res. Entries of rays
// that did not hit are set to the zero vector.
func (m *Marcher) Normals(sdf eval.SDF3, res *Result, dst []ms3.Vec) error {
	if len(dst) != res.Len() {
		return eval.ErrLengthMismatch
	}
	hits := res.Hits()
	pos := m.vp.V3.Acquire(hits)
	defer m.vp.V3.Release(pos)
	nrm := m.vp.V3.Acquire(hits)
	defer m.vp.V3.Release(nrm)
	k := 0
	for i, hit := range res.Hit {
		if hit {
			pos[k] = res.Pos[i]
			k++
		}
	}
	err := EstimateNormals(sdf, pos, m.cfg.NormalEps, nrm, &m.vp)
	if err != nil {
		return err
	}
	m.stats.NormalEvals = 6 * hits
	k = 0
	for i, hit := range res.Hit {
		if hit {
			dst[i] = nrm[k]
			k++
		} else {
			dst[i] = ms3.Vec{}
		}
	}
	return nil
}
