package eval

import (
	"github.com/soypat/glgl/math/ms3"
)

// SDF3 is a signed distance field evaluated over many positions at once.
type SDF3 interface {
	// Evaluate evaluates the signed distance field over pos positions.
	// dist and pos must be of same length.  Resulting distances are stored
	// in dist.
	//
	// userData facilitates getting data to the evaluators for use in processing, such as [VecPool].
	Evaluate(pos []ms3.Vec, dist []float32, userData any) error
}

// Scalar is a signed distance field evaluated one point at a time.
type Scalar interface {
	EvaluatePoint(p ms3.Vec) float32
}

// Func adapts a scalar distance function to the [SDF3] and [Scalar] interfaces.
type Func func(p ms3.Vec) float32

func (f Func) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	if len(pos) != len(dist) {
		return ErrLengthMismatch
	}
	for i, p := range pos {
		dist[i] = f(p)
	}
	return nil
}

func (f Func) EvaluatePoint(p ms3.Vec) float32 { return f(p) }
