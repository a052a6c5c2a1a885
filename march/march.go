// Package march implements sphere tracing of ray batches against signed
// distance fields and normal estimation at the hit points.
package march

import (
	"errors"
	"fmt"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/termsdf/camera"
	"github.com/soypat/termsdf/eval"
	"github.com/soypat/termsdf/internal/d3"
)

// Config holds the marching limits.
type Config struct {
	// MaxSteps bounds the number of advances per ray.
	MaxSteps int
	// MaxDist is the distance past which a ray is considered to miss.
	MaxDist float32
	// HitThreshold is the surface distance under which a ray hits.
	HitThreshold float32
	// NormalEps is the central difference step used for normals.
	NormalEps float32
	// Cull marks rays whose segment misses the field's bounding box as missed
	// before marching, when the field provides one.
	Cull bool
}

// DefaultConfig returns the default marching configuration.
func DefaultConfig() Config {
	return Config{
		MaxSteps:     64,
		MaxDist:      100,
		HitThreshold: 0.001,
		NormalEps:    0.001,
		Cull:         true,
	}
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	switch {
	case c.MaxSteps <= 0:
		return fmt.Errorf("max steps must be positive, got %d", c.MaxSteps)
	case !(c.MaxDist > 0):
		return fmt.Errorf("max distance must be positive, got %v", c.MaxDist)
	case !(c.HitThreshold > 0):
		return fmt.Errorf("hit threshold must be positive, got %v", c.HitThreshold)
	case !(c.NormalEps > 0):
		return fmt.Errorf("normal epsilon must be positive, got %v", c.NormalEps)
	}
	return nil
}

// Status is the state of a ray.
type Status uint8

const (
	Active    Status = iota // still marching.
	Hit                     // surface distance fell under the hit threshold.
	Missed                  // next advance would pass the maximum distance.
	Exhausted               // maximum step count reached.
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Hit:
		return "hit"
	case Missed:
		return "missed"
	case Exhausted:
		return "exhausted"
	}
	return "Status(?)"
}

// Result holds per ray marching output as parallel arrays.
// Hit[i] is true exactly when Dist[i] < MaxDist. Rays that did not hit
// report Dist == MaxDist and Pos at their last position.
type Result struct {
	Hit    []bool
	Pos    []ms3.Vec
	Dist   []float32
	Steps  []uint32
	Status []Status
}

// Len returns the number of rays in the result.
func (r *Result) Len() int { return len(r.Hit) }

// Hits returns the number of rays that hit.
func (r *Result) Hits() (n int) {
	for _, h := range r.Hit {
		if h {
			n++
		}
	}
	return n
}

func (r *Result) resize(n int) {
	if cap(r.Hit) < n {
		r.Hit = make([]bool, n)
		r.Pos = make([]ms3.Vec, n)
		r.Dist = make([]float32, n)
		r.Steps = make([]uint32, n)
		r.Status = make([]Status, n)
	}
	r.Hit = r.Hit[:n]
	r.Pos = r.Pos[:n]
	r.Dist = r.Dist[:n]
	r.Steps = r.Steps[:n]
	r.Status = r.Status[:n]
}

// Stats counts work done by the last March and Normals calls.
type Stats struct {
	// SDFEvals is the number of point evaluations spent marching.
	SDFEvals int
	// NormalEvals is the number of point evaluations spent on normals.
	NormalEvals int
	// Culled is the number of rays discarded by the bounding box test.
	Culled int
}

// bounder is implemented by fields that know their bounding box.
type bounder interface {
	Bounds() d3.Box
}

// Marcher marches ray batches. It keeps scratch buffers between calls so
// steady state marching does not allocate. A Marcher is not safe for concurrent use.
type Marcher struct {
	cfg   Config
	vp    eval.VecPool
	dist  []float32
	stats Stats
}

// New returns a Marcher for the configuration.
func New(cfg Config) (*Marcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Marcher{cfg: cfg}, nil
}

// Config returns the marcher configuration.
func (m *Marcher) Config() Config { return m.cfg }

// Stats returns counters for the last calls.
func (m *Marcher) Stats() Stats { return m.stats }

// VecPool exposes the marcher's scratch pool to evaluators.
func (m *Marcher) VecPool() *eval.VecPool { return &m.vp }

var errRayLength = errors.New("ray batch origins and directions differ in length")

// start resets dst for rays and culls rays against sdf's bounds when enabled.
// It returns the number of active rays.
func (m *Marcher) start(sdf any, rays *camera.RayBatch, dst *Result) (int, error) {
	n := rays.Len()
	if len(rays.Origins) != n {
		return 0, errRayLength
	}
	dst.resize(n)
	copy(dst.Pos, rays.Origins)
	clear(dst.Hit)
	clear(dst.Dist)
	clear(dst.Steps)
	clear(dst.Status)
	m.stats = Stats{}
	active := n
	bb, ok := sdf.(bounder)
	if !m.cfg.Cull || !ok {
		return active, nil
	}
	box := bb.Bounds()
	empty := box.IsEmpty()
	for i := 0; i < n; i++ {
		if empty {
			m.miss(dst, i, Missed)
		} else if _, _, touch := box.IntersectRay(rays.Origins[i], rays.Dirs[i], m.cfg.MaxDist); !touch {
			m.miss(dst, i, Missed)
		}
	}
	m.stats.Culled = n - countActive(dst)
	return n - m.stats.Culled, nil
}

func (m *Marcher) miss(r *Result, i int, s Status) {
	r.Status[i] = s
	r.Hit[i] = false
	r.Dist[i] = m.cfg.MaxDist
}

// advance applies one step of the ray state machine to ray i given the field
// distance d at its current position. It reports whether the ray stopped.
func (m *Marcher) advance(r *Result, i int, d float32, origin, dir ms3.Vec) (stopped bool) {
	cfg := &m.cfg
	switch {
	case d < cfg.HitThreshold:
		if r.Dist[i] < cfg.MaxDist {
			r.Status[i] = Hit
			r.Hit[i] = true
		} else {
			m.miss(r, i, Missed)
		}
		return true
	case r.Dist[i]+d > cfg.MaxDist:
		m.miss(r, i, Missed)
		return true
	}
	r.Dist[i] += d
	r.Pos[i] = d3.AddScaled(origin, r.Dist[i], dir)
	r.Steps[i]++
	if int(r.Steps[i]) >= cfg.MaxSteps {
		m.miss(r, i, Exhausted)
		return true
	}
	return false
}

// March sphere traces all rays in lockstep: every step evaluates sdf once for
// the whole batch, including lanes of rays that already stopped, and stops
// early once no ray is active.
func (m *Marcher) March(sdf eval.SDF3, rays *camera.RayBatch, dst *Result) error {
	active, err := m.start(sdf, rays, dst)
	if err != nil {
		return err
	}
	n := rays.Len()
	if cap(m.dist) < n {
		m.dist = make([]float32, n)
	}
	dist := m.dist[:n]
	for step := 0; step < m.cfg.MaxSteps && active > 0; step++ {
		err = sdf.Evaluate(dst.Pos, dist, &m.vp)
		if err != nil {
			return fmt.Errorf("march step %d: %w", step, err)
		}
		m.stats.SDFEvals += n
		for i, d := range dist {
			if dst.Status[i] != Active {
				continue
			}
			if m.advance(dst, i, d, rays.Origins[i], rays.Dirs[i]) {
				active--
			}
		}
	}
	return m.vp.AssertAllReleased()
}

// MarchScalar marches each ray independently to completion evaluating one
// point at a time. Results are identical to [Marcher.March].
func (m *Marcher) MarchScalar(sdf eval.Scalar, rays *camera.RayBatch, dst *Result) error {
	_, err := m.start(sdf, rays, dst)
	if err != nil {
		return err
	}
	for i := range dst.Status {
		o, dir := rays.Origins[i], rays.Dirs[i]
		for dst.Status[i] == Active {
			d := sdf.EvaluatePoint(dst.Pos[i])
			m.stats.SDFEvals++
			m.advance(dst, i, d, o, dir)
		}
	}
	return nil
}

func countActive(r *Result) (n int) {
	for _, s := range r.Status {
		if s == Active {
			n++
		}
	}
	return n
}
