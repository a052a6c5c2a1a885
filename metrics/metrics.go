// Package metrics summarizes the work done rendering a frame.
package metrics

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/soypat/termsdf/march"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	_ "gonum.org/v1/plot/vg/vgimg" // PNG canvas format.
)

// FrameStats are per frame marching counters and step statistics.
type FrameStats struct {
	Rays      int
	Hits      int
	Misses    int
	Exhausted int
	Culled    int
	// TotalSteps is the sum of the step counts of every ray.
	TotalSteps int
	// SDFEvals and NormalEvals count scene point evaluations.
	SDFEvals    int
	NormalEvals int
	// ColorLookups counts primitive evaluations spent on color attribution.
	ColorLookups int

	AvgSteps float64
	StdSteps float64
	P95Steps float64
	MaxSteps int
	// HitRate is the percentage of rays that hit.
	HitRate float64
}

// Collector computes [FrameStats] reusing its scratch memory between frames.
type Collector struct {
	steps []float64
}

// Compute summarizes a march result. shapes is the number of primitives in
// the scene, each hit looks up the color of every primitive once.
func (c *Collector) Compute(res *march.Result, st march.Stats, shapes int) FrameStats {
	n := res.Len()
	fs := FrameStats{
		Rays:        n,
		Culled:      st.Culled,
		SDFEvals:    st.SDFEvals,
		NormalEvals: st.NormalEvals,
	}
	if n == 0 {
		return fs
	}
	c.steps = slices.Grow(c.steps[:0], n)
	for i, s := range res.Status {
		steps := int(res.Steps[i])
		fs.TotalSteps += steps
		fs.MaxSteps = max(fs.MaxSteps, steps)
		c.steps = append(c.steps, float64(steps))
		switch s {
		case march.Hit:
			fs.Hits++
		case march.Exhausted:
			fs.Exhausted++
			fs.Misses++
		default:
			fs.Misses++
		}
	}
	fs.ColorLookups = fs.Hits * shapes
	fs.AvgSteps, fs.StdSteps = stat.MeanStdDev(c.steps, nil)
	if n == 1 {
		fs.StdSteps = 0
	}
	slices.Sort(c.steps)
	fs.P95Steps = stat.Quantile(0.95, stat.Empirical, c.steps, nil)
	fs.HitRate = 100 * float64(fs.Hits) / float64(n)
	return fs
}

// LogValue implements [slog.LogValuer].
func (fs FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("rays", fs.Rays),
		slog.Int("hits", fs.Hits),
		slog.Int("culled", fs.Culled),
		slog.Int("sdf", fs.SDFEvals),
		slog.Int("normal", fs.NormalEvals),
		slog.Float64("avgsteps", fs.AvgSteps),
		slog.Float64("hitrate", fs.HitRate),
	)
}

func (fs FrameStats) String() string {
	return fmt.Sprintf("rays=%d hits=%d (%.1f%%) steps avg=%.1f p95=%.0f max=%d sdf=%d normal=%d",
		fs.Rays, fs.Hits, fs.HitRate, fs.AvgSteps, fs.P95Steps, fs.MaxSteps, fs.SDFEvals, fs.NormalEvals)
}

// WriteStepHistogram plots the distribution of per ray step counts of res
// as a PNG image written to w.
func WriteStepHistogram(w io.Writer, res *march.Result, bins int) error {
	if res.Len() == 0 {
		return fmt.Errorf("no rays to plot")
	}
	if bins <= 0 {
		bins = 16
	}
	values := make(plotter.Values, res.Len())
	for i, s := range res.Steps {
		values[i] = float64(s)
	}
	p := plot.New()
	p.Title.Text = "March steps per ray"
	p.X.Label.Text = "steps"
	p.Y.Label.Text = "rays"
	h, err := plotter.NewHist(values, bins)
	if err != nil {
		return err
	}
	p.Add(h)
	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
