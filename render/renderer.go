// Package render runs the full frame pipeline: scene compilation, ray
// generation, marching, normal estimation, shading and rasterization.
package render

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/termsdf"
	"github.com/soypat/termsdf/camera"
	"github.com/soypat/termsdf/march"
	"github.com/soypat/termsdf/metrics"
	"github.com/soypat/termsdf/raster"
	"github.com/soypat/termsdf/scene"
	"github.com/soypat/termsdf/shade"
)

// ErrCapacity is returned when a frame exceeds the renderer's fixed capacity.
// It wraps the scene and camera capacity errors.
var ErrCapacity = errors.New("render capacity exceeded")

// Options configures a [Renderer]. Capacities are fixed for the renderer's lifetime.
type Options struct {
	MaxRays        int
	Limits         scene.Limits
	MaxPointLights int
	March          march.Config
	Mode           raster.Mode
	// Scale renders at 1/Scale resolution and upscales. Values below 2 disable upscaling.
	Scale int
	// Logger receives a debug record per frame. May be nil.
	Logger *slog.Logger
}

// DefaultOptions returns the default capacities and marching configuration.
func DefaultOptions() Options {
	return Options{
		MaxRays:        16384,
		Limits:         scene.DefaultLimits,
		MaxPointLights: 8,
		March:          march.DefaultConfig(),
		Mode:           raster.ASCII,
		Scale:          1,
	}
}

// Input is everything that changes between frames.
type Input struct {
	Objects    []scene.ObjectDef
	Groups     []scene.GroupDef
	SmoothK    float32
	Camera     camera.Camera
	Lighting   shade.Lighting
	Background termsdf.Color
}

// Reset empties in keeping its buffers.
func (in *Input) Reset() {
	in.Objects = in.Objects[:0]
	in.Groups = in.Groups[:0]
	in.Lighting.Points = in.Lighting.Points[:0]
}

// Renderer owns the buffers of every pipeline stage and reuses them between
// frames. It is not safe for concurrent use.
type Renderer struct {
	opts    Options
	log     *slog.Logger
	flat    scene.Flat
	rays    camera.RayBatch
	marcher *march.Marcher
	res     march.Result
	normals []ms3.Vec
	native  []termsdf.Color
	scaled  []termsdf.Color
	colors  []termsdf.Color
	cells   raster.Frame
	enc     raster.Encoder
	col     metrics.Collector
	stats   metrics.FrameStats
	width   int
	height  int
}

// New returns a renderer with the given options.
func New(opts Options) (*Renderer, error) {
	switch {
	case opts.MaxRays <= 0:
		return nil, fmt.Errorf("max rays must be positive, got %d", opts.MaxRays)
	case opts.MaxPointLights < 0:
		return nil, fmt.Errorf("negative point light limit %d", opts.MaxPointLights)
	case opts.Mode > raster.HalfBlock:
		return nil, fmt.Errorf("invalid raster mode %s", opts.Mode)
	}
	if err := opts.Limits.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCapacity, err)
	}
	m, err := march.New(opts.March)
	if err != nil {
		return nil, err
	}
	if opts.Scale < 1 {
		opts.Scale = 1
	}
	r := &Renderer{opts: opts, marcher: m, log: opts.Logger}
	if r.log == nil {
		r.log = slog.New(slog.DiscardHandler)
	}
	return r, nil
}

// Options returns the renderer's options.
func (r *Renderer) Options() Options { return r.opts }

// SetMode changes the raster mode used by subsequent frames.
func (r *Renderer) SetMode(m raster.Mode) { r.opts.Mode = m }

// Encoder returns the ANSI encoder used by [Renderer.AppendANSI].
func (r *Renderer) Encoder() *raster.Encoder { return &r.enc }

// Render draws one frame of width*height pixels. Capacity, lighting, scene
// and camera are all checked before marching starts so a frame either renders
// completely or fails without partial output.
func (r *Renderer) Render(in *Input, width, height int) error {
	start := time.Now()
	scale := r.opts.Scale
	nw, nh := ceilDiv(width, scale), ceilDiv(height, scale)
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: image size %dx%d", camera.ErrInvalid, width, height)
	}
	if nw*nh > r.opts.MaxRays {
		return fmt.Errorf("%w: %dx%d frame needs %d rays, maximum is %d", ErrCapacity, nw, nh, nw*nh, r.opts.MaxRays)
	}
	if len(in.Lighting.Points) > r.opts.MaxPointLights {
		return fmt.Errorf("%w: %d point lights, maximum is %d", ErrCapacity, len(in.Lighting.Points), r.opts.MaxPointLights)
	}
	if err := in.Lighting.Validate(r.opts.MaxPointLights); err != nil {
		return err
	}
	if err := scene.CompileInto(&r.flat, r.opts.Limits, in.Objects, in.Groups, in.SmoothK); err != nil {
		return capacity(err, scene.ErrCapacity)
	}
	if err := in.Camera.GenerateRaysInto(&r.rays, nw, nh, r.opts.MaxRays); err != nil {
		return capacity(err, camera.ErrCapacity)
	}
	if err := r.marcher.March(&r.flat, &r.rays, &r.res); err != nil {
		return err
	}
	n := r.rays.Len()
	r.normals = resize(r.normals, n)
	if err := r.marcher.Normals(&r.flat, &r.res, r.normals); err != nil {
		return err
	}
	r.native = resize(r.native, n)
	if err := shade.Shade(&r.flat, &r.res, r.normals, in.Lighting, in.Background, r.native); err != nil {
		return err
	}
	r.colors = r.native
	if scale > 1 {
		var err error
		r.scaled, err = raster.Upscale(r.scaled, r.native, nw, nh, scale)
		if err != nil {
			return err
		}
		r.colors = crop(r.scaled, nw*scale, width, height)
	}
	if err := raster.Rasterize(&r.cells, r.colors, width, height, r.opts.Mode); err != nil {
		return err
	}
	r.width, r.height = width, height
	r.stats = r.col.Compute(&r.res, r.marcher.Stats(), r.flat.Count)
	r.log.Debug("frame", slog.Duration("elapsed", time.Since(start)), slog.Any("stats", r.stats))
	return nil
}

func capacity(err, sentinel error) error {
	if errors.Is(err, sentinel) {
		return fmt.Errorf("%w: %w", ErrCapacity, err)
	}
	return err
}

// crop keeps the top left width*height region of a row major buffer with
// stride columns. It works in place since rows only move backwards.
func crop(buf []termsdf.Color, stride, width, height int) []termsdf.Color {
	if stride == width {
		return buf[:width*height]
	}
	for row := 0; row < height; row++ {
		copy(buf[row*width:(row+1)*width], buf[row*stride:row*stride+width])
	}
	return buf[:width*height]
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

func resize[T any](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	return s[:n]
}

// Size returns the pixel size of the last rendered frame.
func (r *Renderer) Size() (width, height int) { return r.width, r.height }

// Colors returns the shaded pixel colors of the last frame in row major order.
func (r *Renderer) Colors() []termsdf.Color { return r.colors }

// Result returns the march result of the last frame at native resolution.
func (r *Renderer) Result() *march.Result { return &r.res }

// Normals returns the hit normals of the last frame at native resolution.
func (r *Renderer) Normals() []ms3.Vec { return r.normals }

// Scene returns the compiled scene of the last frame.
func (r *Renderer) Scene() *scene.Flat { return &r.flat }

// Cells returns the rasterized cells of the last frame.
func (r *Renderer) Cells() *raster.Frame { return &r.cells }

// Stats returns statistics of the last frame.
func (r *Renderer) Stats() metrics.FrameStats { return r.stats }

// AppendANSI appends the last frame as ANSI text to dst.
func (r *Renderer) AppendANSI(dst []byte) []byte {
	return r.enc.AppendFrame(dst, &r.cells)
}
