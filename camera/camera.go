// Package camera maps terminal pixels to world space rays.
package camera

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/termsdf"
	"github.com/soypat/termsdf/internal/d3"
)

var (
	// ErrCapacity is returned when an image has more pixels than the ray buffer allows.
	ErrCapacity = errors.New("ray capacity exceeded")
	// ErrInvalid is returned for unusable image sizes or fields of view.
	ErrInvalid = errors.New("invalid camera parameters")
)

// Camera is a pinhole camera looking from Eye towards At.
type Camera struct {
	Eye, At, Up ms3.Vec
	// FOV is the vertical field of view in degrees, in (0, 180).
	FOV float32
	// CellAspect is the width over height of one pixel. Terminal cells are
	// about twice as tall as they are wide so 0.5 is typical for text modes.
	// Zero means square pixels.
	CellAspect float32
}

// Basis returns the camera's orthonormal frame. right is forward x Up and up
// is right x forward so up is perpendicular to forward even if Up is not.
// When Eye == At every vector is zero.
func (c Camera) Basis() (forward, right, up ms3.Vec) {
	forward = d3.Unit(d3.Sub(c.At, c.Eye))
	right = d3.Unit(d3.Cross(forward, c.Up))
	up = d3.Cross(right, forward)
	return forward, right, up
}

// RayBatch holds one ray per pixel in row-major order, top row first.
type RayBatch struct {
	Origins []ms3.Vec
	Dirs    []ms3.Vec
	Width   int
	Height  int
}

// Len returns the number of rays.
func (b *RayBatch) Len() int { return len(b.Dirs) }

// Ray returns the origin and direction of the ray for pixel (row, col).
func (b *RayBatch) Ray(row, col int) (origin, dir ms3.Vec) {
	i := row*b.Width + col
	return b.Origins[i], b.Dirs[i]
}

// GenerateRays returns a new batch of width*height rays.
func (c Camera) GenerateRays(width, height int) (RayBatch, error) {
	var b RayBatch
	err := c.GenerateRaysInto(&b, width, height, width*height)
	return b, err
}

// GenerateRaysInto fills dst reusing its buffers. maxRays bounds width*height.
// Pixel i of n maps to i/(n-1) across the image, so only odd sizes have a
// pixel looking exactly along At-Eye.
func (c Camera) GenerateRaysInto(dst *RayBatch, width, height, maxRays int) error {
	dst.Width, dst.Height = 0, 0
	dst.Origins, dst.Dirs = dst.Origins[:0], dst.Dirs[:0]
	switch {
	case width <= 0 || height <= 0:
		return fmt.Errorf("%w: image size %dx%d", ErrInvalid, width, height)
	case width*height > maxRays:
		return fmt.Errorf("%w: %dx%d image needs %d rays, maximum is %d", ErrCapacity, width, height, width*height, maxRays)
	case !(c.FOV > 0 && c.FOV < 180):
		return fmt.Errorf("%w: field of view %v degrees", ErrInvalid, c.FOV)
	}
	n := width * height
	if cap(dst.Dirs) < n {
		dst.Origins = make([]ms3.Vec, n)
		dst.Dirs = make([]ms3.Vec, n)
	}
	dst.Origins = dst.Origins[:n]
	dst.Dirs = dst.Dirs[:n]
	dst.Width, dst.Height = width, height

	forward, right, up := c.Basis()
	cellAspect := c.CellAspect
	if cellAspect <= 0 {
		cellAspect = 1
	}
	aspect := float32(width) / float32(height) * cellAspect
	halfH := math32.Tan(termsdf.DtoR(c.FOV) / 2)
	halfW := halfH * aspect
	for row := 0; row < height; row++ {
		v := 1 - 2*unitCoord(row, height)
		vUp := d3.Scale(v*halfH, up)
		for col := 0; col < width; col++ {
			u := 2*unitCoord(col, width) - 1
			dir := d3.Add(forward, d3.Add(d3.Scale(u*halfW, right), vUp))
			i := row*width + col
			dst.Origins[i] = c.Eye
			dst.Dirs[i] = d3.Unit(dir)
		}
	}
	return nil
}

// unitCoord maps index i of n to [0,1] with both ends inclusive. A single pixel sits at the center.
func unitCoord(i, n int) float32 {
	if n == 1 {
		return 0.5
	}
	return float32(i) / float32(n-1)
}
