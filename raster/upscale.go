package raster

import (
	"fmt"
	"image"
	"image/color"

	"github.com/nfnt/resize"
	"github.com/soypat/termsdf"
)

// Upscale enlarges a width*height color buffer by an integer factor using
// nearest neighbour sampling. The result has (width*scale)*(height*scale)
// entries and is written into dst when it has capacity.
// Colors are clamped to [0,1] and carried with 16 bit precision.
func Upscale(dst, colors []termsdf.Color, width, height, scale int) ([]termsdf.Color, error) {
	if width <= 0 || height <= 0 || len(colors) != width*height {
		return dst, fmt.Errorf("%w: %d colors for %dx%d", ErrBufferSize, len(colors), width, height)
	} else if scale < 1 {
		return dst, fmt.Errorf("upscale factor must be at least 1, got %d", scale)
	}
	ow, oh := width*scale, height*scale
	if cap(dst) < ow*oh {
		dst = make([]termsdf.Color, ow*oh)
	}
	dst = dst[:ow*oh]
	if scale == 1 {
		copy(dst, colors)
		return dst, nil
	}
	src := image.NewRGBA64(image.Rect(0, 0, width, height))
	for i, c := range colors {
		src.SetRGBA64(i%width, i/width, toRGBA64(c))
	}
	img := resize.Resize(uint(ow), uint(oh), src, resize.NearestNeighbor)
	b := img.Bounds()
	for y := 0; y < oh; y++ {
		for x := 0; x < ow; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			dst[y*ow+x] = termsdf.Color{R: float32(r) / 0xffff, G: float32(g) / 0xffff, B: float32(bl) / 0xffff}
		}
	}
	return dst, nil
}

func toRGBA64(c termsdf.Color) color.RGBA64 {
	c = c.Clamp()
	return color.RGBA64{
		R: uint16(c.R*0xffff + 0.5),
		G: uint16(c.G*0xffff + 0.5),
		B: uint16(c.B*0xffff + 0.5),
		A: 0xffff,
	}
}
