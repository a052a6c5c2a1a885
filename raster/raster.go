// Package raster converts linear color buffers into terminal cells and ANSI text.
package raster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/soypat/termsdf"
)

// ErrBufferSize is returned when a color buffer does not match the image size.
var ErrBufferSize = errors.New("color buffer size does not match image")

// Mode selects how colors map to glyphs.
type Mode uint8

const (
	// ASCII maps dithered brightness onto a 10 glyph ramp colored by the pixel.
	ASCII Mode = iota
	// Blocks maps dithered brightness onto the Unicode shade ramp.
	Blocks
	// TrueColor paints every cell as a solid block with foreground and background set.
	TrueColor
	// HalfBlock packs two pixel rows into each cell using half block glyphs.
	HalfBlock
	numModes
)

var modeNames = [numModes]string{"ascii", "blocks", "truecolor", "halfblock"}

func (m Mode) String() string {
	if m < numModes {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseMode parses a mode name as returned by [Mode.String].
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range modeNames {
		if s == name {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown raster mode %q", s)
}

// Rows returns the number of terminal rows an image of the given pixel height occupies.
func (m Mode) Rows(height int) int {
	if m == HalfBlock {
		return (height + 1) / 2
	}
	return height
}

// PixelHeight returns the pixel height that fills rows terminal rows.
func (m Mode) PixelHeight(rows int) int {
	if m == HalfBlock {
		return 2 * rows
	}
	return rows
}

const (
	// bgThreshold is the channel value under which a sample is treated as background.
	bgThreshold = 0.04
	asciiRamp   = " .:-=+*#%@"
	blockRamp   = " ░▒▓█"

	fullBlock  = '█'
	upperBlock = '▀'
	lowerBlock = '▄'
)

// bayer2x2 is the ordered dither offset indexed by (row&1)*2 + col&1.
var bayer2x2 = [4]float32{-0.075, 0, 0.0375, -0.0375}

var (
	asciiGlyphs = []rune(asciiRamp)
	blockGlyphs = []rune(blockRamp)
)

// nearBlack is the fill of cells whose sample falls under bgThreshold in
// ASCII, Blocks and TrueColor modes.
var nearBlack = termsdf.Color{R: 0.03, G: 0.05, B: 0.04}

// Cell is one terminal character with its colors.
type Cell struct {
	Rune rune
	FG   termsdf.Color
	BG   termsdf.Color
	// HasBG is set when the cell paints its background.
	HasBG bool
}

// Frame is a grid of cells in row major order.
type Frame struct {
	Width, Height int
	Cells         []Cell
}

// At returns the cell at row, col.
func (f *Frame) At(row, col int) Cell { return f.Cells[row*f.Width+col] }

func (f *Frame) resize(w, h int) {
	n := w * h
	if cap(f.Cells) < n {
		f.Cells = make([]Cell, n)
	}
	f.Cells = f.Cells[:n]
	f.Width, f.Height = w, h
}

func dithered(c termsdf.Color, row, col int) float32 {
	b := c.Brightness() + bayer2x2[(row&1)*2+col&1]
	return termsdf.Clamp(b, 0, 1)
}

func isForeground(c termsdf.Color) bool {
	return c.MaxChannel() > bgThreshold
}

// Rasterize converts colors, a width*height row major buffer, into cells
// written to dst. The frame is reused between calls. Rasterize is deterministic.
func Rasterize(dst *Frame, colors []termsdf.Color, width, height int, mode Mode) error {
	if width <= 0 || height <= 0 || len(colors) != width*height {
		return fmt.Errorf("%w: %d colors for %dx%d", ErrBufferSize, len(colors), width, height)
	}
	if mode >= numModes {
		return fmt.Errorf("unknown raster mode %d", mode)
	}
	if mode == HalfBlock {
		halfBlocks(dst, colors, width, height)
		return nil
	}
	dst.resize(width, height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			i := row*width + col
			c := colors[i].Clamp()
			cell := &dst.Cells[i]
			switch mode {
			case TrueColor:
				if !isForeground(c) {
					c = nearBlack
				}
				*cell = Cell{Rune: fullBlock, FG: c, BG: c, HasBG: true}
			case ASCII:
				*cell = rampCell(asciiGlyphs, c, row, col)
			case Blocks:
				*cell = rampCell(blockGlyphs, c, row, col)
			}
		}
	}
	return nil
}

func rampCell(glyphs []rune, c termsdf.Color, row, col int) Cell {
	if !isForeground(c) {
		return Cell{Rune: '@', FG: nearBlack}
	}
	idx := int(dithered(c, row, col) * float32(len(glyphs)-1))
	idx = min(max(idx, 0), len(glyphs)-1)
	return Cell{Rune: glyphs[idx], FG: c}
}

func halfBlocks(dst *Frame, colors []termsdf.Color, width, height int) {
	rows := HalfBlock.Rows(height)
	dst.resize(width, rows)
	for r := 0; r < rows; r++ {
		top := 2 * r
		bot := min(top+1, height-1)
		for col := 0; col < width; col++ {
			t := colors[top*width+col].Clamp()
			b := colors[bot*width+col].Clamp()
			tOn := t.Brightness() > bgThreshold
			bOn := b.Brightness() > bgThreshold
			var cell Cell
			switch {
			case tOn && bOn:
				avg := t.Add(b).Scale(0.5)
				cell = Cell{Rune: fullBlock, FG: avg, BG: avg}
			case tOn:
				cell = Cell{Rune: upperBlock, FG: t, BG: b}
			case bOn:
				cell = Cell{Rune: lowerBlock, FG: b, BG: t}
			default:
				cell = Cell{Rune: ' ', FG: t, BG: t}
			}
			cell.HasBG = true
			dst.Cells[r*width+col] = cell
		}
	}
}
