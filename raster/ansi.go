package raster

import (
	"strconv"
	"unicode/utf8"

	"github.com/muesli/termenv"
	"github.com/soypat/termsdf"
)

// Encoder writes frames as ANSI text for a terminal color profile.
// The zero value encodes with the [termenv.TrueColor] profile.
type Encoder struct {
	Profile termenv.Profile
	// NoReset omits the SGR reset at the end of each line.
	NoReset bool
}

// AppendFrame appends f to dst as lines of text separated by "\r\n" and
// returns the extended buffer. Color escapes are emitted only when the color
// changes within a line so output size stays proportional to detail.
func (e *Encoder) AppendFrame(dst []byte, f *Frame) []byte {
	p := e.Profile
	for row := 0; row < f.Height; row++ {
		if row > 0 {
			dst = append(dst, '\r', '\n')
		}
		var lastFG, lastBG string
		for col := 0; col < f.Width; col++ {
			c := f.At(row, col)
			if p != termenv.Ascii {
				fg := sequence(p, c.FG, false)
				bg := ""
				if c.HasBG {
					bg = sequence(p, c.BG, true)
				}
				if fg != lastFG || bg != lastBG {
					if lastBG != "" && bg == "" {
						dst = appendSGR(dst, termenv.ResetSeq)
						lastFG = ""
					}
					if fg != lastFG && fg != "" {
						dst = appendSGR(dst, fg)
					}
					if bg != lastBG && bg != "" {
						dst = appendSGR(dst, bg)
					}
					lastFG, lastBG = fg, bg
				}
			}
			dst = utf8.AppendRune(dst, c.Rune)
		}
		if p != termenv.Ascii && !e.NoReset {
			dst = appendSGR(dst, termenv.ResetSeq)
		}
	}
	return dst
}

// String returns f encoded as ANSI text.
func (e *Encoder) String(f *Frame) string {
	return string(e.AppendFrame(nil, f))
}

func appendSGR(dst []byte, seq string) []byte {
	dst = append(dst, termenv.CSI...)
	dst = append(dst, seq...)
	return append(dst, 'm')
}

// sequence returns the SGR parameters of c in profile p.
func sequence(p termenv.Profile, c termsdf.Color, bg bool) string {
	if p == termenv.TrueColor {
		// Fast path avoiding the hex round trip through termenv.
		r, g, b := c.RGB255()
		var buf [20]byte
		s := buf[:0]
		if bg {
			s = append(s, termenv.Background...)
		} else {
			s = append(s, termenv.Foreground...)
		}
		s = append(s, ";2;"...)
		s = strconv.AppendUint(s, uint64(r), 10)
		s = append(s, ';')
		s = strconv.AppendUint(s, uint64(g), 10)
		s = append(s, ';')
		s = strconv.AppendUint(s, uint64(b), 10)
		return string(s)
	}
	tc := p.Color(c.Hex())
	if tc == nil {
		return ""
	}
	return tc.Sequence(bg)
}
