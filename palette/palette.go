// Package palette holds the qualitative colour lists used to tell groups apart.
package palette

import (
	"fmt"
	"image/color"
)

// Palette is an ordered colour list indexed cyclically.
type Palette []color.RGBA

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 255} }

// Set2 is the ColorBrewer Set2 list, used for regular points.
var Set2 = Palette{
	rgb(102, 194, 165),
	rgb(252, 141, 98),
	rgb(141, 160, 203),
	rgb(231, 138, 195),
	rgb(166, 216, 84),
	rgb(255, 217, 47),
	rgb(229, 196, 148),
	rgb(179, 179, 179),
}

// Dark2 is the ColorBrewer Dark2 list, used for outlier points.
var Dark2 = Palette{
	rgb(27, 158, 119),
	rgb(217, 95, 2),
	rgb(117, 112, 179),
	rgb(231, 41, 138),
	rgb(102, 166, 30),
	rgb(230, 171, 2),
	rgb(166, 118, 29),
	rgb(102, 102, 102),
}

// Tab10 is the ten-colour category list used for histogram overlays.
var Tab10 = Palette{
	rgb(31, 119, 180),
	rgb(255, 127, 14),
	rgb(44, 160, 44),
	rgb(214, 39, 40),
	rgb(148, 103, 189),
	rgb(140, 86, 75),
	rgb(227, 119, 194),
	rgb(127, 127, 127),
	rgb(188, 189, 34),
	rgb(23, 190, 207),
}

// Index returns i mod len(p), or -1 for an empty palette.
func (p Palette) Index(i int) int {
	if len(p) == 0 {
		return -1
	}
	i %= len(p)
	if i < 0 {
		i += len(p)
	}
	return i
}

// At returns the colour for ordinal i. An empty palette yields black.
func (p Palette) At(i int) color.RGBA {
	ix := p.Index(i)
	if ix < 0 {
		return rgb(0, 0, 0)
	}
	return p[ix]
}

// CSS returns the colour for ordinal i as an "rgb(r,g,b)" string.
func (p Palette) CSS(i int) string {
	return CSS(p.At(i))
}

// CSS formats c the way plotly colour strings are written.
func CSS(c color.RGBA) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// WithAlpha returns c with alpha a, as a non-premultiplied colour.
func WithAlpha(c color.RGBA, a uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// Pair is the colours given to one group value.
type Pair struct {
	Normal  color.RGBA
	Outlier color.RGBA
}

// Assign gives each value its colour pair by ordinal position. The two
// palettes are indexed independently, so once len(values) passes the shorter
// palette the normal and outlier colours wrap at different points.
func Assign(values []string, normal, outlier Palette) map[string]Pair {
	m := make(map[string]Pair, len(values))
	for i, v := range values {
		m[v] = Pair{Normal: normal.At(i), Outlier: outlier.At(i)}
	}
	return m
}
