// Package histogram draws grids of per-feature histograms with a kernel
// density overlay.
package histogram

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-moremath/vec"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"featureplots/frame"
	"featureplots/palette"
)

// Options configures a histogram grid.
type Options struct {
	// Features to plot, in order. Nil means frame.FeatureColumns without
	// TypeColumn and OutlierColumn.
	Features []string
	// TypeColumn and OutlierColumn are left out of the default features.
	TypeColumn, OutlierColumn string
	// Rows and Cols of the grid, default 13x10. Features beyond
	// Rows*Cols are not drawn.
	Rows, Cols int
	// Bins per histogram, default 20.
	Bins int
	// Title is drawn above the grid when set.
	Title string
	// Width and Height of the saved image, default 20in x 15in.
	Width, Height vg.Length
	// KDEPoints is the number of points the density curve is sampled at.
	KDEPoints int
}

func (o Options) withDefaults(t frame.Table) Options {
	if o.Features == nil {
		o.Features = frame.FeatureColumns(t, o.TypeColumn, o.OutlierColumn)
	}
	if o.Rows <= 0 {
		o.Rows = 13
	}
	if o.Cols <= 0 {
		o.Cols = 10
	}
	if o.Bins <= 0 {
		o.Bins = 20
	}
	if o.Width <= 0 {
		o.Width = 20 * vg.Inch
	}
	if o.Height <= 0 {
		o.Height = 15 * vg.Inch
	}
	if o.KDEPoints <= 0 {
		o.KDEPoints = 100
	}
	return o
}

// Grid is a rows x cols arrangement of plots. Unused cells are nil.
type Grid struct {
	Title  string
	Cells  [][]*plot.Plot
	Legend *plot.Legend
	// Features names the feature drawn in each cell, in row-major order.
	Features []string
	// Width and Height of the saved image.
	Width, Height vg.Length
}

// Features draws one histogram with a KDE line per feature column.
func Features(t frame.Table, o Options) (*Grid, error) {
	o = o.withDefaults(t)
	g := newGrid(o)
	for i, name := range g.Features {
		v, err := values(t, name)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", name, err)
		}
		p := cell()
		if err := addHist(p, v, o, palette.Tab10.At(0), false); err != nil {
			return nil, fmt.Errorf("feature %q: %w", name, err)
		}
		g.Cells[i/o.Cols][i%o.Cols] = p
	}
	return g, nil
}

// Compare overlays the density-normalised histograms of two type values
// for every feature column.
func Compare(t frame.Table, typeCol, type1, type2 string, o Options) (*Grid, error) {
	if o.TypeColumn == "" {
		o.TypeColumn = typeCol
	}
	o = o.withDefaults(t)
	typ, err := t.Column(typeCol)
	if err != nil {
		return nil, err
	}
	var subsets [2]frame.Table
	for k, want := range []string{type1, type2} {
		want := want
		sub, err := t.Filter(func(r int) bool { return typ.String(r) == want })
		if err != nil {
			return nil, err
		}
		if sub.Nrow() == 0 {
			return nil, fmt.Errorf("no rows with %s = %q", typeCol, want)
		}
		subsets[k] = sub
	}

	g := newGrid(o)
	for i, name := range g.Features {
		p := cell()
		for k, sub := range subsets {
			v, err := values(sub, name)
			if err != nil {
				return nil, fmt.Errorf("feature %q, %s: %w", name, []string{type1, type2}[k], err)
			}
			if err := addHist(p, v, o, palette.Tab10.At(k), true); err != nil {
				return nil, fmt.Errorf("feature %q, %s: %w", name, []string{type1, type2}[k], err)
			}
		}
		g.Cells[i/o.Cols][i%o.Cols] = p
	}

	l := plot.NewLegend()
	l.Top = true
	for k, name := range []string{type1, type2} {
		l.Add(name, swatch{palette.Tab10.At(k)})
	}
	g.Legend = &l
	return g, nil
}

func newGrid(o Options) *Grid {
	g := &Grid{Title: o.Title, Cells: make([][]*plot.Plot, o.Rows), Width: o.Width, Height: o.Height}
	for j := range g.Cells {
		g.Cells[j] = make([]*plot.Plot, o.Cols)
	}
	g.Features = o.Features
	if n := o.Rows * o.Cols; len(g.Features) > n {
		g.Features = g.Features[:n]
	}
	return g
}

// cell returns a plot with no axis labels or tick marks.
func cell() *plot.Plot {
	p := plot.New()
	p.X.Tick.Marker = plot.ConstantTicks{}
	p.Y.Tick.Marker = plot.ConstantTicks{}
	p.X.Padding = 0
	p.Y.Padding = 0
	return p
}

// values takes a column of t and converts it to a plotter.Values slice,
// leaving out missing cells.
func values(t frame.Table, col string) (plotter.Values, error) {
	c, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	return frame.PresentFloats(c)
}

func addHist(p *plot.Plot, v plotter.Values, o Options, c color.RGBA, density bool) error {
	h, err := plotter.NewHist(v, o.Bins)
	if err != nil {
		return err
	}
	if density {
		h.Normalize(1)
		h.FillColor = palette.WithAlpha(c, 128)
	} else {
		h.FillColor = palette.WithAlpha(c, 160)
	}
	h.LineStyle.Width = vg.Points(0.5)
	h.LineStyle.Color = c
	p.Add(h)

	scale := 1.0
	if !density {
		scale = float64(len(v)) * h.Width
	}
	pts := kde(v, o.KDEPoints, scale)
	if len(pts) == 0 {
		return nil
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	l.LineStyle.Color = c
	l.LineStyle.Width = vg.Points(1)
	p.Add(l)
	return nil
}

// kde samples a Gaussian kernel density estimate of v over its range,
// scaled by scale. A constant sample has no curve.
func kde(v []float64, n int, scale float64) plotter.XYs {
	sample := stats.Sample{Xs: v}
	lo, hi := sample.Bounds()
	if !(hi > lo) {
		return nil
	}
	est := stats.KDE{
		Sample:    sample,
		Kernel:    stats.GaussianKernel,
		Bandwidth: stats.BandwidthScott(sample),
	}
	if !(est.Bandwidth > 0) {
		return nil
	}
	xs := vec.Linspace(lo, hi, n)
	pts := make(plotter.XYs, len(xs))
	for i, x := range xs {
		pts[i].X = x
		pts[i].Y = est.PDF(x) * scale
	}
	return pts
}

// swatch is a filled square legend entry.
type swatch struct{ c color.RGBA }

func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.c, c.ClipPolygonXY(pts))
}

// Draw lays the grid out on dc with no spacing between cells.
func (g *Grid) Draw(dc draw.Canvas) {
	if g.Title != "" {
		sty := draw.TextStyle{
			Color:   color.Black,
			Font:    plot.DefaultFont,
			Handler: plot.DefaultTextHandler,
			XAlign:  draw.XCenter,
			YAlign:  draw.YTop,
		}
		sty.Font.Size = vg.Points(16)
		dc.FillText(sty, vg.Point{X: dc.Center().X, Y: dc.Max.Y}, g.Title)
		dc = draw.Crop(dc, 0, 0, 0, -sty.Height(g.Title)-vg.Points(4))
	}
	tiles := draw.Tiles{Rows: len(g.Cells), Cols: len(g.Cells[0])}
	canvases := plot.Align(g.Cells, tiles, dc)
	for j, row := range g.Cells {
		for i, p := range row {
			if p != nil {
				p.Draw(canvases[j][i])
			}
		}
	}
	if g.Legend != nil {
		g.Legend.Draw(dc)
	}
}

// Save renders the grid to path. The format follows the file extension.
func (g *Grid) Save(path string) error {
	w, h := g.Width, g.Height
	if w <= 0 || h <= 0 {
		w, h = 20*vg.Inch, 15*vg.Inch
	}
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	c, err := canvasFor(format, w, h)
	if err != nil {
		return err
	}
	dc := draw.New(c)
	dc.SetColor(color.White)
	dc.Fill(dc.Rectangle.Path())
	g.Draw(dc)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func canvasFor(format string, w, h vg.Length) (vg.CanvasWriterTo, error) {
	img := vgimg.New(w, h)
	switch format {
	case "png":
		return vgimg.PngCanvas{Canvas: img}, nil
	case "jpg", "jpeg":
		return vgimg.JpegCanvas{Canvas: img}, nil
	case "tif", "tiff":
		return vgimg.TiffCanvas{Canvas: img}, nil
	}
	return nil, fmt.Errorf("unsupported image format %q", format)
}
