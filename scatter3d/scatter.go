// Package scatter3d builds 3D scatter figures of a table, one trace per
// group of rows, coloured by a categorical column and optionally split by a
// boolean outlier column.
package scatter3d

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	grob "github.com/MetalBlueberry/go-plotly/graph_objects"

	"featureplots/frame"
	"featureplots/palette"
)

// Options configures Build and Plot.
type Options struct {
	X, Y, Z string

	// TypeColumn groups and colours the points. Default "type".
	TypeColumn string
	// OutlierColumn, if set, splits every type group into outlier and
	// regular traces.
	OutlierColumn string
	// HoverColumns are shown on hover, in order. Nil means every column
	// after the first frame.HoverColumnOffset. The type column is always
	// included.
	HoverColumns []string

	// Title defaults to "3D Scatter Plot".
	Title string
	// Filename, without extension, is where Plot writes .html and .png.
	Filename string

	// Normal and Outlier default to palette.Set2 and palette.Dark2.
	Normal, Outlier palette.Palette

	// Width and Height of the canvas in pixels, default 1200x800.
	Width, Height int

	// Show displays the figure after building it.
	Show bool

	// Image renders the static snapshot. Nil uses Projection{}.
	Image ImageExporter
	// Display shows the figure when Show is set. Nil uses Browser{}.
	Display Displayer
}

func (o Options) withDefaults() Options {
	if o.TypeColumn == "" {
		o.TypeColumn = frame.TypeColumn
	}
	if o.Title == "" {
		o.Title = "3D Scatter Plot"
	}
	if o.Normal == nil {
		o.Normal = palette.Set2
	}
	if o.Outlier == nil {
		o.Outlier = palette.Dark2
	}
	if o.Width <= 0 {
		o.Width = 1200
	}
	if o.Height <= 0 {
		o.Height = 800
	}
	if o.Image == nil {
		o.Image = Projection{}
	}
	if o.Display == nil {
		o.Display = Browser{}
	}
	return o
}

// hoverColumns resolves the hover list against the table's column names.
func (o Options) hoverColumns(names []string) []string {
	cols := o.HoverColumns
	if cols == nil && len(names) > frame.HoverColumnOffset {
		cols = names[frame.HoverColumnOffset:]
	}
	return IncludeColumn(cols, o.TypeColumn)
}

// IncludeColumn returns cols with name prepended, unless cols already has it.
func IncludeColumn(cols []string, name string) []string {
	for _, c := range cols {
		if c == name {
			return cols
		}
	}
	return append([]string{name}, cols...)
}

// HoverTemplate renders each column as a bold label and its customdata
// value, one per line, and hides the trace name box.
func HoverTemplate(cols []string) string {
	var b strings.Builder
	for i, c := range cols {
		fmt.Fprintf(&b, "<b>%s</b>: %%{customdata[%d]}<br>", c, i)
	}
	b.WriteString("<extra></extra>")
	return b.String()
}

// Series is one group of rows drawn as a single trace.
type Series struct {
	Name      string
	TypeValue string
	// Outlier is set for the outlier half of a split group.
	Outlier bool
	Split   bool
	// Rows are indices into the input table.
	Rows []int
	// X, Y and Z hold NaN for missing cells.
	X, Y, Z []float64
	Color   color.RGBA
	// Customdata holds nil for missing or non-finite cells.
	Customdata [][]interface{}
}

// Figure is a built scatter plot.
type Figure struct {
	Fig    *grob.Fig
	Series []Series

	Title                  string
	XTitle, YTitle, ZTitle string
	HoverColumns           []string
	Width, Height          int
}

// Build groups the rows of t and returns a figure with one trace per
// non-empty group. The table is not modified.
func Build(t frame.Table, o Options) (*Figure, error) {
	o = o.withDefaults()

	axes, err := frame.Columns(t, []string{o.X, o.Y, o.Z})
	if err != nil {
		return nil, err
	}
	typ, err := t.Column(o.TypeColumn)
	if err != nil {
		return nil, err
	}
	var flags []bool
	if o.OutlierColumn != "" {
		c, err := t.Column(o.OutlierColumn)
		if err != nil {
			return nil, err
		}
		if flags, err = frame.Bools(c); err != nil {
			return nil, err
		}
	}
	hover := o.hoverColumns(t.Names())
	hcols, err := frame.Columns(t, hover)
	if err != nil {
		return nil, err
	}

	values := frame.UniqueValues(typ)
	colors := palette.Assign(values, o.Normal, o.Outlier)
	groups := make(map[string][]int, len(values))
	for i := 0; i < t.Nrow(); i++ {
		v := typ.String(i)
		groups[v] = append(groups[v], i)
	}

	f := &Figure{
		Title:        o.Title,
		XTitle:       o.X,
		YTitle:       o.Y,
		ZTitle:       o.Z,
		HoverColumns: hover,
		Width:        o.Width,
		Height:       o.Height,
	}
	add := func(s Series, rows []int) error {
		s.Rows = rows
		if err := s.fill(axes, hcols); err != nil {
			return err
		}
		f.Series = append(f.Series, s)
		return nil
	}
	for _, v := range values {
		rows := groups[v]
		if flags == nil {
			if err := add(Series{Name: v, TypeValue: v, Color: colors[v].Normal}, rows); err != nil {
				return nil, err
			}
			continue
		}
		for _, isOutlier := range []bool{true, false} {
			var sel []int
			for _, r := range rows {
				if flags[r] == isOutlier {
					sel = append(sel, r)
				}
			}
			if len(sel) == 0 {
				continue
			}
			s := Series{Name: v, TypeValue: v, Outlier: isOutlier, Split: true, Color: colors[v].Normal}
			if isOutlier {
				s.Name = v + " (Outlier)"
				s.Color = colors[v].Outlier
			}
			if err := add(s, sel); err != nil {
				return nil, err
			}
		}
	}

	f.Fig = f.plotly()
	return f, nil
}

func (s *Series) fill(axes, hover []frame.Column) error {
	s.X = make([]float64, len(s.Rows))
	s.Y = make([]float64, len(s.Rows))
	s.Z = make([]float64, len(s.Rows))
	s.Customdata = make([][]interface{}, len(s.Rows))
	dst := [][]float64{s.X, s.Y, s.Z}
	for j, r := range s.Rows {
		for a, c := range axes {
			v, err := c.Float(r)
			if err != nil {
				return err
			}
			dst[a][j] = v
		}
		row := frame.Row(hover, r)
		for k := range row {
			row[k] = jsonValue(row[k])
		}
		s.Customdata[j] = row
	}
	return nil
}

// jsonValue replaces values encoding/json rejects with nil, which plotly
// treats as a gap.
func jsonValue(v interface{}) interface{} {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return nil
		}
	}
	return v
}

// gaps converts coordinates for the figure, with nil for missing points.
func gaps(v []float64) []interface{} {
	ret := make([]interface{}, len(v))
	for i, x := range v {
		ret[i] = jsonValue(x)
	}
	return ret
}

func (s *Series) marker() *grob.Scatter3dMarker {
	m := &grob.Scatter3dMarker{
		Size:  6,
		Color: palette.CSS(s.Color),
	}
	switch {
	case !s.Split:
		m.Opacity = 0.7
	case s.Outlier:
		m.Opacity = 1
		m.Symbol = grob.Scatter3dMarkerSymbolDiamond
		m.Line = &grob.Scatter3dMarkerLine{Width: 1, Color: "black"}
	default:
		m.Opacity = 0.8
		m.Symbol = grob.Scatter3dMarkerSymbolCircle
		m.Line = &grob.Scatter3dMarkerLine{Width: 0, Color: "black"}
	}
	return m
}

func (f *Figure) plotly() *grob.Fig {
	tmpl := HoverTemplate(f.HoverColumns)
	fig := &grob.Fig{Data: grob.Traces{}}
	for i := range f.Series {
		s := &f.Series[i]
		trace := &grob.Scatter3d{
			Type:          grob.TraceTypeScatter3d,
			X:             gaps(s.X),
			Y:             gaps(s.Y),
			Z:             gaps(s.Z),
			Mode:          grob.Scatter3dModeMarkers,
			Name:          s.Name,
			Marker:        s.marker(),
			Customdata:    s.Customdata,
			Hovertemplate: tmpl,
		}
		if s.Split {
			trace.Legendgroup = s.Name
		}
		fig.Data = append(fig.Data, trace)
	}
	fig.Layout = &grob.Layout{
		Title: &grob.LayoutTitle{Text: f.Title},
		Scene: &grob.LayoutScene{
			Xaxis: &grob.LayoutSceneXaxis{Title: &grob.LayoutSceneXaxisTitle{Text: f.XTitle}},
			Yaxis: &grob.LayoutSceneYaxis{Title: &grob.LayoutSceneYaxisTitle{Text: f.YTitle}},
			Zaxis: &grob.LayoutSceneZaxis{Title: &grob.LayoutSceneZaxisTitle{Text: f.ZTitle}},
		},
		Width:      float64(f.Width),
		Height:     float64(f.Height),
		Showlegend: grob.True,
		Margin: &grob.LayoutMargin{
			L:   20,
			R:   20,
			B:   20,
			T:   50,
			Pad: 4,
		},
	}
	return fig
}

// Plot builds the figure, saves it when o.Filename is set and shows it when
// o.Show is set. A failed image export is reported in the result and logged,
// never returned as an error.
func Plot(t frame.Table, o Options) (*Figure, ExportResult, error) {
	o = o.withDefaults()
	f, err := Build(t, o)
	if err != nil {
		return nil, ExportResult{}, err
	}
	var res ExportResult
	if o.Filename != "" {
		if res, err = f.Save(o.Filename, o.Image); err != nil {
			return f, res, err
		}
	}
	if o.Show {
		if err := o.Display.Display(f); err != nil {
			return f, res, fmt.Errorf("displaying figure: %w", err)
		}
	}
	return f, res, nil
}
