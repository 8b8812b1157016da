package scatter3d

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/MetalBlueberry/go-plotly/offline"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"featureplots/palette"
)

// ExportResult records what Save wrote. ImageErr is set when the static
// image could not be written; the HTML file is unaffected.
type ExportResult struct {
	HTMLPath  string
	ImagePath string
	ImageErr  error
}

// ImageWritten reports whether the static image was written.
func (r ExportResult) ImageWritten() bool { return r.ImagePath != "" && r.ImageErr == nil }

// ImageExporter writes a static snapshot of a figure.
type ImageExporter interface {
	Export(f *Figure, path string) error
}

// Displayer shows a figure to the user.
type Displayer interface {
	Display(f *Figure) error
}

// Browser opens the figure in the default web browser.
type Browser struct{}

func (Browser) Display(f *Figure) error {
	if err := f.encodable(); err != nil {
		return err
	}
	offline.Show(f.Fig)
	return nil
}

// encodable reports whether the figure can be serialised. The offline
// writers panic on values encoding/json rejects.
func (f *Figure) encodable() error {
	if _, err := json.Marshal(f.Fig); err != nil {
		return fmt.Errorf("encoding figure: %w", err)
	}
	return nil
}

// Save writes filename.html and then tries filename.png. Only the HTML write
// can fail the call.
func (f *Figure) Save(filename string, img ImageExporter) (ExportResult, error) {
	res := ExportResult{HTMLPath: filename + ".html", ImagePath: filename + ".png"}
	if err := f.WriteHTML(res.HTMLPath); err != nil {
		return res, err
	}
	if img == nil {
		img = Projection{}
	}
	if err := img.Export(f, res.ImagePath); err != nil {
		res.ImageErr = err
		slog.Warn("error writing image", "path", res.ImagePath, "err", err)
	}
	return res, nil
}

// WriteHTML writes a self-contained interactive page to path.
func (f *Figure) WriteHTML(path string) error {
	if err := f.encodable(); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	offline.ToHtml(f.Fig, path)
	// ToHtml drops write errors.
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Projection renders the point cloud as an orthographic 2D view with
// gonum/plot. Angles are in degrees; zero values mean azimuth 45 and
// elevation 30.
type Projection struct {
	Azimuth, Elevation float64
}

func (p Projection) angles() (az, el float64) {
	az, el = p.Azimuth, p.Elevation
	if az == 0 && el == 0 {
		az, el = 45, 30
	}
	return az * math.Pi / 180, el * math.Pi / 180
}

// Export renders f and saves it to path; the format follows the extension.
func (p Projection) Export(f *Figure, path string) error {
	pl, err := p.Plot(f)
	if err != nil {
		return err
	}
	// 96 dpi canvas.
	w := vg.Length(f.Width) * vg.Inch / 96
	h := vg.Length(f.Height) * vg.Inch / 96
	return pl.Save(w, h, path)
}

// Plot returns the projected view as a gonum plot.
func (p Projection) Plot(f *Figure) (*plot.Plot, error) {
	az, el := p.angles()
	bounds := f.bounds()

	pl := plot.New()
	pl.Title.Text = f.Title
	pl.HideAxes()
	pl.Legend.Top = true

	for _, s := range f.Series {
		pts := make(plotter.XYs, 0, len(s.X))
		for i := range s.X {
			if missing(s.X[i], s.Y[i], s.Z[i]) {
				continue
			}
			x := bounds[0].norm(s.X[i])
			y := bounds[1].norm(s.Y[i])
			z := bounds[2].norm(s.Z[i])
			depth := x*math.Sin(az) + y*math.Cos(az)
			pts = append(pts, plotter.XY{
				X: x*math.Cos(az) - y*math.Sin(az),
				Y: z*math.Cos(el) + depth*math.Sin(el),
			})
		}
		if len(pts) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Name, err)
		}
		alpha := uint8(255)
		switch {
		case !s.Split:
			alpha = 178
		case !s.Outlier:
			alpha = 204
		}
		sc.GlyphStyle.Color = palette.WithAlpha(s.Color, alpha)
		sc.GlyphStyle.Radius = vg.Points(3)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		if s.Outlier {
			sc.GlyphStyle.Shape = draw.PyramidGlyph{}
		}
		pl.Add(sc)
		pl.Legend.Add(s.Name, sc)
	}
	return pl, nil
}

func missing(v ...float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return true
		}
	}
	return false
}

type span struct{ min, max float64 }

func (s span) norm(v float64) float64 {
	if s.max == s.min {
		return 0
	}
	return (v-s.min)/(s.max-s.min) - 0.5
}

func (f *Figure) bounds() [3]span {
	var b [3]span
	first := true
	for _, s := range f.Series {
		for i := range s.X {
			if missing(s.X[i], s.Y[i], s.Z[i]) {
				continue
			}
			v := [3]float64{s.X[i], s.Y[i], s.Z[i]}
			for a := range v {
				if first || v[a] < b[a].min {
					b[a].min = v[a]
				}
				if first || v[a] > b[a].max {
					b[a].max = v[a]
				}
			}
			first = false
		}
	}
	return b
}
