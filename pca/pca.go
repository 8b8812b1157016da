// Package pca fits principal components to feature columns and plots the
// cumulative explained variance.
package pca

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"featureplots/frame"
)

// Result is a fitted principal component analysis.
type Result struct {
	Columns []string
	// Vars are the component variances, largest first.
	Vars []float64

	data    *mat.Dense
	vectors mat.Dense
}

// Fit computes the principal components of the named columns of t. With
// standardise set every column is scaled to unit variance first.
func Fit(t frame.Table, cols []string, standardise bool) (*Result, error) {
	if len(cols) == 0 {
		return nil, errors.New("pca: no columns")
	}
	if t.Nrow() < 2 {
		return nil, fmt.Errorf("pca: need at least 2 rows, have %d", t.Nrow())
	}
	data, err := matrix(t, cols, standardise)
	if err != nil {
		return nil, err
	}
	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return nil, errors.New("pca: decomposition failed")
	}
	r := &Result{Columns: cols, Vars: pc.VarsTo(nil), data: data}
	pc.VectorsTo(&r.vectors)
	return r, nil
}

// matrix converts the columns to a centred rows x cols matrix.
func matrix(t frame.Table, cols []string, standardise bool) (*mat.Dense, error) {
	m := mat.NewDense(t.Nrow(), len(cols), nil)
	for j, name := range cols {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		v, err := frame.CompleteFloats(c)
		if err != nil {
			return nil, fmt.Errorf("pca: %w", err)
		}
		mean, std := stat.MeanStdDev(v, nil)
		for i := range v {
			x := v[i] - mean
			if standardise && std > 0 {
				x /= std
			}
			m.Set(i, j, x)
		}
	}
	return m, nil
}

// ExplainedVarianceRatio is each component's share of the total variance.
func (r *Result) ExplainedVarianceRatio() []float64 {
	total := 0.0
	for _, v := range r.Vars {
		total += v
	}
	ret := make([]float64, len(r.Vars))
	if total == 0 {
		return ret
	}
	for i, v := range r.Vars {
		ret[i] = v / total
	}
	return ret
}

// Cumulative returns the running sum of v.
func Cumulative(v []float64) []float64 {
	ret := make([]float64, len(v))
	sum := 0.0
	for i, x := range v {
		sum += x
		ret[i] = sum
	}
	return ret
}

// Project returns the rows projected onto the first k components.
func (r *Result) Project(k int) (*mat.Dense, error) {
	_, n := r.vectors.Dims()
	if k < 1 || k > n {
		return nil, fmt.Errorf("pca: %d components requested, have %d", k, n)
	}
	d, _ := r.vectors.Dims()
	rows, _ := r.data.Dims()
	out := mat.NewDense(rows, k, nil)
	out.Mul(r.data, r.vectors.Slice(0, d, 0, k))
	return out, nil
}

// ComponentName is the column name used for component i, counting from 0.
func ComponentName(i int) string { return fmt.Sprintf("PC%d", i+1) }

// AppendComponents adds columns PC1..PCk holding the projected rows.
func (r *Result) AppendComponents(d frame.DataFrame, k int) (frame.DataFrame, error) {
	p, err := r.Project(k)
	if err != nil {
		return frame.DataFrame{}, err
	}
	for i := 0; i < k; i++ {
		if d, err = d.WithFloats(ComponentName(i), mat.Col(nil, i, p)); err != nil {
			return frame.DataFrame{}, err
		}
	}
	return d, nil
}

// VariancePlot draws the cumulative explained variance ratio against the
// number of components.
func VariancePlot(ratios []float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "PCA Explained Variance Ratio"
	p.X.Label.Text = "Number of Components"
	p.Y.Label.Text = "Cumulative Explained Variance Ratio"
	p.Add(plotter.NewGrid())

	cum := Cumulative(ratios)
	pts := make(plotter.XYs, len(cum))
	for i := range cum {
		pts[i].X = float64(i + 1)
		pts[i].Y = cum[i]
	}
	lines, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, err
	}
	blue := color.RGBA{B: 255, A: 255}
	lines.Color = blue
	lines.Width = vg.Points(1.5)
	points.Shape = draw.CircleGlyph{}
	points.Color = blue
	p.Add(lines, points)
	return p, nil
}

// SaveVariancePlot writes the variance plot to path at 10in x 6in.
func SaveVariancePlot(ratios []float64, path string) error {
	p, err := VariancePlot(ratios)
	if err != nil {
		return err
	}
	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}
