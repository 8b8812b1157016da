// Command featureplots draws the standard set of plots for a feature table:
// a histogram grid, an optional two-type comparison grid, the PCA variance
// curve and a 3D scatter of the first three principal components.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"featureplots/cluster"
	"featureplots/frame"
	"featureplots/histogram"
	"featureplots/pca"
	"featureplots/scatter3d"
)

type config struct {
	csv      string
	out      string
	typeCol  string
	outlier  string
	compare  string
	x, y, z  string
	hover    string
	title    string
	noStd    bool
	show     bool
	verbose  bool
	features string
	clusters int
}

func main() {
	var c config
	flag.StringVar(&c.csv, "csv", "", "feature table `file` (CSV with header)")
	flag.StringVar(&c.out, "o", ".", "output `directory`")
	flag.StringVar(&c.typeCol, "type", frame.TypeColumn, "categorical column to colour by")
	flag.StringVar(&c.outlier, "outlier", "", "boolean outlier `column`; empty disables the split")
	flag.StringVar(&c.compare, "compare", "", "two type values `A,B` to compare feature histograms of")
	flag.StringVar(&c.x, "x", "", "x axis column (default PC1)")
	flag.StringVar(&c.y, "y", "", "y axis column (default PC2)")
	flag.StringVar(&c.z, "z", "", "z axis column (default PC3)")
	flag.StringVar(&c.hover, "hover", "", "comma-separated hover columns")
	flag.StringVar(&c.features, "features", "", "comma-separated feature columns (default all numeric)")
	flag.StringVar(&c.title, "title", "", "scatter plot title")
	flag.IntVar(&c.clusters, "clusters", 0, "colour by `k` k-means clusters of the features instead of -type")
	flag.BoolVar(&c.noStd, "no-standardise", false, "fit PCA on raw rather than standardised features")
	flag.BoolVar(&c.show, "show", false, "open the scatter plot in a browser")
	flag.BoolVar(&c.verbose, "v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if c.csv == "" {
		fmt.Fprintln(os.Stderr, "usage: featureplots -csv file [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if err := run(c); err != nil {
		slog.Error("featureplots failed", "err", err)
		os.Exit(1)
	}
}

func split(s string) []string {
	if s == "" {
		return nil
	}
	var ret []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			ret = append(ret, f)
		}
	}
	return ret
}

func run(c config) error {
	df, err := frame.LoadCSV(c.csv)
	if err != nil {
		return err
	}
	slog.Debug("loaded table", "path", c.csv, "rows", df.Nrow(), "cols", len(df.Names()))
	if err := os.MkdirAll(c.out, 0o755); err != nil {
		return err
	}

	features := split(c.features)
	if features == nil {
		features = frame.FeatureColumns(df, c.typeCol, c.outlier)
	}

	if c.clusters > 0 {
		if df, err = cluster.Label(df, cluster.Column, features, c.clusters, 300); err != nil {
			return err
		}
		c.typeCol = cluster.Column
		slog.Debug("labelled clusters", "k", c.clusters)
	}

	grid, err := histogram.Features(df, histogram.Options{Features: features, Title: "Feature distributions"})
	if err != nil {
		return fmt.Errorf("feature histograms: %w", err)
	}
	if err := save(grid, filepath.Join(c.out, "features.png")); err != nil {
		return err
	}

	if pair := split(c.compare); pair != nil {
		if len(pair) != 2 {
			return fmt.Errorf("-compare wants two type values, got %q", c.compare)
		}
		g, err := histogram.Compare(df, c.typeCol, pair[0], pair[1], histogram.Options{
			Features: features,
			Title:    pair[0] + " vs " + pair[1],
		})
		if err != nil {
			return fmt.Errorf("comparing %s and %s: %w", pair[0], pair[1], err)
		}
		if err := save(g, filepath.Join(c.out, "compare.png")); err != nil {
			return err
		}
	}

	fit, err := pca.Fit(df, features, !c.noStd)
	if err != nil {
		return err
	}
	ratios := fit.ExplainedVarianceRatio()
	for i, r := range ratios {
		slog.Debug("component", "n", i+1, "ratio", r)
	}
	path := filepath.Join(c.out, "pca_variance.png")
	if err := pca.SaveVariancePlot(ratios, path); err != nil {
		return err
	}
	slog.Info("wrote", "path", path)

	k := 3
	if len(ratios) < k {
		k = len(ratios)
	}
	if df, err = fit.AppendComponents(df, k); err != nil {
		return err
	}
	axes := [3]string{c.x, c.y, c.z}
	for i := range axes {
		if axes[i] != "" {
			continue
		}
		if i >= k {
			return fmt.Errorf("3D scatter: %d principal components for 3 axes; set -x, -y and -z", k)
		}
		axes[i] = pca.ComponentName(i)
	}
	// Axis columns first so the default hover set is everything after them.
	order := append([]string{}, axes[:]...)
	for _, n := range df.Names() {
		if n != axes[0] && n != axes[1] && n != axes[2] {
			order = append(order, n)
		}
	}
	if df, err = df.Select(order...); err != nil {
		return err
	}

	_, res, err := scatter3d.Plot(df, scatter3d.Options{
		X:             axes[0],
		Y:             axes[1],
		Z:             axes[2],
		TypeColumn:    c.typeCol,
		OutlierColumn: c.outlier,
		HoverColumns:  split(c.hover),
		Title:         c.title,
		Filename:      filepath.Join(c.out, "scatter3d"),
		Show:          c.show,
	})
	if err != nil {
		return err
	}
	slog.Info("wrote", "path", res.HTMLPath)
	if res.ImageWritten() {
		slog.Info("wrote", "path", res.ImagePath)
	}
	return nil
}

func save(g *histogram.Grid, path string) error {
	if err := g.Save(path); err != nil {
		return err
	}
	slog.Info("wrote", "path", path)
	return nil
}
