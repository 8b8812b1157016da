// Package cluster labels rows with k-means clusters so tables without a
// categorical column can still be grouped and coloured.
package cluster

import (
	"errors"
	"fmt"

	goml "github.com/cdipaolo/goml/cluster"

	"featureplots/frame"
)

// Column is the default name of the label column.
const Column = "cluster"

// Features converts the named columns of t to one float slice per row, as
// the goml models take them.
func Features(t frame.Table, cols []string) ([][]float64, error) {
	cs, err := frame.Columns(t, cols)
	if err != nil {
		return nil, err
	}
	x := make([][]float64, t.Nrow())
	for i := range x {
		x[i] = make([]float64, len(cs))
	}
	for j, c := range cs {
		v, err := frame.CompleteFloats(c)
		if err != nil {
			return nil, err
		}
		for i := range v {
			x[i][j] = v[i]
		}
	}
	return x, nil
}

// KMeans fits k clusters to the named columns and returns the label of
// every row, formatted as "c0", "c1", ...
func KMeans(t frame.Table, cols []string, k, iterations int) ([]string, error) {
	if k < 1 {
		return nil, fmt.Errorf("cluster: k = %d", k)
	}
	if t.Nrow() < k {
		return nil, fmt.Errorf("cluster: %d rows for %d clusters", t.Nrow(), k)
	}
	if len(cols) == 0 {
		return nil, errors.New("cluster: no columns")
	}
	x, err := Features(t, cols)
	if err != nil {
		return nil, err
	}
	model := goml.NewKMeans(k, iterations, x)
	if err := model.Learn(); err != nil {
		return nil, fmt.Errorf("cluster: %w", err)
	}
	labels := make([]string, len(x))
	for i := range x {
		p, err := model.Predict(x[i])
		if err != nil {
			return nil, fmt.Errorf("cluster: row %d: %w", i, err)
		}
		labels[i] = fmt.Sprintf("c%d", int(p[0]))
	}
	return labels, nil
}

// Label adds a string column called name holding the k-means labels.
func Label(d frame.DataFrame, name string, cols []string, k, iterations int) (frame.DataFrame, error) {
	labels, err := KMeans(d, cols, k, iterations)
	if err != nil {
		return frame.DataFrame{}, err
	}
	return d.WithStrings(name, labels)
}
