package frame

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// DataFrame adapts a gota dataframe to Table.
type DataFrame struct {
	df dataframe.DataFrame
}

// FromGota wraps df. A dataframe carrying an error is rejected.
func FromGota(df dataframe.DataFrame) (DataFrame, error) {
	if df.Err != nil {
		return DataFrame{}, df.Err
	}
	return DataFrame{df: df}, nil
}

// New builds a DataFrame from gota series.
func New(s ...series.Series) (DataFrame, error) {
	return FromGota(dataframe.New(s...))
}

// ReadCSV parses a CSV document with a header row. Column types are
// detected from the values.
func ReadCSV(r io.Reader) (DataFrame, error) {
	d, err := FromGota(dataframe.ReadCSV(r))
	if err != nil {
		return DataFrame{}, fmt.Errorf("reading csv: %w", err)
	}
	return d, nil
}

// LoadCSV reads the CSV file at path.
func LoadCSV(path string) (DataFrame, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return DataFrame{}, err
	}
	return ReadCSV(bytes.NewReader(b))
}

// Gota returns the underlying dataframe.
func (d DataFrame) Gota() dataframe.DataFrame { return d.df }

func (d DataFrame) Names() []string { return d.df.Names() }

func (d DataFrame) Nrow() int { return d.df.Nrow() }

func (d DataFrame) Column(name string) (Column, error) {
	if !Has(d, name) {
		return nil, &MissingColumnError{Column: name}
	}
	return seriesColumn{s: d.df.Col(name)}, nil
}

func (d DataFrame) Filter(keep func(row int) bool) (Table, error) {
	var rows []int
	for i := 0; i < d.df.Nrow(); i++ {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	if len(rows) == 0 {
		return d.empty()
	}
	sub := d.df.Subset(rows)
	if sub.Err != nil {
		return nil, sub.Err
	}
	return DataFrame{df: sub}, nil
}

// empty returns a zero-row frame with d's column names and types.
func (d DataFrame) empty() (DataFrame, error) {
	var cols []series.Series
	for _, n := range d.df.Names() {
		s := d.df.Col(n)
		cols = append(cols, series.New([]string{}, s.Type(), n))
	}
	return New(cols...)
}

// Select returns a frame holding only the named columns, in the given order.
func (d DataFrame) Select(names ...string) (DataFrame, error) {
	for _, n := range names {
		if !Has(d, n) {
			return DataFrame{}, &MissingColumnError{Column: n}
		}
	}
	return FromGota(d.df.Select(names))
}

// WithFloats returns a copy of d with a float column called name, replacing
// any existing column of that name.
func (d DataFrame) WithFloats(name string, v []float64) (DataFrame, error) {
	if len(v) != d.df.Nrow() {
		return DataFrame{}, fmt.Errorf("column %q has %d values, frame has %d rows", name, len(v), d.df.Nrow())
	}
	return FromGota(d.df.Mutate(series.New(v, series.Float, name)))
}

// WithStrings is WithFloats for a string column.
func (d DataFrame) WithStrings(name string, v []string) (DataFrame, error) {
	if len(v) != d.df.Nrow() {
		return DataFrame{}, fmt.Errorf("column %q has %d values, frame has %d rows", name, len(v), d.df.Nrow())
	}
	return FromGota(d.df.Mutate(series.New(v, series.String, name)))
}

type seriesColumn struct {
	s series.Series
}

func (c seriesColumn) Name() string { return c.s.Name }

func (c seriesColumn) Len() int { return c.s.Len() }

func (c seriesColumn) String(i int) string { return c.s.Elem(i).String() }

func (c seriesColumn) Float(i int) (float64, error) {
	e := c.s.Elem(i)
	f := e.Float()
	// A NaN held by a float series is a missing cell, like NA.
	if math.IsNaN(f) && !e.IsNA() && c.s.Type() != series.Float {
		return 0, &ValueError{Column: c.s.Name, Row: i, Value: e.String(), Want: "number"}
	}
	return f, nil
}

func (c seriesColumn) Bool(i int) (bool, error) {
	e := c.s.Elem(i)
	b, err := e.Bool()
	if err != nil {
		return false, &ValueError{Column: c.s.Name, Row: i, Value: e.String(), Want: "boolean", Err: err}
	}
	return b, nil
}

func (c seriesColumn) Value(i int) interface{} { return c.s.Elem(i).Val() }
