// Package frame is the tabular interface the plotting helpers read from.
//
// A Table exposes column lookup by name, predicate filtering and ordered
// row access. DataFrame implements it over a gota dataframe.
package frame

import (
	"errors"
	"fmt"
	"math"
)

// HoverColumnOffset is the number of leading columns treated as plot axes.
// Columns after it are shown on hover by default.
const HoverColumnOffset = 3

// Default names of the categorical and outlier columns.
const (
	TypeColumn    = "type"
	OutlierColumn = "outlier"
)

// ErrMissingColumn is matched by errors.Is for every MissingColumnError.
var ErrMissingColumn = errors.New("missing column")

// ErrBadValue is matched by errors.Is for every ValueError.
var ErrBadValue = errors.New("bad value")

// MissingColumnError reports a column name the table does not have.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}

func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }

// ValueError reports a cell that could not be converted to the wanted type.
type ValueError struct {
	Column string
	Row    int
	Value  string
	Want   string
	Err    error
}

func (e *ValueError) Error() string {
	msg := fmt.Sprintf("column %q row %d: cannot use %q as %s", e.Column, e.Row, e.Value, e.Want)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ValueError) Is(target error) bool { return target == ErrBadValue }

func (e *ValueError) Unwrap() error { return e.Err }

// Column is a single named column of a Table.
type Column interface {
	Name() string
	Len() int
	// String returns the display form of row i.
	String(i int) string
	Float(i int) (float64, error)
	Bool(i int) (bool, error)
	// Value returns the raw cell, as used in hover payloads.
	Value(i int) interface{}
}

// Table is a set of equally long named columns.
type Table interface {
	Names() []string
	Nrow() int
	Column(name string) (Column, error)
	// Filter returns the rows for which keep reports true, in order.
	Filter(keep func(row int) bool) (Table, error)
}

// Columns looks up each name in order.
func Columns(t Table, names []string) ([]Column, error) {
	cols := make([]Column, len(names))
	for i, n := range names {
		c, err := t.Column(n)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}
	return cols, nil
}

// Row returns the values of cols at row i, in column order.
func Row(cols []Column, i int) []interface{} {
	ret := make([]interface{}, len(cols))
	for j, c := range cols {
		ret[j] = c.Value(i)
	}
	return ret
}

// Floats returns every value of c as a float64.
func Floats(c Column) ([]float64, error) {
	v := make([]float64, c.Len())
	for i := range v {
		f, err := c.Float(i)
		if err != nil {
			return nil, err
		}
		v[i] = f
	}
	return v, nil
}

// ErrNoValues is returned when a column has no usable values.
var ErrNoValues = errors.New("no values")

// Present returns v without its NaN entries, which stand for missing cells.
func Present(v []float64) []float64 {
	ret := make([]float64, 0, len(v))
	for _, x := range v {
		if !math.IsNaN(x) {
			ret = append(ret, x)
		}
	}
	return ret
}

// PresentFloats is Floats with missing cells dropped. A column with no
// values left fails with ErrNoValues.
func PresentFloats(c Column) ([]float64, error) {
	v, err := Floats(c)
	if err != nil {
		return nil, err
	}
	v = Present(v)
	if len(v) == 0 {
		return nil, fmt.Errorf("column %q: %w", c.Name(), ErrNoValues)
	}
	return v, nil
}

// ErrMissingValue is wrapped by the ValueError CompleteFloats returns.
var ErrMissingValue = errors.New("missing value")

// CompleteFloats is Floats for callers that cannot skip cells. A missing
// cell fails with a ValueError wrapping ErrMissingValue.
func CompleteFloats(c Column) ([]float64, error) {
	v, err := Floats(c)
	if err != nil {
		return nil, err
	}
	for i, x := range v {
		if math.IsNaN(x) {
			return nil, &ValueError{Column: c.Name(), Row: i, Value: c.String(i), Want: "number", Err: ErrMissingValue}
		}
	}
	return v, nil
}

// Bools returns every value of c as a bool.
func Bools(c Column) ([]bool, error) {
	v := make([]bool, c.Len())
	for i := range v {
		b, err := c.Bool(i)
		if err != nil {
			return nil, err
		}
		v[i] = b
	}
	return v, nil
}

// UniqueValues returns the distinct values of c in first-observed order.
func UniqueValues(c Column) []string {
	var ret []string
	seen := make(map[string]bool)
	for i := 0; i < c.Len(); i++ {
		v := c.String(i)
		if seen[v] {
			continue
		}
		seen[v] = true
		ret = append(ret, v)
	}
	return ret
}

// FeatureColumns returns the names of t's numeric feature columns in table
// order, leaving out the type and outlier columns and any name in exclude.
func FeatureColumns(t Table, exclude ...string) []string {
	skip := map[string]bool{TypeColumn: true, OutlierColumn: true}
	for _, e := range exclude {
		skip[e] = true
	}
	var ret []string
	for _, n := range t.Names() {
		if skip[n] {
			continue
		}
		c, err := t.Column(n)
		if err != nil {
			continue
		}
		if _, err := Floats(c); err != nil {
			continue
		}
		ret = append(ret, n)
	}
	return ret
}

// Has reports whether t has a column called name.
func Has(t Table, name string) bool {
	for _, n := range t.Names() {
		if n == name {
			return true
		}
	}
	return false
}
