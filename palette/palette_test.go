package palette

import (
	"fmt"
	"testing"
)

func TestWraparound(t *testing.T) {
	for _, p := range []Palette{Set2, Dark2, Tab10} {
		if p.At(len(p)) != p.At(0) {
			t.Errorf("palette of %d: At(%d) = %v, want %v", len(p), len(p), p.At(len(p)), p.At(0))
		}
		if p.At(-1) != p[len(p)-1] {
			t.Errorf("palette of %d: At(-1) = %v", len(p), p.At(-1))
		}
	}
}

func TestAssignIndependentModuli(t *testing.T) {
	short := Palette{rgb(1, 0, 0), rgb(2, 0, 0)}
	long := Palette{rgb(0, 1, 0), rgb(0, 2, 0), rgb(0, 3, 0)}
	var values []string
	for i := 0; i < 4; i++ {
		values = append(values, fmt.Sprint("t", i))
	}
	m := Assign(values, short, long)
	tests := []struct {
		v       string
		normal  uint8
		outlier uint8
	}{
		{"t0", 1, 1},
		{"t1", 2, 2},
		{"t2", 1, 3},
		{"t3", 2, 1},
	}
	for _, tt := range tests {
		got := m[tt.v]
		if got.Normal.R != tt.normal || got.Outlier.G != tt.outlier {
			t.Errorf("%s: got %+v, want normal %d outlier %d", tt.v, got, tt.normal, tt.outlier)
		}
	}
}

func TestAssignDeterministic(t *testing.T) {
	values := []string{"x", "y", "z"}
	a := Assign(values, Set2, Dark2)
	b := Assign(values, Set2, Dark2)
	for _, v := range values {
		if a[v] != b[v] {
			t.Errorf("%s: %v != %v", v, a[v], b[v])
		}
	}
}

func TestCSS(t *testing.T) {
	if got := Set2.CSS(0); got != "rgb(102,194,165)" {
		t.Errorf("CSS = %q", got)
	}
	var empty Palette
	if got := empty.CSS(3); got != "rgb(0,0,0)" {
		t.Errorf("empty CSS = %q", got)
	}
}
