package pca

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"featureplots/frame"
)

// line returns a table whose points lie close to the line a = b = 2c.
func line(t *testing.T) frame.DataFrame {
	t.Helper()
	var b strings.Builder
	b.WriteString("a,b,c,type\n")
	for i := 0; i < 20; i++ {
		x := float64(i)
		noise := 0.01 * float64(i%3-1)
		fmt.Fprintf(&b, "%f,%f,%f,T\n", x, x+noise, x/2-noise)
	}
	d, err := frame.ReadCSV(strings.NewReader(b.String()))
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestFitDominantComponent(t *testing.T) {
	r, err := Fit(line(t), []string{"a", "b", "c"}, false)
	if err != nil {
		t.Fatal(err)
	}
	ratio := r.ExplainedVarianceRatio()
	if len(ratio) != 3 {
		t.Fatalf("ratios = %v", ratio)
	}
	if ratio[0] < 0.99 {
		t.Errorf("first component explains %v, want > 0.99", ratio[0])
	}
	cum := Cumulative(ratio)
	for i := 1; i < len(cum); i++ {
		if cum[i] < cum[i-1] {
			t.Errorf("cumulative decreases at %d: %v", i, cum)
		}
	}
	if math.Abs(cum[len(cum)-1]-1) > 1e-9 {
		t.Errorf("cumulative ends at %v", cum[len(cum)-1])
	}
}

func TestFitErrors(t *testing.T) {
	d := line(t)
	if _, err := Fit(d, []string{"a", "nope"}, true); !errors.Is(err, frame.ErrMissingColumn) {
		t.Errorf("missing column: err = %v", err)
	}
	if _, err := Fit(d, []string{"type"}, true); !errors.Is(err, frame.ErrBadValue) {
		t.Errorf("string column: err = %v", err)
	}
	if _, err := Fit(d, nil, true); err == nil {
		t.Error("no columns accepted")
	}
}

func TestAppendComponents(t *testing.T) {
	d := line(t)
	r, err := Fit(d, []string{"a", "b", "c"}, true)
	if err != nil {
		t.Fatal(err)
	}
	d2, err := r.AppendComponents(d, 2)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"PC1", "PC2"} {
		if !frame.Has(d2, name) {
			t.Errorf("missing %s in %v", name, d2.Names())
		}
	}
	if frame.Has(d, "PC1") {
		t.Error("input frame was modified")
	}
	if _, err := r.Project(4); err == nil {
		t.Error("Project(4) of 3 components succeeded")
	}
}

func TestSaveVariancePlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "variance.png")
	if err := SaveVariancePlot([]float64{0.6, 0.3, 0.1}, path); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("stat: %v", err)
	}
}

func TestFitMissingCell(t *testing.T) {
	d, err := frame.ReadCSV(strings.NewReader("a,b\n1,2\n,3\n3,5\n4,4\n"))
	if err != nil {
		t.Fatal(err)
	}
	_, err = Fit(d, []string{"a", "b"}, true)
	if !errors.Is(err, frame.ErrMissingValue) || !strings.Contains(err.Error(), `"a" row 1`) {
		t.Errorf("err = %v, want missing value in a row 1", err)
	}
}
