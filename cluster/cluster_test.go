package cluster

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"featureplots/frame"
)

// blobs returns two well separated groups of points.
func blobs(t *testing.T) frame.DataFrame {
	t.Helper()
	var b strings.Builder
	b.WriteString("a,b,name\n")
	for i := 0; i < 10; i++ {
		d := float64(i%3) * 0.1
		fmt.Fprintf(&b, "%f,%f,p%d\n", d, d, i)
		fmt.Fprintf(&b, "%f,%f,q%d\n", 100+d, 100-d, i)
	}
	df, err := frame.ReadCSV(strings.NewReader(b.String()))
	if err != nil {
		t.Fatal(err)
	}
	return df
}

func TestKMeansSeparatesBlobs(t *testing.T) {
	labels, err := KMeans(blobs(t), []string{"a", "b"}, 2, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(labels) != 20 {
		t.Fatalf("%d labels", len(labels))
	}
	// Rows alternate between the blobs.
	for i := 2; i < len(labels); i++ {
		if labels[i] != labels[i%2] {
			t.Errorf("row %d labelled %s, want %s", i, labels[i], labels[i%2])
		}
	}
	if labels[0] == labels[1] {
		t.Errorf("both blobs labelled %s", labels[0])
	}
}

func TestLabel(t *testing.T) {
	d, err := Label(blobs(t), Column, []string{"a", "b"}, 2, 50)
	if err != nil {
		t.Fatal(err)
	}
	c, err := d.Column(Column)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(frame.UniqueValues(c)); n != 2 {
		t.Errorf("%d distinct labels, want 2", n)
	}
}

func TestKMeansErrors(t *testing.T) {
	d := blobs(t)
	if _, err := KMeans(d, []string{"nope"}, 2, 10); !errors.Is(err, frame.ErrMissingColumn) {
		t.Errorf("missing column: %v", err)
	}
	if _, err := KMeans(d, []string{"name"}, 2, 10); !errors.Is(err, frame.ErrBadValue) {
		t.Errorf("string column: %v", err)
	}
	if _, err := KMeans(d, []string{"a"}, 0, 10); err == nil {
		t.Error("k = 0 accepted")
	}
	if _, err := KMeans(d, []string{"a"}, 21, 10); err == nil {
		t.Error("more clusters than rows accepted")
	}
}

func TestKMeansMissingCell(t *testing.T) {
	d, err := frame.ReadCSV(strings.NewReader("a,b\n1,2\n2,NA\n3,5\n4,4\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := KMeans(d, []string{"a", "b"}, 2, 10); !errors.Is(err, frame.ErrMissingValue) {
		t.Errorf("err = %v, want ErrMissingValue", err)
	}
}
