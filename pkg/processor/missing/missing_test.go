package missing

import (
	"errors"
	"testing"

	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/processor"
)

func makeFloatColumn() *frame.FloatColumn {
	c := frame.NewFloatColumn("x", 5)
	c.Set(0, 1.0)
	c.Set(2, 3.0)
	c.Set(3, 8.0)
	// rows 1,4 remain null
	return c
}

func TestMean(t *testing.T) {
	c := makeFloatColumn()
	tform := NewMean()
	if err := tform.Fit(c); err != nil {
		t.Fatal(err)
	}
	out, err := tform.Transform(c)
	if err != nil {
		t.Fatal(err)
	}
	if out.NullCount() != 0 {
		t.Fatalf("mean imputer left %d nulls", out.NullCount())
	}
	if v := out.Value(1); v != 4.0 {
		t.Fatalf("expected mean 4, got %v", v)
	}
	if !c.IsNull(1) {
		t.Fatal("transform must not mutate its input")
	}
}

func TestMeanRoundsIntColumns(t *testing.T) {
	c := frame.NewIntColumn("n", 3)
	c.Set(0, 1)
	c.Set(1, 2)
	tform := NewMean()
	_ = tform.Fit(c)
	out, err := tform.Transform(c)
	if err != nil {
		t.Fatal(err)
	}
	if v := out.Value(2); v != int64(2) {
		t.Fatalf("expected rounded mean 2, got %v", v)
	}
}

func TestMedian(t *testing.T) {
	c := makeFloatColumn()
	tform := NewMedian()
	_ = tform.Fit(c)
	out, err := tform.Transform(c)
	if err != nil {
		t.Fatal(err)
	}
	if v := out.Value(4); v != 3.0 {
		t.Fatalf("expected median 3, got %v", v)
	}
}

func TestMedianEvenCount(t *testing.T) {
	c := frame.NewFloatColumn("x", 5)
	for i, v := range []float64{8, 1, 3, 4} {
		c.Set(i, v)
	}
	tform := NewMedian()
	_ = tform.Fit(c)
	out, err := tform.Transform(c)
	if err != nil {
		t.Fatal(err)
	}
	if v := out.Value(4); v != 3.5 {
		t.Fatalf("expected median 3.5, got %v", v)
	}
}

func TestModeOnStrings(t *testing.T) {
	c := frame.NewStringColumn("s", 4)
	c.Set(0, "a")
	c.Set(1, "b")
	c.Set(2, "b")
	tform := NewMode()
	_ = tform.Fit(c)
	out, err := tform.Transform(c)
	if err != nil {
		t.Fatal(err)
	}
	if v := out.Value(3); v != "b" {
		t.Fatalf("expected mode b, got %v", v)
	}
}

func TestSimple(t *testing.T) {
	c := frame.NewIntColumn("n", 2)
	c.Set(0, 5)
	tform := NewSimple(7)
	_ = tform.Fit(c)
	out, err := tform.Transform(c)
	if err != nil {
		t.Fatal(err)
	}
	if v := out.Value(1); v != int64(7) {
		t.Fatalf("expected 7, got %v", v)
	}
	s := frame.NewStringColumn("s", 1)
	if _, err := NewSimple(0.0).Transform(s); !errors.Is(err, processor.ErrUnfitted) {
		t.Fatalf("expected unfitted error, got %v", err)
	}
	bad := NewSimple(0.0)
	_ = bad.Fit(s)
	if _, err := bad.Transform(s); !errors.Is(err, processor.ErrTypeMismatch) {
		t.Fatalf("expected type mismatch, got %v", err)
	}
}

func TestDropEliminate(t *testing.T) {
	c := makeFloatColumn()
	d := NewDrop()
	if _, err := d.Eliminate(c); !errors.Is(err, processor.ErrUnfitted) {
		t.Fatalf("expected unfitted error, got %v", err)
	}
	_ = d.Fit(c)
	res, err := d.Eliminate(c)
	if err != nil {
		t.Fatal(err)
	}
	want := []bool{false, true, false, false, true}
	for i := range want {
		if res.Mask[i] != want[i] {
			t.Fatalf("mask[%d] = %v, want %v", i, res.Mask[i], want[i])
		}
	}
	if res.Original.Value(3) != 8.0 {
		t.Fatal("original values must be preserved")
	}
}

func TestSetNAPercentageRange(t *testing.T) {
	m := NewMean()
	for _, p := range []float64{-0.1, 1.5} {
		if err := m.SetNAPercentage(p); !errors.Is(err, processor.ErrConfiguration) {
			t.Fatalf("%v: expected configuration error, got %v", p, err)
		}
	}
	if err := m.SetNAPercentage(1); err != nil {
		t.Fatal(err)
	}
}

func TestInverseTransformInsertsExactCount(t *testing.T) {
	c := frame.NewFloatColumn("x", 100)
	for i := 0; i < 100; i++ {
		c.Set(i, float64(i))
	}
	m := NewMean()
	m.Seed(11)
	_ = m.Fit(c)
	index := make([]int, 20)
	for i := range index {
		index[i] = i * 5
	}
	m.SetImputationIndex(index)
	if err := m.SetNAPercentage(0.5); err != nil {
		t.Fatal(err)
	}
	out, err := m.InverseTransform(c)
	if err != nil {
		t.Fatal(err)
	}
	if out.NullCount() != 10 {
		t.Fatalf("expected 10 nulls, got %d", out.NullCount())
	}
	for i := 0; i < out.Len(); i++ {
		if out.IsNull(i) && i%5 != 0 {
			t.Fatalf("null inserted outside the imputation index at %d", i)
		}
	}
	if c.NullCount() != 0 {
		t.Fatal("inverse must not mutate its input")
	}
}

func TestInverseTransformNoop(t *testing.T) {
	c := makeFloatColumn()
	m := NewMedian()
	if _, err := m.InverseTransform(c); !errors.Is(err, processor.ErrUnfitted) {
		t.Fatalf("expected unfitted error, got %v", err)
	}
	_ = m.Fit(c)
	m.SetImputationIndex([]int{0, 2})
	out, err := m.InverseTransform(c)
	if err != nil {
		t.Fatal(err)
	}
	if out.NullCount() != c.NullCount() {
		t.Fatal("zero na percentage must leave the column unchanged")
	}
}

func TestInverseTransformIsSeeded(t *testing.T) {
	c := frame.NewFloatColumn("x", 50)
	for i := 0; i < 50; i++ {
		c.Set(i, 1)
	}
	run := func() []bool {
		m := NewDrop()
		m.Seed(3)
		_ = m.Fit(c)
		idx := make([]int, 50)
		for i := range idx {
			idx[i] = i
		}
		m.SetImputationIndex(idx)
		_ = m.SetNAPercentage(0.3)
		out, _ := m.InverseTransform(c)
		nulls := make([]bool, out.Len())
		for i := range nulls {
			nulls[i] = out.IsNull(i)
		}
		return nulls
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("same seed must give the same null pattern")
		}
	}
}
