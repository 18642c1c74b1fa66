package outlier

import (
	"errors"
	"testing"

	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/processor"
)

func spike() *frame.FloatColumn {
	c := frame.NewFloatColumn("x", 22)
	for i := 0; i < 20; i++ {
		c.Set(i, 0)
	}
	c.Set(20, 100)
	// row 21 stays null
	return c
}

func TestZScore(t *testing.T) {
	c := spike()
	z := NewZScore()
	if _, err := z.Eliminate(c); !errors.Is(err, processor.ErrUnfitted) {
		t.Fatalf("expected unfitted error, got %v", err)
	}
	if err := z.Fit(c); err != nil {
		t.Fatal(err)
	}
	res, err := z.Eliminate(c)
	if err != nil {
		t.Fatal(err)
	}
	for i, m := range res.Mask {
		if m != (i == 20) {
			t.Fatalf("mask[%d] = %v", i, m)
		}
	}
	out, _ := z.Transform(c)
	if out.Value(20) != 100.0 {
		t.Fatal("zscore transform must leave values alone")
	}
}

func TestIQR(t *testing.T) {
	c := frame.NewIntColumn("n", 11)
	for i := 0; i < 10; i++ {
		c.Set(i, int64(i+1))
	}
	c.Set(10, 100)
	q := NewIQR()
	_ = q.Fit(c)
	res, err := q.Eliminate(c)
	if err != nil {
		t.Fatal(err)
	}
	for i, m := range res.Mask {
		if m != (i == 10) {
			t.Fatalf("mask[%d] = %v", i, m)
		}
	}
	if res.Original.Value(10) != int64(100) {
		t.Fatal("original column must be kept")
	}
}

func TestIQRRejectsStrings(t *testing.T) {
	s := frame.NewStringColumn("s", 1)
	s.Set(0, "a")
	if err := NewIQR().Fit(s); !errors.Is(err, processor.ErrTypeMismatch) {
		t.Fatalf("expected type mismatch, got %v", err)
	}
}

func TestCapExplicitBounds(t *testing.T) {
	c := frame.NewIntColumn("n", 4)
	c.Set(0, -5)
	c.Set(1, 3)
	c.Set(2, 12)
	lo, hi := 0.0, 10.0
	cp := NewCap()
	cp.Min, cp.Max = &lo, &hi
	_ = cp.Fit(c)
	out, err := cp.Transform(c)
	if err != nil {
		t.Fatal(err)
	}
	want := []any{int64(0), int64(3), int64(10), nil}
	for i, w := range want {
		if out.Value(i) != w {
			t.Fatalf("row %d: got %v want %v", i, out.Value(i), w)
		}
	}
}

func TestCapFittedFences(t *testing.T) {
	c := spike()
	cp := NewCap()
	_ = cp.Fit(c)
	out, _ := cp.Transform(c)
	if v := out.Value(20).(float64); v >= 100 {
		t.Fatalf("spike was not clipped: %v", v)
	}
}

func TestMahalanobis(t *testing.T) {
	x := frame.NewFloatColumn("x", 52)
	y := frame.NewFloatColumn("y", 52)
	label := frame.NewStringColumn("label", 52)
	for i := 0; i < 50; i++ {
		x.Set(i, float64(i))
		y.Set(i, float64(i)+float64(i%3-1)*0.5)
		label.Set(i, "a")
	}
	x.Set(50, 25)
	y.Set(50, -25)
	y.Set(51, 10)
	f, err := frame.FromColumns(x, y, label)
	if err != nil {
		t.Fatal(err)
	}
	m := NewMahalanobis()
	if !m.IsGlobal() {
		t.Fatal("mahalanobis must be global")
	}
	cols := []string{"x", "y", "label"}
	if err := m.FitJoint(f, cols); err != nil {
		t.Fatal(err)
	}
	mask, err := m.EliminateJoint(f, cols)
	if err != nil {
		t.Fatal(err)
	}
	flagged := 0
	for _, v := range mask {
		if v {
			flagged++
		}
	}
	if !mask[50] || flagged != 1 {
		t.Fatalf("expected only row 50 flagged, got %d flagged (row 50: %v)", flagged, mask[50])
	}
	if mask[51] {
		t.Fatal("rows with nulls must not be flagged")
	}
}

func TestMahalanobisUnknownColumn(t *testing.T) {
	f, _ := frame.FromColumns(frame.NewFloatColumn("x", 3))
	if err := NewMahalanobis().FitJoint(f, []string{"nope"}); !errors.Is(err, processor.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
