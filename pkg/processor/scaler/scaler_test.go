package scaler

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/processor"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestStandard(t *testing.T) {
	c := frame.NewIntColumn("n", 5)
	for i, v := range []int64{2, 4, 4, 6} {
		c.Set(i, v)
	}
	s := NewStandard()
	if _, err := s.Transform(c); !errors.Is(err, processor.ErrUnfitted) {
		t.Fatalf("expected unfitted error, got %v", err)
	}
	_ = s.Fit(c)
	shift, scale := s.Params()
	// mean 4, population variance 2
	if !near(shift, 4) || !near(scale, math.Sqrt2) {
		t.Fatalf("params = %v, %v", shift, scale)
	}
	out, err := s.Transform(c)
	if err != nil {
		t.Fatal(err)
	}
	if out.Kind() != frame.KindFloat || !near(out.Value(3).(float64), math.Sqrt2) {
		t.Fatalf("unexpected scaled value %v", out.Value(3))
	}
	back, err := s.InverseTransform(out)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < c.Len(); i++ {
		if back.Value(i) != c.Value(i) {
			t.Fatalf("row %d: got %v want %v", i, back.Value(i), c.Value(i))
		}
	}
}

func TestStandardConstantColumn(t *testing.T) {
	c := frame.NewFloatColumn("x", 3)
	for i := 0; i < 3; i++ {
		c.Set(i, 7)
	}
	s := NewStandard()
	_ = s.Fit(c)
	if _, scale := s.Params(); scale != 1 {
		t.Fatalf("zero std must scale by 1, got %v", scale)
	}
	out, _ := s.Transform(c)
	if out.Value(0) != 0.0 {
		t.Fatalf("got %v", out.Value(0))
	}
}

func TestMinMax(t *testing.T) {
	c := frame.NewFloatColumn("x", 3)
	c.Set(0, -2)
	c.Set(1, 0)
	c.Set(2, 6)
	m := NewMinMax()
	_ = m.Fit(c)
	out, _ := m.Transform(c)
	want := []float64{0, 0.25, 1}
	for i, w := range want {
		if !near(out.Value(i).(float64), w) {
			t.Fatalf("row %d: got %v want %v", i, out.Value(i), w)
		}
	}
}

func TestZeroCenterTime(t *testing.T) {
	c := frame.NewTimeColumn("ts", 2)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.Set(0, t0)
	c.Set(1, t0.Add(48*time.Hour))
	z := NewZeroCenter()
	_ = z.Fit(c)
	out, _ := z.Transform(c)
	if !near(out.Value(0).(float64), -86400) {
		t.Fatalf("got %v", out.Value(0))
	}
	back, err := z.InverseTransform(out)
	if err != nil {
		t.Fatal(err)
	}
	if back.Kind() != frame.KindTime || !back.Value(1).(time.Time).Equal(t0.Add(48*time.Hour)) {
		t.Fatalf("time not restored: %v", back.Value(1))
	}
}
