package profile

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/metadata"
)

func sample() *frame.Frame {
	x := frame.NewFloatColumn("x", 4)
	x.Set(0, 1)
	x.Set(1, 3)
	x.Set(3, 3)
	s := frame.NewStringColumn("s", 4)
	s.Set(0, "a")
	s.Set(1, "b")
	s.Set(2, "b")
	s.Set(3, "b")
	f, _ := frame.FromColumns(x, s)
	return f
}

func TestCollector(t *testing.T) {
	c := NewCollector(sample().Schema(), 1)
	c.ConsumeFrame(sample())
	p := c.Profiles()
	if p[0].Nulls != 1 || p[0].Distinct != 2 {
		t.Fatalf("x: nulls=%d distinct=%d", p[0].Nulls, p[0].Distinct)
	}
	if math.Abs(p[0].Num.Mean-7.0/3) > 1e-12 || p[0].Num.Min != 1 || p[0].Num.Max != 3 {
		t.Fatalf("x stats: %+v", *p[0].Num)
	}
	if len(p[1].Top) != 1 || p[1].Top[0] != (Freq{"b", 3}) {
		t.Fatalf("s top: %v", p[1].Top)
	}
	if c.RowNullShare() != 0.25 {
		t.Fatalf("row null share: %v", c.RowNullShare())
	}
	var buf bytes.Buffer
	c.Report(&buf, "sample")
	if !strings.Contains(buf.String(), "0.250") {
		t.Fatalf("report lacks the null share:\n%s", buf.String())
	}
}

func TestDescribe(t *testing.T) {
	md, err := Describe(sample())
	if err != nil {
		t.Fatal(err)
	}
	x, _ := md.Column("x")
	if x.DType != "float64" || x.NAPercentage != 0.25 || x.InferredType() != metadata.Numerical {
		t.Fatalf("x: %+v", x)
	}
	s, _ := md.Column("s")
	if s.InferredType() != metadata.Object || s.NAPercentage != 0 {
		t.Fatalf("s: %+v", s)
	}
	if md.GlobalNA() != 0.25 {
		t.Fatalf("global: %v", md.GlobalNA())
	}
}

func TestFiles(t *testing.T) {
	load := func(_ context.Context, path string) (*frame.Frame, error) {
		if path == "bad" {
			return nil, errors.New("boom")
		}
		return sample(), nil
	}
	cs, err := Files(context.Background(), []string{"a", "b", "c"}, load, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range cs {
		if c.Rows() != 4 {
			t.Fatalf("file %d: %d rows", i, c.Rows())
		}
	}
	if _, err := Files(context.Background(), []string{"a", "bad"}, load, 0, 0); err == nil {
		t.Fatal("expected the loader error")
	}
}
