package clean

import (
	"context"
	"strings"
	"testing"

	"github.com/wdm0006/synthprep/pkg/frame"
)

func stringFrame(vals ...string) *frame.Frame {
	c := frame.NewStringColumn("s", len(vals))
	for i, v := range vals {
		if v != "" {
			c.Set(i, v)
		}
	}
	f, _ := frame.FromColumns(c)
	return f
}

func TestStandardizeSteps(t *testing.T) {
	f := stringFrame("  Foo  ", "BAR", "")
	p := NewPipeline().
		Add(&Trim{Column: "s"}).
		Add(&Lower{Column: "s"}).
		Add(&RegexReplace{Column: "s", Pattern: "o+", Replace: "O"}).
		Add(&MapValues{Column: "s", Map: map[string]string{"bar": "baz"}})
	out, err := p.Run(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	c, _ := out.ColumnByName("s")
	if c.Value(0) != "fO" || c.Value(1) != "baz" || !c.IsNull(2) {
		t.Fatalf("got %v %v %v", c.Value(0), c.Value(1), c.Value(2))
	}
	orig, _ := f.ColumnByName("s")
	if orig.Value(0) != "  Foo  " {
		t.Fatal("run must not modify its input")
	}
}

func TestValidate(t *testing.T) {
	f := stringFrame("a", "b", "")
	if _, err := NewInSet("s", []string{"a", "b"}).Apply(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	if _, err := NewInSet("s", []string{"a"}).Apply(context.Background(), f); err == nil {
		t.Fatal("expected b to be rejected")
	}

	n := frame.NewIntColumn("n", 3)
	n.Set(0, 5)
	n.Set(1, 50)
	g, _ := frame.FromColumns(n)
	lo, hi := 0.0, 10.0
	_, err := (&Range{Column: "n", Min: &lo, Max: &hi}).Apply(context.Background(), g)
	if err == nil || !strings.Contains(err.Error(), "1 out-of-range") {
		t.Fatalf("expected one out-of-range value, got %v", err)
	}
}

func TestBuild(t *testing.T) {
	raw := []any{
		map[string]any{"trim": map[string]any{"column": "s"}},
		map[string]any{"map_values": map[string]any{"column": "s", "map": map[string]any{"a": "x"}}},
		map[string]any{"validate_in": map[string]any{"column": "s", "values": []any{"x", "b"}}},
		map[string]any{"validate_range": map[string]any{"column": "n", "max": 3}},
	}
	p, err := Build(raw)
	if err != nil {
		t.Fatal(err)
	}
	if p.Len() != 4 {
		t.Fatalf("expected 4 steps, got %d", p.Len())
	}
	out, err := p.Run(context.Background(), stringFrame(" a", "b"))
	if err != nil {
		t.Fatal(err)
	}
	c, _ := out.ColumnByName("s")
	if c.Value(0) != "x" {
		t.Fatalf("got %v", c.Value(0))
	}

	for _, bad := range [][]any{
		{map[string]any{"explode": map[string]any{}}},
		{map[string]any{"trim": nil, "lower": nil}},
		{"trim"},
	} {
		if _, err := Build(bad); err == nil {
			t.Fatalf("expected %v to be rejected", bad)
		}
	}
}

func BenchmarkPipeline(b *testing.B) {
	vals := make([]string, 100000)
	for i := range vals {
		vals[i] = " Alpha "
	}
	f := stringFrame(vals...)
	p := NewPipeline().Add(&Trim{Column: "s"}).Add(&Lower{Column: "s"})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = p.Run(context.Background(), f)
	}
}
