package dataset

import (
	"path/filepath"
	"testing"

	"github.com/wdm0006/synthprep/pkg/frame"
)

func sampleFrame() *frame.Frame {
	f := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "n", Type: frame.KindInt, Nullable: true},
		{Name: "s", Type: frame.KindString, Nullable: true},
	}})
	for i, s := range []string{"a", "", "c"} {
		f.AppendNullRow()
		_ = f.SetCell(i, "n", int64(i))
		if s != "" {
			_ = f.SetCell(i, "s", s)
		}
	}
	return f
}

func TestWriteReadEachFormat(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"x.csv", "x.tsv.gz", "x.jsonl", "x.parquet"} {
		path := filepath.Join(dir, name)
		f := sampleFrame()
		if err := Write(path, f, Options{}); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		g, err := Read(path, f.Schema(), Options{})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if g.Rows() != 3 {
			t.Fatalf("%s: got %d rows", name, g.Rows())
		}
		s, _ := g.ColumnByName("s")
		if !s.IsNull(1) || s.Value(2) != "c" {
			t.Fatalf("%s: s column = %v %v", name, s.Value(1), s.Value(2))
		}
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, err := Read("x.xlsx", frame.Schema{}, Options{}); err == nil {
		t.Fatal("expected an error for an unknown extension")
	}
	if err := Write("x.csv", sampleFrame(), Options{Format: "avro"}); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}
