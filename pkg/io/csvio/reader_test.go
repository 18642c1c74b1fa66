package csvio

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wdm0006/synthprep/pkg/frame"
)

const sample = "\ufeffid,score,ok,when,label\n" +
	"1,2.5,true,2024-01-02,a\n" +
	"2,,false,2024-01-03 10:00:00,b\n" +
	"3,4,,,\n"

func TestInferAndRead(t *testing.T) {
	r := NewReaderFrom(strings.NewReader(sample), ReaderOptions{HasHeader: true})
	schema, err := r.InferSchema()
	if err != nil {
		t.Fatal(err)
	}
	want := []frame.Kind{frame.KindInt, frame.KindFloat, frame.KindBool, frame.KindTime, frame.KindString}
	for i, cs := range schema.Columns {
		if cs.Type != want[i] {
			t.Fatalf("%s: got %v want %v", cs.Name, cs.Type, want[i])
		}
	}
	if schema.Columns[0].Name != "id" {
		t.Fatalf("byte order mark not stripped: %q", schema.Columns[0].Name)
	}
	f, err := r.ReadAll(schema)
	if err != nil {
		t.Fatal(err)
	}
	if f.Rows() != 3 {
		t.Fatalf("expected 3 rows, got %d", f.Rows())
	}
	score, _ := f.ColumnByName("score")
	if !score.IsNull(1) || score.Value(2) != 4.0 {
		t.Fatalf("score column: %v %v", score.Value(1), score.Value(2))
	}
	when, _ := f.ColumnByName("when")
	if got := when.Value(1).(time.Time); got.Hour() != 10 {
		t.Fatalf("time parsed as %v", got)
	}
}

func TestReadAllWithDeclaredSchema(t *testing.T) {
	schema := frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "label", Type: frame.KindString, Nullable: true},
		{Name: "id", Type: frame.KindFloat, Nullable: true},
	}}
	r := NewReaderFrom(strings.NewReader(sample), ReaderOptions{HasHeader: true})
	f, err := r.ReadAll(schema)
	if err != nil {
		t.Fatal(err)
	}
	if names := f.Names(); names[0] != "label" || f.Rows() != 3 {
		t.Fatalf("got %v with %d rows", names, f.Rows())
	}
	id, _ := f.ColumnByName("id")
	if id.Value(2) != 3.0 {
		t.Fatalf("id parsed as %v", id.Value(2))
	}

	missing := frame.Schema{Columns: []frame.ColumnSchema{{Name: "nope", Type: frame.KindString}}}
	if _, err := NewReaderFrom(strings.NewReader(sample), ReaderOptions{HasHeader: true}).ReadAll(missing); err == nil {
		t.Fatal("expected an error for a column absent from the header")
	}
}

func TestStrictRejectsBadCells(t *testing.T) {
	schema := frame.Schema{Columns: []frame.ColumnSchema{{Name: "n", Type: frame.KindInt}}}
	r := NewReaderFrom(strings.NewReader("n\n1\nx\n"), ReaderOptions{HasHeader: true, Delimiter: ','})
	f, err := r.ReadAll(schema)
	if err != nil {
		t.Fatal(err)
	}
	if f.Rows() != 2 || r.Warnings() != "bad_cells=1" {
		t.Fatalf("rows=%d warnings=%q", f.Rows(), r.Warnings())
	}
	r = NewReaderFrom(strings.NewReader("n\n1\nx\n"), ReaderOptions{HasHeader: true, Delimiter: ',', Strict: true})
	if _, err := r.ReadAll(schema); err == nil {
		t.Fatal("strict mode must fail on an unparsable cell")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	src := NewReaderFrom(strings.NewReader(sample), ReaderOptions{HasHeader: true})
	schema, _ := src.InferSchema()
	f, _ := src.ReadAll(schema)

	path := filepath.Join(t.TempDir(), "out.tsv.gz")
	if err := WriteAll(path, f, WriterOptions{Delimiter: '\t'}); err != nil {
		t.Fatal(err)
	}
	r, err := Open(path, ReaderOptions{HasHeader: true})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = r.Close() }()
	back, err := r.ReadAll(schema)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range f.Names() {
		a, _ := f.ColumnByName(name)
		b, _ := back.ColumnByName(name)
		for i := 0; i < f.Rows(); i++ {
			if frame.FormatCell(a, i) != frame.FormatCell(b, i) {
				t.Fatalf("%s row %d: %q vs %q", name, i, frame.FormatCell(a, i), frame.FormatCell(b, i))
			}
		}
	}
}
