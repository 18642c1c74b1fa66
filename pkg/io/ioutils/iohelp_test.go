package ioutils

import (
	"io"
	"path/filepath"
	"testing"
)

func TestCompressedRoundTrip(t *testing.T) {
	for _, ext := range []string{".csv", ".csv.gz", ".csv.zst"} {
		path := filepath.Join(t.TempDir(), "data"+ext)
		w, err := CreateMaybeCompressed(path)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.WriteString(w, "a,b\n1,2\n"); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
		r, err := OpenMaybeCompressed(path)
		if err != nil {
			t.Fatal(err)
		}
		b, err := io.ReadAll(r)
		_ = r.Close()
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != "a,b\n1,2\n" {
			t.Fatalf("%s: got %q", ext, b)
		}
	}
}

func TestFormat(t *testing.T) {
	cases := map[string]string{
		"x.csv":         "csv",
		"x.CSV.gz":      "csv",
		"x.tsv.zst":     "tsv",
		"x.ndjson":      "jsonl",
		"dir/x.parquet": "parquet",
	}
	for path, want := range cases {
		got, err := Format(path)
		if err != nil || got != want {
			t.Fatalf("%s: got %q, %v", path, got, err)
		}
	}
	if _, err := Format("x.xlsx"); err == nil {
		t.Fatal("expected an error for an unknown extension")
	}
}
