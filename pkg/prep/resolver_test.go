package prep

import (
	"errors"
	"testing"

	"github.com/wdm0006/synthprep/pkg/processor"
)

var cols = []string{"a", "b", "c"}

func TestResolveNil(t *testing.T) {
	got, err := Resolve(processor.Missing, cols, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range cols {
		if m, ok := got[c]; !ok || m != NoMethod {
			t.Fatalf("%s: got %q present=%v", c, m, ok)
		}
	}
}

func TestResolveAll(t *testing.T) {
	got, err := Resolve(processor.Scaler, cols, map[string]any{"method": "minmax", "all": true})
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range cols {
		if got[c] != "minmax" {
			t.Fatalf("%s: got %q", c, got[c])
		}
	}
}

func TestResolveIncludeExclude(t *testing.T) {
	got, err := Resolve(processor.Missing, cols, map[string]any{"method": "drop", "include": []any{"a", "b"}})
	if err != nil {
		t.Fatal(err)
	}
	if got["a"] != "drop" || got["b"] != "drop" || got["c"] != NoMethod {
		t.Fatalf("include: %v", got)
	}
	got, err = Resolve(processor.Missing, cols, map[string]any{"method": "mean", "excl": "a"})
	if err != nil {
		t.Fatal(err)
	}
	if got["a"] != NoMethod || got["b"] != "mean" || got["c"] != "mean" {
		t.Fatalf("exclude: %v", got)
	}
	got, err = Resolve(processor.Missing, cols, map[string]any{"method": "median", "incl": "c"})
	if err != nil || got["c"] != "median" {
		t.Fatalf("incl alias: %v %v", got, err)
	}
}

func TestResolveErrors(t *testing.T) {
	bad := map[string]any{
		"include and exclude":       map[string]any{"method": "mean", "include": "a", "exclude": "b"},
		"include and empty exclude": map[string]any{"method": "mean", "include": "a", "excl": []any{}},
		"unknown column":            map[string]any{"method": "mean", "include": []any{"a", "zz"}},
		"missing method":            map[string]any{"all": true},
		"non-string method":         map[string]any{"method": 3, "all": true},
		"no selector":               map[string]any{"method": "mean"},
		"non-bool all":              map[string]any{"method": "mean", "all": "yes"},
		"unknown key":               map[string]any{"method": "mean", "all": true, "columns": "a"},
		"duplicate assignment":      []any{map[string]any{"method": "mean", "include": "a"}, map[string]any{"method": "median", "include": []any{"a"}}},
		"scalar config":             "mean",
		"non-mapping entry":         []any{"mean"},
	}
	for name, raw := range bad {
		if _, err := Resolve(processor.Missing, cols, raw); !errors.Is(err, processor.ErrConfiguration) {
			t.Errorf("%s: expected configuration error, got %v", name, err)
		}
	}
}

func TestResolveList(t *testing.T) {
	raw := []any{
		map[string]any{"method": "mean", "include": "a"},
		map[string]any{"method": "drop", "exclude": []string{"a", "b"}},
	}
	got, err := Resolve(processor.Missing, cols, raw)
	if err != nil {
		t.Fatal(err)
	}
	if got["a"] != "mean" || got["b"] != NoMethod || got["c"] != "drop" {
		t.Fatalf("got %v", got)
	}
	if len(cols) != 3 || cols[0] != "a" {
		t.Fatal("known columns must not be modified")
	}
}
