package prep

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/wdm0006/synthprep/pkg/metadata"
	"github.com/wdm0006/synthprep/pkg/processor"
	"github.com/wdm0006/synthprep/pkg/processor/encoder"
	"github.com/wdm0006/synthprep/pkg/processor/missing"
	"github.com/wdm0006/synthprep/pkg/processor/scaler"
)

func testMetadata(t *testing.T) *metadata.Metadata {
	t.Helper()
	md, err := metadata.New([]metadata.Column{
		{Name: "age", DType: "int64", NAPercentage: 0.1},
		{Name: "city", DType: "category"},
		{Name: "joined", DType: "datetime64[ns]"},
		{Name: "note", DType: "object"},
	}, 0.2)
	if err != nil {
		t.Fatal(err)
	}
	return md
}

func method(p processor.Processor) string {
	if p == nil {
		return NoMethod
	}
	return p.Method()
}

func TestDefaultConfig(t *testing.T) {
	o, err := New(testMetadata(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	cfg, _ := o.Config()
	want := map[string][4]string{
		"age":    {"mean", "iqr", "", "standard"},
		"city":   {"drop", "", "uniform", ""},
		"joined": {"drop", "iqr", "", "standard"},
		"note":   {"drop", "", "uniform", ""},
	}
	for col, methods := range want {
		for i, stage := range processor.Stages {
			if got := method(cfg[stage][col]); got != methods[i] {
				t.Errorf("%s/%s: got %q want %q", stage, col, got, methods[i])
			}
		}
	}
	if cfg[processor.Missing]["city"] == cfg[processor.Missing]["note"] {
		t.Fatal("default processors must be distinct instances")
	}
}

func TestSetConfigReplaces(t *testing.T) {
	o, _ := New(testMetadata(t), nil)
	p := missing.NewMedian()
	if err := o.SetConfig(StageConfig{processor.Missing: {"age": p}}); err != nil {
		t.Fatal(err)
	}
	cfg, _ := o.Config()
	if cfg[processor.Missing]["age"] != p {
		t.Fatal("set processor not returned by reference")
	}
	for _, stage := range processor.Stages {
		for _, col := range []string{"city", "joined", "note"} {
			if cfg[stage][col] != nil {
				t.Fatalf("%s/%s must be cleared by SetConfig", stage, col)
			}
		}
	}
	if cfg[processor.Scaler]["age"] != nil {
		t.Fatal("stages absent from SetConfig must be cleared")
	}
}

func TestUpdateConfigMerges(t *testing.T) {
	o, _ := New(testMetadata(t), nil)
	before, _ := o.Config()
	p := scaler.NewMinMax()
	if err := o.UpdateConfig(StageConfig{processor.Scaler: {"joined": p}}); err != nil {
		t.Fatal(err)
	}
	after, _ := o.Config()
	if after[processor.Scaler]["joined"] != p {
		t.Fatal("updated slot does not hold the given processor")
	}
	for _, stage := range processor.Stages {
		for col, prev := range before[stage] {
			if stage == processor.Scaler && col == "joined" {
				continue
			}
			if after[stage][col] != prev {
				t.Fatalf("%s/%s changed by UpdateConfig", stage, col)
			}
		}
	}
}

func TestConfigValidation(t *testing.T) {
	o, _ := New(testMetadata(t), nil)
	shared := missing.NewMean()
	bad := map[string]StageConfig{
		"unknown column": {processor.Missing: {"height": missing.NewMean()}},
		"unknown stage":  {"normalizer": {"age": missing.NewMean()}},
		"wrong stage":    {processor.Scaler: {"age": missing.NewMean()}},
		"aliased":        {processor.Missing: {"age": shared, "note": shared}},
	}
	for name, cfg := range bad {
		if err := o.SetConfig(cfg); !errors.Is(err, processor.ErrConfiguration) {
			t.Errorf("SetConfig %s: expected configuration error, got %v", name, err)
		}
		if err := o.UpdateConfig(cfg); !errors.Is(err, processor.ErrConfiguration) {
			t.Errorf("UpdateConfig %s: expected configuration error, got %v", name, err)
		}
	}
	cfg, _ := o.Config()
	existing := cfg[processor.Encoder]["city"]
	if err := o.UpdateConfig(StageConfig{processor.Encoder: {"note": existing}}); !errors.Is(err, processor.ErrConfiguration) {
		t.Fatalf("reusing a configured instance must fail, got %v", err)
	}
	if _, err := o.Config("height"); !errors.Is(err, processor.ErrConfiguration) {
		t.Fatalf("unknown column filter: %v", err)
	}
}

func TestConfigFilter(t *testing.T) {
	o, _ := New(testMetadata(t), nil)
	cfg, err := o.Config("city")
	if err != nil {
		t.Fatal(err)
	}
	for _, stage := range processor.Stages {
		if len(cfg[stage]) != 1 {
			t.Fatalf("%s: got %d columns", stage, len(cfg[stage]))
		}
	}
	if _, ok := cfg[processor.Encoder]["city"].(*encoder.Uniform); !ok {
		t.Fatalf("city encoder is %T", cfg[processor.Encoder]["city"])
	}
}

func TestNewFromRaw(t *testing.T) {
	raw := map[string]any{
		"missingist": []any{
			map[string]any{"method": "missingist_median", "include": "age"},
			map[string]any{"method": "mode", "include": []any{"city", "note"}},
		},
		"scaler": nil,
	}
	o, err := NewFromRaw(testMetadata(t), raw)
	if err != nil {
		t.Fatal(err)
	}
	cfg, _ := o.Config()
	if method(cfg[processor.Missing]["age"]) != "median" || method(cfg[processor.Missing]["city"]) != "mode" {
		t.Fatalf("missingist not resolved: %v", cfg[processor.Missing])
	}
	if cfg[processor.Missing]["joined"] != nil {
		t.Fatal("unassigned column in a configured stage must be nil")
	}
	if cfg[processor.Scaler]["age"] != nil {
		t.Fatal("a nil stage must clear every column")
	}
	if method(cfg[processor.Encoder]["city"]) != "uniform" {
		t.Fatal("stages absent from raw keep their defaults")
	}

	for name, raw := range map[string]map[string]any{
		"unknown stage":  {"normalizer": map[string]any{"method": "x", "all": true}},
		"unknown method": {"scaler": map[string]any{"method": "robust", "all": true}},
	} {
		if _, err := NewFromRaw(testMetadata(t), raw); !errors.Is(err, processor.ErrConfiguration) {
			t.Errorf("%s: expected configuration error, got %v", name, err)
		}
	}
}

func TestPrintConfig(t *testing.T) {
	o, _ := New(testMetadata(t), nil)
	var buf bytes.Buffer
	if err := o.PrintConfig(&buf, "age", "city"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"age", "city", "mean", "standard", "uniform"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "joined") {
		t.Fatal("unselected column printed")
	}
}
