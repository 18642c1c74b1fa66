package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestSetupJSON(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	l := Setup(&buf, "warn", "json")
	l.Info("hidden")
	l.Warn("shown", "run_id", "abc")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line passed a warn level: %s", out)
	}
	if !strings.Contains(out, `"run_id":"abc"`) {
		t.Fatalf("expected a JSON attribute, got %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("%q: got %v want %v", in, got, want)
		}
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected a fallback logger")
	}
	l := slog.New(slog.DiscardHandler).With("k", "v")
	if FromContext(NewContext(context.Background(), l)) != l {
		t.Fatal("expected the stored logger")
	}
}
