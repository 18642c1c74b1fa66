package clean

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/wdm0006/synthprep/pkg/frame"
)

type Trim struct {
	Column string `json:"column"`
}

func (t *Trim) Name() string { return "trim" }

func (t *Trim) Apply(_ context.Context, f *frame.Frame) (*frame.Frame, error) {
	return f, mapStrings(f, t.Column, strings.TrimSpace)
}

type Lower struct {
	Column string `json:"column"`
}

func (t *Lower) Name() string { return "lower" }

func (t *Lower) Apply(_ context.Context, f *frame.Frame) (*frame.Frame, error) {
	return f, mapStrings(f, t.Column, strings.ToLower)
}

type MapValues struct {
	Column string            `json:"column"`
	Map    map[string]string `json:"map"`
}

func (t *MapValues) Name() string { return "map_values" }

func (t *MapValues) Apply(_ context.Context, f *frame.Frame) (*frame.Frame, error) {
	return f, mapStrings(f, t.Column, func(v string) string {
		if nv, ok := t.Map[v]; ok {
			return nv
		}
		return v
	})
}

type RegexReplace struct {
	Column  string `json:"column"`
	Pattern string `json:"pattern"`
	Replace string `json:"replace"`
	re      *regexp.Regexp
}

func (t *RegexReplace) Name() string { return "regex_replace" }

func (t *RegexReplace) Apply(_ context.Context, f *frame.Frame) (*frame.Frame, error) {
	if t.re == nil {
		re, err := regexp.Compile(t.Pattern)
		if err != nil {
			return nil, fmt.Errorf("regex_replace: %w", err)
		}
		t.re = re
	}
	return f, mapStrings(f, t.Column, func(v string) string {
		return t.re.ReplaceAllString(v, t.Replace)
	})
}
