// Package clean applies column cleaning and validation steps to a frame
// before it is preprocessed.
package clean

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/wdm0006/synthprep/pkg/frame"
)

// Step is a mutation or validation applied to a frame.
type Step interface {
	Name() string
	Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error)
}

// Pipeline composes a sequence of steps.
type Pipeline struct {
	steps []Step
}

func NewPipeline() *Pipeline { return &Pipeline{} }

func (p *Pipeline) Add(s Step) *Pipeline {
	p.steps = append(p.steps, s)
	return p
}

func (p *Pipeline) Len() int { return len(p.steps) }

// Run applies the steps in order. The input frame is not modified.
func (p *Pipeline) Run(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	if len(p.steps) == 0 {
		return f, nil
	}
	cur := f.Clone()
	for _, s := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var err error
		if cur, err = s.Apply(ctx, cur); err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// Build creates a pipeline from a list of single-key mappings, the key
// naming the step:
//
//   - trim: {column: name}
//   - regex_replace: {column: name, pattern: "o+", replace: "0"}
//   - validate_range: {column: age, min: 0, max: 120}
func Build(raw []any) (*Pipeline, error) {
	p := NewPipeline()
	for i, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok || len(m) != 1 {
			return nil, fmt.Errorf("clean step %d: expected a mapping with a single key", i)
		}
		for name, args := range m {
			s, err := newStep(name, args)
			if err != nil {
				return nil, fmt.Errorf("clean step %d (%s): %w", i, name, err)
			}
			p.Add(s)
		}
	}
	return p, nil
}

func newStep(name string, args any) (Step, error) {
	b, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	var s Step
	switch name {
	case "trim":
		s = &Trim{}
	case "lower":
		s = &Lower{}
	case "regex_replace":
		s = &RegexReplace{}
	case "map_values":
		s = &MapValues{}
	case "validate_in":
		var v struct {
			Column string   `json:"column"`
			Values []string `json:"values"`
		}
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, err
		}
		return NewInSet(v.Column, v.Values), nil
	case "validate_range":
		s = &Range{}
	default:
		return nil, fmt.Errorf("unknown step; known steps are %v", knownSteps)
	}
	if err := json.Unmarshal(b, s); err != nil {
		return nil, err
	}
	return s, nil
}

var knownSteps = []string{"lower", "map_values", "regex_replace", "trim", "validate_in", "validate_range"}

// mapStrings applies fn to every non-null cell of a string column. Missing
// columns and other kinds are left alone.
func mapStrings(f *frame.Frame, column string, fn func(string) string) error {
	col, ok := f.ColumnByName(column)
	if !ok {
		return nil
	}
	c, ok := col.(*frame.StringColumn)
	if !ok {
		return nil
	}
	for i := 0; i < c.Len(); i++ {
		if v, ok := c.Get(i); ok {
			c.Set(i, fn(v))
		}
	}
	return nil
}
