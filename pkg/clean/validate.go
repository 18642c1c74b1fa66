package clean

import (
	"context"
	"fmt"

	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/processor"
)

type InSet struct {
	Column string
	Values map[string]struct{}
}

func NewInSet(col string, vals []string) *InSet {
	m := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		m[v] = struct{}{}
	}
	return &InSet{Column: col, Values: m}
}

func (t *InSet) Name() string { return "validate_in" }

func (t *InSet) Apply(_ context.Context, f *frame.Frame) (*frame.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return f, nil
	}
	sc, ok := col.(*frame.StringColumn)
	if !ok {
		return f, nil
	}
	var bad int
	for i := 0; i < sc.Len(); i++ {
		if v, ok := sc.Get(i); ok {
			if _, ok := t.Values[v]; !ok {
				bad++
			}
		}
	}
	if bad > 0 {
		return nil, fmt.Errorf("validate_in: column %s has %d values outside allowed set", t.Column, bad)
	}
	return f, nil
}

// Range rejects numeric or time cells outside [Min, Max]. Times compare as
// Unix seconds.
type Range struct {
	Column string   `json:"column"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
}

func (t *Range) Name() string { return "validate_range" }

func (t *Range) Apply(_ context.Context, f *frame.Frame) (*frame.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok || col.Kind() == frame.KindString {
		return f, nil
	}
	vals, valid, err := processor.Floats(col)
	if err != nil {
		return nil, err
	}
	var bad int
	for i, v := range vals {
		if !valid[i] {
			continue
		}
		if (t.Min != nil && v < *t.Min) || (t.Max != nil && v > *t.Max) {
			bad++
		}
	}
	if bad > 0 {
		return nil, fmt.Errorf("validate_range: column %s has %d out-of-range values", t.Column, bad)
	}
	return f, nil
}
