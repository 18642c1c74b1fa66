package missing

import (
	"fmt"

	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/processor"
)

// Simple fills nulls with a fixed value, coerced per column kind.
type Simple struct {
	base
	Value any
}

func NewSimple(value any) *Simple { return &Simple{base: newBase("simple"), Value: value} }

func (t *Simple) Fit(frame.Column) error {
	t.fitted = true
	return nil
}

func (t *Simple) Transform(col frame.Column) (frame.Column, error) {
	if !t.fitted {
		return nil, processor.NotFitted(t.method)
	}
	out := col.Clone()
	for i := 0; i < out.Len(); i++ {
		if out.IsNull(i) {
			if err := out.SetValue(i, t.Value); err != nil {
				return nil, wrapMismatch(t.method, err)
			}
		}
	}
	return out, nil
}

func wrapMismatch(method string, err error) error {
	return fmt.Errorf("%w: %s: %v", processor.ErrTypeMismatch, method, err)
}
