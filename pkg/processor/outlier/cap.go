package outlier

import (
	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/processor"
)

// Cap clips values into [Min, Max]. Bounds left nil are taken from the
// 1.5*IQR fences of the fitted column.
type Cap struct {
	base
	Min    *float64
	Max    *float64
	lo, hi *float64
}

func NewCap() *Cap { return &Cap{base: base{method: "cap"}} }

func (t *Cap) Fit(col frame.Column) error {
	vals, valid, err := processor.Floats(col)
	if err != nil {
		return err
	}
	t.lo, t.hi = t.Min, t.Max
	if obs := processor.Observed(vals, valid); len(obs) > 0 {
		lo, hi := fences(obs)
		if t.lo == nil {
			t.lo = &lo
		}
		if t.hi == nil {
			t.hi = &hi
		}
	}
	t.fitted = true
	return nil
}

func (t *Cap) Transform(col frame.Column) (frame.Column, error) {
	if !t.fitted {
		return nil, processor.NotFitted(t.method)
	}
	vals, valid, err := processor.Floats(col)
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		if !valid[i] {
			continue
		}
		if t.lo != nil && v < *t.lo {
			v = *t.lo
		}
		if t.hi != nil && v > *t.hi {
			v = *t.hi
		}
		vals[i] = v
	}
	return processor.FromFloats(col.Name(), col.Kind(), vals, valid)
}
