package outlier

import (
	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/processor"
)

// IQR eliminates rows outside [Q1 - 1.5*IQR, Q3 + 1.5*IQR].
type IQR struct {
	base
	lo, hi float64
	ok     bool
}

func NewIQR() *IQR { return &IQR{base: base{method: "iqr"}} }

func (t *IQR) Fit(col frame.Column) error {
	vals, valid, err := processor.Floats(col)
	if err != nil {
		return err
	}
	obs := processor.Observed(vals, valid)
	t.ok = len(obs) > 0
	if t.ok {
		t.lo, t.hi = fences(obs)
	}
	t.fitted = true
	return nil
}

func (t *IQR) Transform(col frame.Column) (frame.Column, error) { return t.passthrough(col) }

func (t *IQR) Eliminate(col frame.Column) (processor.Elimination, error) {
	if !t.fitted {
		return processor.Elimination{}, processor.NotFitted(t.method)
	}
	return mask(col, func(v float64) bool {
		return t.ok && (v < t.lo || v > t.hi)
	})
}
