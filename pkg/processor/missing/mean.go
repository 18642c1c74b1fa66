package missing

import (
	"gonum.org/v1/gonum/stat"

	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/processor"
)

// Mean fills nulls with the mean of the fitted column. Int columns receive
// the rounded mean.
type Mean struct {
	base
	mean float64
	ok   bool
}

func NewMean() *Mean { return &Mean{base: newBase("mean")} }

func (t *Mean) Fit(col frame.Column) error {
	vals, valid, err := processor.Floats(col)
	if err != nil {
		return err
	}
	obs := processor.Observed(vals, valid)
	t.ok = len(obs) > 0
	if t.ok {
		t.mean = stat.Mean(obs, nil)
	}
	t.fitted = true
	return nil
}

func (t *Mean) Transform(col frame.Column) (frame.Column, error) {
	if !t.fitted {
		return nil, processor.NotFitted(t.method)
	}
	// nothing observed at fit time, nothing to fill with
	if !t.ok {
		return col, nil
	}
	vals, valid, err := processor.Floats(col)
	if err != nil {
		return nil, err
	}
	return fill(col, vals, valid, t.mean)
}
