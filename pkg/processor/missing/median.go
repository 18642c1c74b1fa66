package missing

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/processor"
)

// Median fills nulls with the median of the fitted column; an even count
// averages the two middle values.
type Median struct {
	base
	median float64
	ok     bool
}

func NewMedian() *Median { return &Median{base: newBase("median")} }

func (t *Median) Fit(col frame.Column) error {
	vals, valid, err := processor.Floats(col)
	if err != nil {
		return err
	}
	obs := processor.Observed(vals, valid)
	t.ok = len(obs) > 0
	if t.ok {
		sort.Float64s(obs)
		// Empirical picks the lower middle value on an even count
		t.median = stat.Quantile(0.5, stat.Empirical, obs, nil)
		if len(obs)%2 == 0 {
			t.median = (t.median + obs[len(obs)/2]) / 2
		}
	}
	t.fitted = true
	return nil
}

func (t *Median) Transform(col frame.Column) (frame.Column, error) {
	if !t.fitted {
		return nil, processor.NotFitted(t.method)
	}
	if !t.ok {
		return col, nil
	}
	vals, valid, err := processor.Floats(col)
	if err != nil {
		return nil, err
	}
	return fill(col, vals, valid, t.median)
}
