package outlier

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/processor"
)

// ZScore eliminates rows whose standardized value exceeds Threshold in
// absolute value. The standard deviation is the population one.
type ZScore struct {
	base
	Threshold float64
	mean, std float64
}

func NewZScore() *ZScore { return &ZScore{base: base{method: "zscore"}, Threshold: 3} }

func (t *ZScore) Fit(col frame.Column) error {
	vals, valid, err := processor.Floats(col)
	if err != nil {
		return err
	}
	obs := processor.Observed(vals, valid)
	t.mean, t.std = 0, 0
	if n := float64(len(obs)); n > 0 {
		var v float64
		t.mean, v = stat.MeanVariance(obs, nil)
		if n > 1 {
			t.std = math.Sqrt(v * (n - 1) / n)
		}
	}
	t.fitted = true
	return nil
}

func (t *ZScore) Transform(col frame.Column) (frame.Column, error) { return t.passthrough(col) }

func (t *ZScore) Eliminate(col frame.Column) (processor.Elimination, error) {
	if !t.fitted {
		return processor.Elimination{}, processor.NotFitted(t.method)
	}
	return mask(col, func(v float64) bool {
		return t.std > 0 && math.Abs(v-t.mean)/t.std > t.Threshold
	})
}
