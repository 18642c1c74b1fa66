// Package outlier implements the outlier-handling stage. Per-column
// detectors (zscore, iqr) eliminate rows through the stage mediator, cap
// clips values in place, and mahalanobis scores all numeric columns jointly.
package outlier

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/processor"
)

var (
	_ processor.Eliminator      = (*ZScore)(nil)
	_ processor.Eliminator      = (*IQR)(nil)
	_ processor.Processor       = (*Cap)(nil)
	_ processor.JointEliminator = (*Mahalanobis)(nil)
)

type base struct {
	method string
	fitted bool
}

func (b *base) Method() string         { return b.method }
func (b *base) Stage() processor.Stage { return processor.Outlier }
func (b *base) IsGlobal() bool         { return false }

// passthrough is the column transform of detectors that only eliminate.
func (b *base) passthrough(col frame.Column) (frame.Column, error) {
	if !b.fitted {
		return nil, processor.NotFitted(b.method)
	}
	return col, nil
}

// fences returns the 1.5*IQR bounds of the observed values.
func fences(obs []float64) (lo, hi float64) {
	sorted := append([]float64(nil), obs...)
	sort.Float64s(sorted)
	q1 := stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	q3 := stat.Quantile(0.75, stat.LinInterp, sorted, nil)
	iqr := q3 - q1
	return q1 - 1.5*iqr, q3 + 1.5*iqr
}

// mask flags valid values for which out reports true.
func mask(col frame.Column, out func(v float64) bool) (processor.Elimination, error) {
	vals, valid, err := processor.Floats(col)
	if err != nil {
		return processor.Elimination{}, err
	}
	m := make([]bool, len(vals))
	for i, v := range vals {
		m[i] = valid[i] && out(v)
	}
	return processor.Elimination{Mask: m, Original: col.Clone()}, nil
}
