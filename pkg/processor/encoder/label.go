package encoder

import (
	"math"

	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/processor"
)

// Label maps sorted categories to the integer codes 0..n-1.
type Label struct{ base }

func NewLabel() *Label { return &Label{base{method: "label"}} }

func (t *Label) Fit(col frame.Column) error {
	t.kind = col.Kind()
	t.labels = sorted(count(col))
	t.codes = index(t.labels)
	t.fitted = true
	return nil
}

func (t *Label) Transform(col frame.Column) (frame.Column, error) {
	if !t.fitted {
		return nil, processor.NotFitted(t.method)
	}
	out := frame.NewIntColumn(col.Name(), col.Len())
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			continue
		}
		c, err := t.code(col, i)
		if err != nil {
			return nil, err
		}
		out.Set(i, int64(c))
	}
	return out, nil
}

// InverseTransform rounds to the nearest code and clamps into range.
func (t *Label) InverseTransform(col frame.Column) (frame.Column, error) {
	if !t.fitted {
		return nil, processor.NotFitted(t.method)
	}
	vals, valid, err := processor.Floats(col)
	if err != nil {
		return nil, err
	}
	codes := make([]int, len(vals))
	for i, v := range vals {
		codes[i] = -1
		if !valid[i] || len(t.labels) == 0 {
			continue
		}
		codes[i] = int(math.Max(0, math.Min(float64(len(t.labels)-1), math.Round(v))))
	}
	return t.decode(col.Name(), codes)
}
