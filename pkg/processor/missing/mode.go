package missing

import (
	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/processor"
)

// Mode fills nulls with the most frequent value. Ties go to the value that
// reached the top count first. Works for every column kind.
type Mode struct {
	base
	best any
}

func NewMode() *Mode { return &Mode{base: newBase("mode")} }

func (t *Mode) Fit(col frame.Column) error {
	counts := map[any]int{}
	var bestc int
	t.best = nil
	for i := 0; i < col.Len(); i++ {
		v := col.Value(i)
		if v == nil {
			continue
		}
		counts[v]++
		if counts[v] > bestc {
			bestc = counts[v]
			t.best = v
		}
	}
	t.fitted = true
	return nil
}

func (t *Mode) Transform(col frame.Column) (frame.Column, error) {
	if !t.fitted {
		return nil, processor.NotFitted(t.method)
	}
	if t.best == nil {
		return col, nil
	}
	out := col.Clone()
	for i := 0; i < out.Len(); i++ {
		if out.IsNull(i) {
			if err := out.SetValue(i, t.best); err != nil {
				return nil, wrapMismatch(t.method, err)
			}
		}
	}
	return out, nil
}
