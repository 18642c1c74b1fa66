package missing

import (
	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/processor"
)

// Drop marks rows with a null in its column for elimination. Its column
// transform is the identity; the stage mediator removes the rows.
type Drop struct {
	base
}

func NewDrop() *Drop { return &Drop{base: newBase("drop")} }

func (t *Drop) Fit(frame.Column) error {
	t.fitted = true
	return nil
}

func (t *Drop) Transform(col frame.Column) (frame.Column, error) {
	if !t.fitted {
		return nil, processor.NotFitted(t.method)
	}
	return col, nil
}

// Eliminate returns the null mask together with a copy of the column.
func (t *Drop) Eliminate(col frame.Column) (processor.Elimination, error) {
	if !t.fitted {
		return processor.Elimination{}, processor.NotFitted(t.method)
	}
	mask := make([]bool, col.Len())
	for i := range mask {
		mask[i] = col.IsNull(i)
	}
	return processor.Elimination{Mask: mask, Original: col.Clone()}, nil
}
