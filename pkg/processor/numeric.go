package processor

import (
	"fmt"
	"math"
	"time"

	"github.com/wdm0006/synthprep/pkg/frame"
)

// NotFitted builds the error returned when a processor is used before Fit.
func NotFitted(method string) error {
	return fmt.Errorf("%w: %s: call Fit first", ErrUnfitted, method)
}

// Floats returns a float view of a numeric, bool or time column. Times are
// seconds since the Unix epoch. valid[i] is false where the cell is null.
func Floats(col frame.Column) (vals []float64, valid []bool, err error) {
	n := col.Len()
	vals = make([]float64, n)
	valid = make([]bool, n)
	for i := 0; i < n; i++ {
		switch v := col.Value(i).(type) {
		case nil:
			continue
		case float64:
			vals[i] = v
		case int64:
			vals[i] = float64(v)
		case bool:
			if v {
				vals[i] = 1
			}
		case time.Time:
			vals[i] = float64(v.UnixNano()) / 1e9
		default:
			return nil, nil, fmt.Errorf("%w: column %s of kind %v is not numeric", ErrTypeMismatch, col.Name(), col.Kind())
		}
		valid[i] = true
	}
	return vals, valid, nil
}

// Observed returns the values whose valid flag is set.
func Observed(vals []float64, valid []bool) []float64 {
	out := make([]float64, 0, len(vals))
	for i, v := range vals {
		if valid[i] {
			out = append(out, v)
		}
	}
	return out
}

// FromFloats builds a column of kind from a float view. Ints are rounded,
// bools threshold at 0.5 and times are read as Unix seconds.
func FromFloats(name string, kind frame.Kind, vals []float64, valid []bool) (frame.Column, error) {
	col, err := frame.NewColumn(kind, name, len(vals))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}
	for i, v := range vals {
		if !valid[i] {
			continue
		}
		switch c := col.(type) {
		case *frame.FloatColumn:
			c.Set(i, v)
		case *frame.IntColumn:
			c.Set(i, int64(math.Round(v)))
		case *frame.BoolColumn:
			c.Set(i, v >= 0.5)
		case *frame.TimeColumn:
			c.Set(i, time.Unix(0, int64(math.Round(v*1e9))).UTC())
		default:
			return nil, fmt.Errorf("%w: cannot rebuild %v column %s from numbers", ErrTypeMismatch, kind, name)
		}
	}
	return col, nil
}
