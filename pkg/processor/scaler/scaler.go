// Package scaler implements the affine scalers: standard, minmax and
// zerocenter. Each maps x to (x - shift) / scale and back.
package scaler

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/processor"
)

var (
	_ processor.Inverter = (*Standard)(nil)
	_ processor.Inverter = (*MinMax)(nil)
	_ processor.Inverter = (*ZeroCenter)(nil)
)

type affine struct {
	method string
	fitted bool
	kind   frame.Kind
	shift  float64
	scale  float64
	// params computes shift and scale from the observed values.
	params func(obs []float64) (shift, scale float64)
}

func (a *affine) Method() string         { return a.method }
func (a *affine) Stage() processor.Stage { return processor.Scaler }
func (a *affine) IsGlobal() bool         { return false }

// Params returns the fitted shift and scale.
func (a *affine) Params() (shift, scale float64) { return a.shift, a.scale }

func (a *affine) Fit(col frame.Column) error {
	vals, valid, err := processor.Floats(col)
	if err != nil {
		return err
	}
	a.shift, a.scale = 0, 1
	if obs := processor.Observed(vals, valid); len(obs) > 0 {
		a.shift, a.scale = a.params(obs)
	}
	if a.scale == 0 || math.IsNaN(a.scale) {
		a.scale = 1
	}
	a.kind = col.Kind()
	a.fitted = true
	return nil
}

// Transform always yields a float column.
func (a *affine) Transform(col frame.Column) (frame.Column, error) {
	if !a.fitted {
		return nil, processor.NotFitted(a.method)
	}
	vals, valid, err := processor.Floats(col)
	if err != nil {
		return nil, err
	}
	for i := range vals {
		vals[i] = (vals[i] - a.shift) / a.scale
	}
	return processor.FromFloats(col.Name(), frame.KindFloat, vals, valid)
}

// InverseTransform restores the kind seen at fit.
func (a *affine) InverseTransform(col frame.Column) (frame.Column, error) {
	if !a.fitted {
		return nil, processor.NotFitted(a.method)
	}
	vals, valid, err := processor.Floats(col)
	if err != nil {
		return nil, err
	}
	for i := range vals {
		vals[i] = vals[i]*a.scale + a.shift
	}
	return processor.FromFloats(col.Name(), a.kind, vals, valid)
}

// Standard scales to zero mean and unit population variance.
type Standard struct{ affine }

func NewStandard() *Standard {
	return &Standard{affine{method: "standard", params: func(obs []float64) (float64, float64) {
		n := float64(len(obs))
		mean, v := stat.MeanVariance(obs, nil)
		if n < 2 {
			return mean, 1
		}
		return mean, math.Sqrt(v * (n - 1) / n)
	}}}
}

// MinMax scales the fitted range onto [0, 1].
type MinMax struct{ affine }

func NewMinMax() *MinMax {
	return &MinMax{affine{method: "minmax", params: func(obs []float64) (float64, float64) {
		lo, hi := floats.Min(obs), floats.Max(obs)
		return lo, hi - lo
	}}}
}

// ZeroCenter subtracts the mean.
type ZeroCenter struct{ affine }

func NewZeroCenter() *ZeroCenter {
	return &ZeroCenter{affine{method: "zerocenter", params: func(obs []float64) (float64, float64) {
		return stat.Mean(obs, nil), 1
	}}}
}
