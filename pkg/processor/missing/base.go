// Package missing implements the imputers of the missing-value stage.
//
// Every imputer can invert its transform by re-inserting nulls: the
// orchestrator pushes a shared set of candidate row positions and a
// per-column fraction, and InverseTransform nulls exactly
// round(fraction * len(candidates)) of those positions.
package missing

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/processor"
)

var (
	_ processor.Imputer    = (*Mean)(nil)
	_ processor.Imputer    = (*Median)(nil)
	_ processor.Imputer    = (*Mode)(nil)
	_ processor.Imputer    = (*Simple)(nil)
	_ processor.Imputer    = (*Drop)(nil)
	_ processor.Eliminator = (*Drop)(nil)
	_ processor.Seeder     = (*Drop)(nil)
)

type base struct {
	method string
	fitted bool
	na     float64
	index  []int
	rng    *rand.Rand
}

func newBase(method string) base {
	return base{method: method, rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

func (b *base) Method() string               { return b.method }
func (b *base) Stage() processor.Stage       { return processor.Missing }
func (b *base) IsGlobal() bool               { return false }
func (b *base) Seed(seed uint64)             { b.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
func (b *base) NAPercentage() float64        { return b.na }
func (b *base) ImputationIndex() []int       { return append([]int(nil), b.index...) }
func (b *base) SetImputationIndex(idx []int) { b.index = append([]int(nil), idx...) }

func (b *base) SetNAPercentage(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: %s: na percentage %v outside [0, 1]", processor.ErrConfiguration, b.method, p)
	}
	b.na = p
	return nil
}

// InverseTransform nulls a random subset of the imputation index.
func (b *base) InverseTransform(col frame.Column) (frame.Column, error) {
	if !b.fitted {
		return nil, processor.NotFitted(b.method)
	}
	if b.na == 0 || len(b.index) == 0 {
		return col, nil
	}
	picks := make([]int, int(math.Round(b.na*float64(len(b.index)))))
	if len(picks) == 0 {
		return col, nil
	}
	sampleuv.WithoutReplacement(picks, len(b.index), b.rng)
	out := col.Clone()
	for _, k := range picks {
		pos := b.index[k]
		if pos < 0 || pos >= out.Len() {
			return nil, fmt.Errorf("%w: %s: imputation index %d outside column %s of %d rows", processor.ErrConfiguration, b.method, pos, col.Name(), out.Len())
		}
		out.SetNull(pos)
	}
	return out, nil
}

// fill replaces nulls in a float view with v and rebuilds the column.
func fill(col frame.Column, vals []float64, valid []bool, v float64) (frame.Column, error) {
	out := make([]bool, len(valid))
	for i := range valid {
		if !valid[i] {
			vals[i] = v
		}
		out[i] = true
	}
	return processor.FromFloats(col.Name(), col.Kind(), vals, out)
}
