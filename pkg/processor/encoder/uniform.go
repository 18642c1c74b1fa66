package encoder

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/processor"
)

// Uniform maps each category to a random draw inside its slice of [0, 1].
// Slices are proportional to the category frequency at fit, most frequent
// first; ties are broken by category order.
type Uniform struct {
	base
	lower []float64
	upper []float64
	rng   *rand.Rand
}

func NewUniform() *Uniform {
	return &Uniform{
		base: base{method: "uniform"},
		rng:  rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

func (t *Uniform) Seed(seed uint64) { t.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }

func (t *Uniform) Fit(col frame.Column) error {
	counts := count(col)
	labels := sorted(counts)
	sort.SliceStable(labels, func(i, j int) bool { return counts[labels[i]] > counts[labels[j]] })

	total := 0
	for _, c := range counts {
		total += c
	}
	t.lower = make([]float64, len(labels))
	t.upper = make([]float64, len(labels))
	acc := 0
	for i, l := range labels {
		t.lower[i] = float64(acc) / float64(total)
		acc += counts[l]
		t.upper[i] = float64(acc) / float64(total)
	}
	if n := len(labels); n > 0 {
		t.lower[0], t.upper[n-1] = 0, 1
	}
	t.kind = col.Kind()
	t.labels = labels
	t.codes = index(labels)
	t.fitted = true
	return nil
}

// Interval returns the [lower, upper) slice assigned to category v.
func (t *Uniform) Interval(v any) (lower, upper float64, ok bool) {
	c, ok := t.codes[v]
	if !ok {
		return 0, 0, false
	}
	return t.lower[c], t.upper[c], true
}

func (t *Uniform) Transform(col frame.Column) (frame.Column, error) {
	if !t.fitted {
		return nil, processor.NotFitted(t.method)
	}
	out := frame.NewFloatColumn(col.Name(), col.Len())
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			continue
		}
		c, err := t.code(col, i)
		if err != nil {
			return nil, err
		}
		out.Set(i, t.lower[c]+t.rng.Float64()*(t.upper[c]-t.lower[c]))
	}
	return out, nil
}

func (t *Uniform) InverseTransform(col frame.Column) (frame.Column, error) {
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
		if !valid[i] {
			continue
		}
		if v < 0 || v > 1 || len(t.labels) == 0 {
			return nil, fmt.Errorf("%w: uniform: value %v of column %s is outside [0, 1]", processor.ErrTypeMismatch, v, col.Name())
		}
		c := sort.Search(len(t.upper), func(k int) bool { return v < t.upper[k] })
		if c == len(t.upper) {
			c--
		}
		codes[i] = c
	}
	return t.decode(col.Name(), codes)
}
