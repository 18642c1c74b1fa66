package outlier

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/processor"
)

// Mahalanobis is a global detector: it scores complete rows over all
// numeric columns and eliminates those whose squared distance exceeds the
// chi-square quantile at Confidence. Non-numeric columns are ignored.
type Mahalanobis struct {
	base
	Confidence float64

	cols      []string
	mean      *mat.VecDense
	inv       *mat.SymDense
	threshold float64
}

func NewMahalanobis() *Mahalanobis {
	return &Mahalanobis{base: base{method: "mahalanobis"}, Confidence: 0.975}
}

func (t *Mahalanobis) IsGlobal() bool { return true }

func (t *Mahalanobis) Spawn() processor.Processor {
	m := NewMahalanobis()
	m.Confidence = t.Confidence
	return m
}

// Fit is per-column bookkeeping only; the model is built by FitJoint.
func (t *Mahalanobis) Fit(frame.Column) error {
	t.fitted = true
	return nil
}

func (t *Mahalanobis) Transform(col frame.Column) (frame.Column, error) { return t.passthrough(col) }

func (t *Mahalanobis) FitJoint(f *frame.Frame, cols []string) error {
	t.cols, t.mean, t.inv = nil, nil, nil
	x, rows, err := t.complete(f, cols)
	if err != nil {
		return err
	}
	p := len(t.cols)
	if p == 0 || len(rows) <= p {
		t.fitted = true
		return nil
	}
	data := mat.NewDense(len(rows), p, nil)
	for r, row := range rows {
		data.SetRow(r, x[row])
	}
	t.mean = mat.NewVecDense(p, nil)
	for j := 0; j < p; j++ {
		t.mean.SetVec(j, stat.Mean(mat.Col(nil, j, data), nil))
	}
	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, data, nil)
	var chol mat.Cholesky
	if ok := chol.Factorize(&cov); !ok {
		// singular covariance: regularize the diagonal and retry
		for j := 0; j < p; j++ {
			cov.SetSym(j, j, cov.At(j, j)+1e-9)
		}
		if ok := chol.Factorize(&cov); !ok {
			return fmt.Errorf("%w: mahalanobis: covariance of %v is not positive definite", processor.ErrTypeMismatch, t.cols)
		}
	}
	t.inv = &mat.SymDense{}
	if err := chol.InverseTo(t.inv); err != nil {
		return fmt.Errorf("mahalanobis: invert covariance: %w", err)
	}
	t.threshold = distuv.ChiSquared{K: float64(p)}.Quantile(t.Confidence)
	t.fitted = true
	return nil
}

func (t *Mahalanobis) EliminateJoint(f *frame.Frame, cols []string) ([]bool, error) {
	if !t.fitted {
		return nil, processor.NotFitted(t.method)
	}
	out := make([]bool, f.Rows())
	if t.inv == nil {
		return out, nil
	}
	x, rows, err := t.rows(f, t.cols)
	if err != nil {
		return nil, err
	}
	d := mat.NewVecDense(len(t.cols), nil)
	for _, r := range rows {
		d.SubVec(mat.NewVecDense(len(t.cols), x[r]), t.mean)
		out[r] = mat.Inner(d, t.inv, d) > t.threshold
	}
	return out, nil
}

// complete selects the numeric columns of cols and returns the rows with
// no nulls among them.
func (t *Mahalanobis) complete(f *frame.Frame, cols []string) ([][]float64, []int, error) {
	for _, name := range cols {
		col, ok := f.ColumnByName(name)
		if !ok {
			return nil, nil, fmt.Errorf("%w: mahalanobis: unknown column %s", processor.ErrConfiguration, name)
		}
		if _, _, err := processor.Floats(col); err == nil {
			t.cols = append(t.cols, name)
		}
	}
	return t.rows(f, t.cols)
}

func (t *Mahalanobis) rows(f *frame.Frame, cols []string) ([][]float64, []int, error) {
	x := make([][]float64, f.Rows())
	ok := make([]bool, f.Rows())
	for i := range x {
		x[i] = make([]float64, len(cols))
		ok[i] = true
	}
	for j, name := range cols {
		col, found := f.ColumnByName(name)
		if !found {
			return nil, nil, fmt.Errorf("%w: mahalanobis: unknown column %s", processor.ErrConfiguration, name)
		}
		vals, valid, err := processor.Floats(col)
		if err != nil {
			return nil, nil, err
		}
		for i := range vals {
			x[i][j] = vals[i]
			ok[i] = ok[i] && valid[i]
		}
	}
	var rows []int
	for i := range ok {
		if ok[i] {
			rows = append(rows, i)
		}
	}
	return x, rows, nil
}
