package prep

import (
	"fmt"

	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/processor"
)

// Mediator turns the row-elimination signals of one stage's processors into
// a single row filter. A row is dropped when any recorded column flags it;
// kept rows get the flagged columns' original values back.
type Mediator struct {
	stage   processor.Stage
	columns []string
	procs   map[string]processor.Processor

	fitted    bool
	eliminate []string
	joint     processor.JointEliminator
	jointCols []string
}

// NewMediator watches procs, the live column map of stage. The map is read
// at Fit, so later replacements of its entries are seen.
func NewMediator(stage processor.Stage, columns []string, procs map[string]processor.Processor) *Mediator {
	return &Mediator{stage: stage, columns: append([]string(nil), columns...), procs: procs}
}

func (m *Mediator) Stage() processor.Stage { return m.stage }

// Columns returns the recorded row-eliminating columns.
func (m *Mediator) Columns() []string {
	return append(append([]string(nil), m.eliminate...), m.jointCols...)
}

// Fit records the eliminating columns and fits the joint detector, if any,
// on f.
func (m *Mediator) Fit(f *frame.Frame) error {
	m.eliminate, m.joint, m.jointCols = nil, nil, nil
	for _, c := range m.columns {
		p := m.procs[c]
		if p == nil {
			continue
		}
		if je, ok := p.(processor.JointEliminator); ok && p.IsGlobal() {
			if m.joint == nil {
				m.joint = je
			}
			m.jointCols = append(m.jointCols, c)
			continue
		}
		if _, ok := p.(processor.Eliminator); ok {
			m.eliminate = append(m.eliminate, c)
		}
	}
	if m.joint != nil {
		if err := m.joint.FitJoint(f, m.jointCols); err != nil {
			return fmt.Errorf("mediator %s: %w", m.stage, err)
		}
	}
	m.fitted = true
	return nil
}

// Transform returns f unchanged when nothing was recorded, otherwise a new
// frame of the kept rows numbered from 0.
func (m *Mediator) Transform(f *frame.Frame) (*frame.Frame, error) {
	if !m.fitted {
		return nil, fmt.Errorf("%w: mediator %s: call Fit first", processor.ErrUnfitted, m.stage)
	}
	if len(m.eliminate) == 0 && m.joint == nil {
		return f, nil
	}
	drop := make([]bool, f.Rows())
	originals := make([]frame.Column, 0, len(m.eliminate))
	for _, c := range m.eliminate {
		col, ok := f.ColumnByName(c)
		if !ok {
			return nil, fmt.Errorf("%w: mediator %s: column %s missing from frame", processor.ErrConfiguration, m.stage, c)
		}
		res, err := m.procs[c].(processor.Eliminator).Eliminate(col)
		if err != nil {
			return nil, fmt.Errorf("mediator %s: column %s: %w", m.stage, c, err)
		}
		for i, d := range res.Mask {
			drop[i] = drop[i] || d
		}
		originals = append(originals, res.Original)
	}
	if m.joint != nil {
		mask, err := m.joint.EliminateJoint(f, m.jointCols)
		if err != nil {
			return nil, fmt.Errorf("mediator %s: %w", m.stage, err)
		}
		for i, d := range mask {
			drop[i] = drop[i] || d
		}
	}

	keep := make([]bool, len(drop))
	var kept []int
	for i, d := range drop {
		keep[i] = !d
		if !d {
			kept = append(kept, i)
		}
	}
	out, err := f.Filter(keep)
	if err != nil {
		return nil, err
	}
	for _, orig := range originals {
		if err := out.ReplaceColumn(orig.Take(kept)); err != nil {
			return nil, fmt.Errorf("mediator %s: restore %s: %w", m.stage, orig.Name(), err)
		}
	}
	return out, nil
}
