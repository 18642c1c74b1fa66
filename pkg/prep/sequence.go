package prep

import (
	"fmt"

	"github.com/wdm0006/synthprep/pkg/processor"
)

// Step is one element of a fitting sequence: a StageStep or a MediatorStep.
type Step interface {
	String() string
	step()
}

// StageStep runs every column processor of a stage.
type StageStep struct{ Stage processor.Stage }

// MediatorStep runs a mediator over the whole frame.
type MediatorStep struct{ Mediator *Mediator }

func (s StageStep) String() string    { return string(s.Stage) }
func (s MediatorStep) String() string { return "mediator_" + string(s.Mediator.Stage()) }

func (StageStep) step()    {}
func (MediatorStep) step() {}

// checkSequence validates a caller-supplied stage order.
func checkSequence(seq []processor.Stage) error {
	if len(seq) == 0 || len(seq) > len(processor.Stages) {
		return fmt.Errorf("%w: sequence must hold 1 to %d stages, got %d", processor.ErrConfiguration, len(processor.Stages), len(seq))
	}
	seen := make(map[processor.Stage]bool, len(seq))
	for _, s := range seq {
		if !s.Valid() {
			return fmt.Errorf("%w: sequence: unknown stage %q", processor.ErrConfiguration, s)
		}
		if seen[s] {
			return fmt.Errorf("%w: sequence: duplicate stage %s", processor.ErrConfiguration, s)
		}
		seen[s] = true
	}
	return nil
}

// inverseSequence drops the outlier stage, which has no inverse.
func inverseSequence(seq []processor.Stage) []processor.Stage {
	out := make([]processor.Stage, 0, len(seq))
	for _, s := range seq {
		if s != processor.Outlier {
			out = append(out, s)
		}
	}
	return out
}
