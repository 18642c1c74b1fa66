// Package processor defines the per-column processing contract shared by
// imputers, outlier handlers, encoders and scalers.
//
// A processor is owned by exactly one (stage, column) slot of one
// orchestrator. Instances are not safe for concurrent use and must not be
// shared between orchestrators.
package processor

import (
	"errors"
	"fmt"

	"github.com/wdm0006/synthprep/pkg/frame"
)

var (
	// ErrConfiguration reports malformed metadata, config, sequence or ranges.
	ErrConfiguration = errors.New("configuration error")
	// ErrUnfitted reports a transform requested before fit.
	ErrUnfitted = errors.New("unfitted")
	// ErrTypeMismatch reports wrongly shaped values or unsupported dtypes.
	ErrTypeMismatch = errors.New("type mismatch")
)

// Stage is one of the four fixed processing categories.
type Stage string

const (
	Missing Stage = "missingist"
	Outlier Stage = "outlierist"
	Encoder Stage = "encoder"
	Scaler  Stage = "scaler"
)

// Stages is the default execution order.
var Stages = []Stage{Missing, Outlier, Encoder, Scaler}

// ParseStage validates a stage name.
func ParseStage(s string) (Stage, error) {
	for _, st := range Stages {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown stage %q", ErrConfiguration, s)
}

// Valid reports whether s is one of the four known stages.
func (s Stage) Valid() bool {
	_, err := ParseStage(string(s))
	return err == nil
}

// Processor is a stateful transform over a single column.
type Processor interface {
	// Method is the registry identifier, e.g. "mean".
	Method() string
	Stage() Stage
	// IsGlobal reports whether the processor works jointly across columns.
	IsGlobal() bool
	Fit(col frame.Column) error
	// Transform must return a column of the same length and name.
	Transform(col frame.Column) (frame.Column, error)
}

// Inverter is a processor that can undo its transform.
type Inverter interface {
	Processor
	InverseTransform(col frame.Column) (frame.Column, error)
}

// Imputer is the missing-value contract. InverseTransform re-inserts nulls
// into a share of the positions given by SetImputationIndex.
type Imputer interface {
	Inverter
	SetNAPercentage(p float64) error
	SetImputationIndex(idx []int)
}

// Elimination is the result of a row-eliminating processor: Mask marks the
// rows to drop and Original holds the untransformed column for restoration.
type Elimination struct {
	Mask     []bool
	Original frame.Column
}

// Eliminator is implemented by processors whose effect is dropping rows.
type Eliminator interface {
	Eliminate(col frame.Column) (Elimination, error)
}

// JointEliminator drops rows based on several columns at once.
type JointEliminator interface {
	FitJoint(f *frame.Frame, cols []string) error
	EliminateJoint(f *frame.Frame, cols []string) ([]bool, error)
}

// Seeder is implemented by processors that own a random generator.
type Seeder interface {
	Seed(seed uint64)
}

// Spawner is implemented by processors that can create a fresh, unfitted
// instance of their own type carrying the same settings.
type Spawner interface {
	Spawn() Processor
}

// Contract checks that p satisfies the interface required by stage.
func Contract(stage Stage, p Processor) error {
	if p.Stage() != stage {
		return fmt.Errorf("%w: %s processor %q assigned to stage %s", ErrConfiguration, p.Stage(), p.Method(), stage)
	}
	switch stage {
	case Missing:
		if _, ok := p.(Imputer); !ok {
			return fmt.Errorf("%w: %s does not implement the imputer contract", ErrConfiguration, p.Method())
		}
	case Encoder, Scaler:
		if _, ok := p.(Inverter); !ok {
			return fmt.Errorf("%w: %s has no inverse transform", ErrConfiguration, p.Method())
		}
	case Outlier:
	default:
		return fmt.Errorf("%w: unknown stage %q", ErrConfiguration, stage)
	}
	return nil
}
