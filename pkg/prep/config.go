package prep

import (
	"fmt"
	"io"
	"reflect"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/wdm0006/synthprep/pkg/metadata"
	"github.com/wdm0006/synthprep/pkg/processor"
	"github.com/wdm0006/synthprep/pkg/processor/encoder"
	"github.com/wdm0006/synthprep/pkg/processor/missing"
	"github.com/wdm0006/synthprep/pkg/processor/outlier"
	"github.com/wdm0006/synthprep/pkg/processor/scaler"
)

// StageConfig assigns a processor, or nil for none, to each column of each
// stage.
type StageConfig map[processor.Stage]map[string]processor.Processor

// defaults maps each inferred type to its method per stage; NoMethod means
// no processing.
var defaults = map[processor.Stage]map[metadata.InferredType]string{
	processor.Missing: {
		metadata.Numerical:   "mean",
		metadata.Categorical: "drop",
		metadata.Datetime:    "drop",
		metadata.Object:      "drop",
	},
	processor.Outlier: {
		metadata.Numerical: "iqr",
		metadata.Datetime:  "iqr",
	},
	processor.Encoder: {
		metadata.Categorical: "uniform",
		metadata.Object:      "uniform",
	},
	processor.Scaler: {
		metadata.Numerical: "standard",
		metadata.Datetime:  "standard",
	},
}

// DefaultMethod returns the default method of stage for an inferred type.
func DefaultMethod(stage processor.Stage, t metadata.InferredType) string {
	return defaults[stage][t]
}

// DefaultRegistry returns a registry holding every built-in processor.
func DefaultRegistry() *processor.Registry {
	return processor.NewRegistry().
		Register(processor.Missing, "mean", func() processor.Processor { return missing.NewMean() }).
		Register(processor.Missing, "median", func() processor.Processor { return missing.NewMedian() }).
		Register(processor.Missing, "mode", func() processor.Processor { return missing.NewMode() }).
		Register(processor.Missing, "simple", func() processor.Processor { return missing.NewSimple(0.0) }).
		Register(processor.Missing, "drop", func() processor.Processor { return missing.NewDrop() }).
		Register(processor.Outlier, "zscore", func() processor.Processor { return outlier.NewZScore() }).
		Register(processor.Outlier, "iqr", func() processor.Processor { return outlier.NewIQR() }).
		Register(processor.Outlier, "cap", func() processor.Processor { return outlier.NewCap() }).
		Register(processor.Outlier, "mahalanobis", func() processor.Processor { return outlier.NewMahalanobis() }).
		Register(processor.Encoder, "uniform", func() processor.Processor { return encoder.NewUniform() }).
		Register(processor.Encoder, "label", func() processor.Processor { return encoder.NewLabel() }).
		Register(processor.Scaler, "standard", func() processor.Processor { return scaler.NewStandard() }).
		Register(processor.Scaler, "minmax", func() processor.Processor { return scaler.NewMinMax() }).
		Register(processor.Scaler, "zerocenter", func() processor.Processor { return scaler.NewZeroCenter() })
}

// defaultConfig instantiates the default table for every column.
func defaultConfig(md *metadata.Metadata, reg *processor.Registry) (StageConfig, error) {
	cfg := make(StageConfig, len(processor.Stages))
	for _, stage := range processor.Stages {
		cfg[stage] = make(map[string]processor.Processor, md.Len())
		for _, c := range md.Columns() {
			p, err := instantiate(reg, stage, DefaultMethod(stage, c.InferredType()))
			if err != nil {
				return nil, err
			}
			cfg[stage][c.Name] = p
		}
	}
	return cfg, nil
}

// configFromRaw resolves raw stage configs and instantiates their methods.
// Stages missing from raw are absent from the result.
func configFromRaw(md *metadata.Metadata, reg *processor.Registry, raw map[string]any) (StageConfig, error) {
	cfg := make(StageConfig, len(raw))
	for name, stageRaw := range raw {
		stage, err := processor.ParseStage(name)
		if err != nil {
			return nil, err
		}
		methods, err := Resolve(stage, md.Names(), stageRaw)
		if err != nil {
			return nil, err
		}
		cfg[stage] = make(map[string]processor.Processor, len(methods))
		for col, method := range methods {
			p, err := instantiate(reg, stage, method)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", col, err)
			}
			cfg[stage][col] = p
		}
	}
	return cfg, nil
}

func instantiate(reg *processor.Registry, stage processor.Stage, method string) (processor.Processor, error) {
	if method == NoMethod {
		return nil, nil
	}
	return reg.New(stage, method)
}

type slot struct {
	stage  processor.Stage
	column string
}

// validate checks cfg against the metadata and the stage contracts.
func validate(md *metadata.Metadata, cfg StageConfig) error {
	for stage, cols := range cfg {
		if !stage.Valid() {
			return fmt.Errorf("%w: config: unknown stage %q", processor.ErrConfiguration, stage)
		}
		for col, p := range cols {
			if !md.Has(col) {
				return fmt.Errorf("%w: config %s: column %s is not in the metadata", processor.ErrConfiguration, stage, col)
			}
			if p == nil {
				continue
			}
			if err := processor.Contract(stage, p); err != nil {
				return fmt.Errorf("config %s: column %s: %w", stage, col, err)
			}
		}
	}
	return checkAliasing(cfg)
}

// checkAliasing rejects a processor instance held by more than one slot.
func checkAliasing(cfg StageConfig) error {
	seen := make(map[processor.Processor]slot)
	for stage, cols := range cfg {
		for col, p := range cols {
			if p == nil || reflect.ValueOf(p).Kind() != reflect.Pointer {
				continue
			}
			if prev, dup := seen[p]; dup {
				return fmt.Errorf("%w: config: %s/%s and %s/%s share one processor instance",
					processor.ErrConfiguration, prev.stage, prev.column, stage, col)
			}
			seen[p] = slot{stage, col}
		}
	}
	return nil
}

// Config returns the assignment of the given columns, or of every column
// when none are given. The maps are copies; the processors are not.
func (o *Orchestrator) Config(columns ...string) (StageConfig, error) {
	if len(columns) == 0 {
		columns = o.md.Names()
	}
	for _, c := range columns {
		if !o.md.Has(c) {
			return nil, fmt.Errorf("%w: config: column %s is not in the metadata", processor.ErrConfiguration, c)
		}
	}
	out := make(StageConfig, len(processor.Stages))
	for _, stage := range processor.Stages {
		out[stage] = make(map[string]processor.Processor, len(columns))
		for _, c := range columns {
			out[stage][c] = o.cfg[stage][c]
		}
	}
	return out, nil
}

// SetConfig replaces the whole assignment. Every (stage, column) slot not
// named by cfg becomes nil, including the slots of stages cfg omits.
func (o *Orchestrator) SetConfig(cfg StageConfig) error {
	if err := validate(o.md, cfg); err != nil {
		return err
	}
	next := make(StageConfig, len(processor.Stages))
	for _, stage := range processor.Stages {
		next[stage] = make(map[string]processor.Processor, o.md.Len())
		for _, c := range o.md.Names() {
			next[stage][c] = cfg[stage][c]
		}
	}
	o.cfg = next
	return nil
}

// UpdateConfig overlays the slots named by cfg and leaves the rest as is.
func (o *Orchestrator) UpdateConfig(cfg StageConfig) error {
	if err := validate(o.md, cfg); err != nil {
		return err
	}
	merged := make(StageConfig, len(processor.Stages))
	for _, stage := range processor.Stages {
		merged[stage] = make(map[string]processor.Processor, o.md.Len())
		for c, p := range o.cfg[stage] {
			merged[stage][c] = p
		}
		for c, p := range cfg[stage] {
			merged[stage][c] = p
		}
	}
	if err := checkAliasing(merged); err != nil {
		return err
	}
	for stage, cols := range cfg {
		for c, p := range cols {
			o.cfg[stage][c] = p
		}
	}
	return nil
}

// PrintConfig renders the assignment of the given columns as a table.
func (o *Orchestrator) PrintConfig(w io.Writer, columns ...string) error {
	cfg, err := o.Config(columns...)
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		columns = o.md.Names()
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	header := table.Row{"column"}
	for _, stage := range processor.Stages {
		header = append(header, string(stage))
	}
	t.AppendHeader(header)
	for _, c := range columns {
		row := table.Row{c}
		for _, stage := range processor.Stages {
			if p := cfg[stage][c]; p != nil {
				row = append(row, p.Method())
			} else {
				row = append(row, "-")
			}
		}
		t.AppendRow(row)
	}
	t.Render()
	return nil
}
