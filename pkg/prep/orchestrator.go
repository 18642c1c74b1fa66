// Package prep drives per-column preprocessing of tabular data ahead of
// synthesis: it resolves which processor handles each (stage, column) slot,
// fits and applies the stages in sequence with row-drop mediation, and
// inverts the reversible stages on synthetic output, re-inserting missing
// values at the rates recorded in the metadata.
//
// An Orchestrator is single-threaded; callers parallelize across
// independent orchestrators, never across the stages of one.
package prep

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/metadata"
	"github.com/wdm0006/synthprep/pkg/processor"
)

var (
	ErrConfiguration = processor.ErrConfiguration
	ErrUnfitted      = processor.ErrUnfitted
	ErrTypeMismatch  = processor.ErrTypeMismatch
)

// Orchestrator owns the stage configuration and the fitted sequence.
type Orchestrator struct {
	md  *metadata.Metadata
	cfg StageConfig
	reg *processor.Registry
	log *slog.Logger

	seed   *uint64
	rng    *rand.Rand
	seq    []processor.Stage
	steps  []Step
	fitted bool
}

type Option func(*Orchestrator)

// WithSeed makes fitting and inversion reproducible: every processor that
// owns a random generator is re-seeded from seed at Fit.
func WithSeed(seed uint64) Option { return func(o *Orchestrator) { o.seed = &seed } }

func WithLogger(l *slog.Logger) Option { return func(o *Orchestrator) { o.log = l } }

// WithRegistry replaces the processor registry used to instantiate methods.
func WithRegistry(r *processor.Registry) Option { return func(o *Orchestrator) { o.reg = r } }

// New builds an orchestrator. A nil cfg selects the default processors for
// each column's inferred type; otherwise cfg is adopted as by SetConfig.
func New(md *metadata.Metadata, cfg StageConfig, opts ...Option) (*Orchestrator, error) {
	o, err := newOrchestrator(md, opts)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		o.cfg, err = defaultConfig(md, o.reg)
		return o, err
	}
	if err := o.SetConfig(cfg); err != nil {
		return nil, err
	}
	return o, nil
}

// NewFromRaw builds an orchestrator from a loosely typed config keyed by
// stage name, each value resolved by Resolve. Stages absent from raw keep
// their default processors.
func NewFromRaw(md *metadata.Metadata, raw map[string]any, opts ...Option) (*Orchestrator, error) {
	o, err := newOrchestrator(md, opts)
	if err != nil {
		return nil, err
	}
	if o.cfg, err = defaultConfig(md, o.reg); err != nil {
		return nil, err
	}
	resolved, err := configFromRaw(md, o.reg, raw)
	if err != nil {
		return nil, err
	}
	for stage, cols := range resolved {
		o.cfg[stage] = cols
	}
	return o, nil
}

func newOrchestrator(md *metadata.Metadata, opts []Option) (*Orchestrator, error) {
	if md == nil {
		return nil, fmt.Errorf("%w: metadata is required", ErrConfiguration)
	}
	o := &Orchestrator{md: md, reg: DefaultRegistry(), log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(o)
	}
	if o.seed != nil {
		o.rng = rand.New(rand.NewPCG(*o.seed, *o.seed))
	} else {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return o, nil
}

func (o *Orchestrator) Metadata() *metadata.Metadata { return o.md }

func (o *Orchestrator) IsFitted() bool { return o.fitted }

// FittingSequence returns the steps built by the last Fit.
func (o *Orchestrator) FittingSequence() []Step { return append([]Step(nil), o.steps...) }

// InverseSequence returns the stages InverseTransform walks.
func (o *Orchestrator) InverseSequence() []processor.Stage { return inverseSequence(o.seq) }

// Fit fits every assigned processor on f in sequence order, the default
// order when sequence is empty. Every step sees f as given; a mediator is
// inserted after the missing-value and the outlier stage. Fit may be called
// again and replaces the previous sequence; a failed Fit leaves the
// orchestrator unfitted.
func (o *Orchestrator) Fit(ctx context.Context, f *frame.Frame, sequence ...processor.Stage) error {
	if len(sequence) == 0 {
		sequence = processor.Stages
	} else if err := checkSequence(sequence); err != nil {
		return err
	}
	seq := append([]processor.Stage(nil), sequence...)
	o.seq, o.steps, o.fitted = nil, nil, false

	override, err := o.globalOverride()
	if err != nil {
		return err
	}
	if err := o.checkColumns(f, seq, override); err != nil {
		return fmt.Errorf("fit: %w", err)
	}
	for c, p := range override {
		o.cfg[processor.Outlier][c] = p
	}

	var steps []Step
	for _, stage := range seq {
		steps = append(steps, StageStep{stage})
		if stage == processor.Missing || stage == processor.Outlier {
			steps = append(steps, MediatorStep{NewMediator(stage, o.md.Names(), o.cfg[stage])})
			o.log.Info("mediator created", "stage", stage)
		}
	}
	o.reseed()

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch s := s.(type) {
		case StageStep:
			if err := o.eachColumn(f, s.Stage, func(col string, p processor.Processor, c frame.Column) error {
				o.log.Debug("fit", "stage", s.Stage, "column", col, "method", p.Method())
				return p.Fit(c)
			}); err != nil {
				return fmt.Errorf("fit: %w", err)
			}
		case MediatorStep:
			if err := s.Mediator.Fit(f); err != nil {
				return fmt.Errorf("fit: %w", err)
			}
			o.log.Debug("mediator fitted", "stage", s.Mediator.Stage(), "columns", s.Mediator.Columns())
		}
		o.log.Info("fitting done", "step", s.String())
	}
	o.seq, o.steps, o.fitted = seq, steps, true
	return nil
}

// globalOverride plans a fresh instance of the first global outlier
// processor found, in column order, for every column. The plan is empty
// when no outlier processor is global.
func (o *Orchestrator) globalOverride() (map[string]processor.Processor, error) {
	var global processor.Processor
	for _, c := range o.md.Names() {
		if p := o.cfg[processor.Outlier][c]; p != nil && p.IsGlobal() {
			global = p
			break
		}
	}
	if global == nil {
		return nil, nil
	}
	o.log.Info("global transformation detected, replacing every outlier processor", "method", global.Method())
	plan := make(map[string]processor.Processor, len(o.md.Names()))
	for _, c := range o.md.Names() {
		if s, ok := global.(processor.Spawner); ok {
			plan[c] = s.Spawn()
			continue
		}
		p, err := o.reg.New(processor.Outlier, global.Method())
		if err != nil {
			return nil, fmt.Errorf("override: %w", err)
		}
		plan[c] = p
	}
	return plan, nil
}

// checkColumns fails when a column assigned in one of the stages of seq is
// not in f. Outlier assignments come from override when it is set.
func (o *Orchestrator) checkColumns(f *frame.Frame, seq []processor.Stage, override map[string]processor.Processor) error {
	for _, stage := range seq {
		for _, name := range o.md.Names() {
			p := o.cfg[stage][name]
			if stage == processor.Outlier && override != nil {
				p = override[name]
			}
			if p != nil && !f.Has(name) {
				return fmt.Errorf("%w: %s: column %s missing from frame", ErrConfiguration, stage, name)
			}
		}
	}
	return nil
}

// reseed derives one seed per random processor, in stage then column
// order, and a fresh generator for the inverse sampling.
func (o *Orchestrator) reseed() {
	if o.seed == nil {
		return
	}
	src := rand.New(rand.NewPCG(*o.seed, *o.seed))
	for _, stage := range processor.Stages {
		for _, c := range o.md.Names() {
			if s, ok := o.cfg[stage][c].(processor.Seeder); ok {
				s.Seed(src.Uint64())
			}
		}
	}
	o.rng = rand.New(rand.NewPCG(src.Uint64(), src.Uint64()))
}

// eachColumn calls fn for every assigned column of stage, in metadata
// order.
func (o *Orchestrator) eachColumn(f *frame.Frame, stage processor.Stage, fn func(string, processor.Processor, frame.Column) error) error {
	for _, name := range o.md.Names() {
		p := o.cfg[stage][name]
		if p == nil {
			continue
		}
		c, ok := f.ColumnByName(name)
		if !ok {
			return fmt.Errorf("%w: %s: column %s missing from frame", ErrConfiguration, stage, name)
		}
		if err := fn(name, p, c); err != nil {
			return fmt.Errorf("%s %s: %w", stage, name, err)
		}
	}
	return nil
}

// Transform replays the fitted sequence on a copy of f.
func (o *Orchestrator) Transform(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	if !o.fitted {
		return nil, fmt.Errorf("%w: transform: call Fit first", ErrUnfitted)
	}
	out := f.Clone()
	for _, s := range o.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch s := s.(type) {
		case StageStep:
			if err := o.eachColumn(out, s.Stage, func(_ string, p processor.Processor, c frame.Column) error {
				nc, err := p.Transform(c)
				if err != nil {
					return err
				}
				return out.ReplaceColumn(nc)
			}); err != nil {
				return nil, fmt.Errorf("transform: %w", err)
			}
		case MediatorStep:
			before := out.Rows()
			next, err := s.Mediator.Transform(out)
			if err != nil {
				return nil, fmt.Errorf("transform: %w", err)
			}
			out = next
			o.log.Debug("mediator applied", "stage", s.Mediator.Stage(), "rows_before", before, "rows_after", out.Rows())
		}
		o.log.Info("transformation done", "step", s.String())
	}
	return out, nil
}

// InverseTransform undoes the reversible stages on a copy of f. A shared
// sample of round(rows * global na_percentage) positions is drawn first;
// each imputer re-inserts nulls into its column's share of that sample.
func (o *Orchestrator) InverseTransform(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	if !o.fitted {
		return nil, fmt.Errorf("%w: inverse transform: call Fit first", ErrUnfitted)
	}
	global := o.md.GlobalNA()
	index := make([]int, int(math.Round(float64(f.Rows())*global)))
	if len(index) > 0 {
		sampleuv.WithoutReplacement(index, f.Rows(), o.rng)
		sort.Ints(index)
	}

	inverse := inverseSequence(o.seq)
	for _, stage := range inverse {
		if stage != processor.Missing {
			continue
		}
		for _, c := range o.md.Columns() {
			imp, ok := o.cfg[processor.Missing][c.Name].(processor.Imputer)
			if !ok {
				continue
			}
			imp.SetImputationIndex(index)
			adjusted := 0.0
			if global > 0 {
				adjusted = c.NAPercentage / global
			}
			if err := imp.SetNAPercentage(adjusted); err != nil {
				return nil, fmt.Errorf("inverse transform: column %s: %w", c.Name, err)
			}
		}
	}
	o.log.Debug("imputation index sampled", "size", len(index), "rows", f.Rows())

	out := f.Clone()
	for _, stage := range inverse {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := o.eachColumn(out, stage, func(_ string, p processor.Processor, c frame.Column) error {
			inv, ok := p.(processor.Inverter)
			if !ok {
				return fmt.Errorf("%w: %s has no inverse transform", ErrConfiguration, p.Method())
			}
			nc, err := inv.InverseTransform(c)
			if err != nil {
				return err
			}
			return out.ReplaceColumn(nc)
		}); err != nil {
			return nil, fmt.Errorf("inverse transform: %w", err)
		}
		o.log.Info("inverse transformation done", "stage", stage)
	}
	return out, nil
}
