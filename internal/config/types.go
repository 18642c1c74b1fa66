// Package config loads settings for the synthprep command line tool.
package config

import (
	"fmt"
	"unicode/utf8"

	"github.com/wdm0006/synthprep/pkg/io/dataset"
	"github.com/wdm0006/synthprep/pkg/processor"
)

const (
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	DefaultSampleRows = 100
	DefaultTopK       = 3
)

// IOSettings describes one data file.
type IOSettings struct {
	Path string `koanf:"path"`
	// Format is csv, tsv, jsonl or parquet; empty means from the extension.
	Format    string `koanf:"format"`
	Delimiter string `koanf:"delimiter"`
	HasHeader bool   `koanf:"has_header"`
}

type LogSettings struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Settings holds all CLI configuration options.
type Settings struct {
	Input         IOSettings `koanf:"input"`
	Output        IOSettings `koanf:"output"`
	InverseOutput IOSettings `koanf:"inverse_output"`
	// Metadata is a YAML, JSON or TOML file; empty means describe the input.
	Metadata string `koanf:"metadata"`
	// Processors is the raw per-stage configuration, keyed by stage name.
	Processors map[string]any `koanf:"processors"`
	// Clean lists cleaning steps applied to the input before anything else.
	Clean      []any       `koanf:"clean"`
	Sequence   []string    `koanf:"sequence"`
	Seed       *uint64     `koanf:"seed"`
	SampleRows int         `koanf:"sample_rows"`
	Strict     bool        `koanf:"strict"`
	TopK       int         `koanf:"top_k"`
	Log        LogSettings `koanf:"log"`
}

// Stages parses Sequence. An empty sequence yields nil, meaning the default
// order.
func (s *Settings) Stages() ([]processor.Stage, error) {
	if len(s.Sequence) == 0 {
		return nil, nil
	}
	out := make([]processor.Stage, len(s.Sequence))
	for i, name := range s.Sequence {
		st, err := processor.ParseStage(name)
		if err != nil {
			return nil, fmt.Errorf("sequence: %w", err)
		}
		out[i] = st
	}
	return out, nil
}

// DatasetOptions converts file settings into reader/writer options.
func (s *Settings) DatasetOptions(file IOSettings) (dataset.Options, error) {
	opt := dataset.Options{
		Format:     file.Format,
		NoHeader:   !file.HasHeader,
		SampleRows: s.SampleRows,
		Strict:     s.Strict,
	}
	if file.Delimiter != "" {
		r, size := utf8.DecodeRuneInString(file.Delimiter)
		if size != len(file.Delimiter) {
			return opt, fmt.Errorf("delimiter %q must be a single character", file.Delimiter)
		}
		opt.Delimiter = r
	}
	return opt, nil
}
