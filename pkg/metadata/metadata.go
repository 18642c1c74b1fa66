// Package metadata describes the columns a preprocessing run operates on:
// declared dtype, per-column and dataset-wide missing-value share.
package metadata

import (
	"fmt"
	"math"
	"strings"

	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/processor"
)

// InferredType is the coarse dtype class used to pick default processors.
type InferredType int

const (
	Numerical InferredType = iota
	Categorical
	Datetime
	Object
)

func (t InferredType) String() string {
	switch t {
	case Numerical:
		return "numerical"
	case Categorical:
		return "categorical"
	case Datetime:
		return "datetime"
	case Object:
		return "object"
	}
	return fmt.Sprintf("InferredType(%d)", int(t))
}

// InferType classifies a declared dtype such as "int64", "category" or
// "datetime64[ns]".
func InferType(dtype string) (InferredType, error) {
	d := strings.ToLower(strings.TrimSpace(dtype))
	switch {
	case d == "bool" || d == "boolean" || d == "number" || d == "numeric",
		strings.HasPrefix(d, "int"), strings.HasPrefix(d, "uint"), strings.HasPrefix(d, "float"):
		return Numerical, nil
	case d == "category" || d == "categorical":
		return Categorical, nil
	case strings.HasPrefix(d, "datetime") || d == "date" || d == "timestamp":
		return Datetime, nil
	case d == "object" || d == "string" || d == "str":
		return Object, nil
	}
	return 0, fmt.Errorf("%w: cannot infer dtype class of %q", processor.ErrTypeMismatch, dtype)
}

// Column is one column's metadata.
type Column struct {
	Name         string
	DType        string
	NAPercentage float64

	inferred InferredType
}

// InferredType returns the class computed when the metadata was built.
func (c Column) InferredType() InferredType { return c.inferred }

// Kind is the frame column kind a file reader should decode this column as.
func (c Column) Kind() frame.Kind {
	d := strings.ToLower(strings.TrimSpace(c.DType))
	switch {
	case d == "bool" || d == "boolean":
		return frame.KindBool
	case strings.HasPrefix(d, "int"), strings.HasPrefix(d, "uint"):
		return frame.KindInt
	case c.inferred == Numerical:
		return frame.KindFloat
	case c.inferred == Datetime:
		return frame.KindTime
	}
	return frame.KindString
}

// Schema is the frame schema implied by the declared dtypes.
func (m *Metadata) Schema() frame.Schema {
	s := frame.Schema{Columns: make([]frame.ColumnSchema, len(m.cols))}
	for i, c := range m.cols {
		s.Columns[i] = frame.ColumnSchema{Name: c.Name, Type: c.Kind(), Nullable: true}
	}
	return s
}

// Metadata is immutable once built.
type Metadata struct {
	cols     []Column
	byName   map[string]int
	globalNA float64
}

// New validates cols and caches each column's inferred type.
func New(cols []Column, globalNA float64) (*Metadata, error) {
	if err := checkFraction("metadata_global", globalNA); err != nil {
		return nil, err
	}
	m := &Metadata{cols: make([]Column, len(cols)), byName: make(map[string]int, len(cols)), globalNA: globalNA}
	for i, c := range cols {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: metadata: column %d has no name", processor.ErrConfiguration, i)
		}
		if _, dup := m.byName[c.Name]; dup {
			return nil, fmt.Errorf("%w: metadata: duplicate column %s", processor.ErrConfiguration, c.Name)
		}
		if err := checkFraction(c.Name, c.NAPercentage); err != nil {
			return nil, err
		}
		t, err := InferType(c.DType)
		if err != nil {
			return nil, fmt.Errorf("metadata: column %s: %w", c.Name, err)
		}
		c.inferred = t
		m.cols[i] = c
		m.byName[c.Name] = i
	}
	return m, nil
}

func checkFraction(where string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: metadata: %s na_percentage %v outside [0, 1]", processor.ErrConfiguration, where, p)
	}
	return nil
}

func (m *Metadata) GlobalNA() float64 { return m.globalNA }

func (m *Metadata) Len() int { return len(m.cols) }

func (m *Metadata) Has(name string) bool {
	_, ok := m.byName[name]
	return ok
}

// Column looks up a column by name.
func (m *Metadata) Column(name string) (Column, bool) {
	i, ok := m.byName[name]
	if !ok {
		return Column{}, false
	}
	return m.cols[i], true
}

// Columns returns the columns in declaration order.
func (m *Metadata) Columns() []Column { return append([]Column(nil), m.cols...) }

// Names returns the column names in declaration order.
func (m *Metadata) Names() []string {
	out := make([]string, len(m.cols))
	for i, c := range m.cols {
		out[i] = c.Name
	}
	return out
}
