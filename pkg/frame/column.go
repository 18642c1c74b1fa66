package frame

import (
	"fmt"
	"time"
)

// Kind enumerates supported logical types.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	default:
		return "invalid"
	}
}

// Column is a typed, nullable column abstraction.
type Column interface {
	Name() string
	Kind() Kind
	Len() int
	IsNull(i int) bool
	SetNull(i int)
	NullCount() int
	// Value returns the cell as a Go value, nil when null.
	Value(i int) any
	// SetValue coerces v into the column kind; nil sets null.
	SetValue(i int, v any) error
	Clone() Column
	// Take returns a new column holding the rows at idx, in order.
	Take(idx []int) Column
}

// series carries the storage shared by every concrete column.
type series[T any] struct {
	name  string
	data  []T
	nulls []bool
}

func newSeries[T any](name string, n int) series[T] {
	nulls := make([]bool, n)
	for i := range nulls {
		nulls[i] = true
	}
	return series[T]{name: name, data: make([]T, n), nulls: nulls}
}

func (s *series[T]) Name() string      { return s.name }
func (s *series[T]) Len() int          { return len(s.data) }
func (s *series[T]) IsNull(i int) bool { return s.nulls[i] }
func (s *series[T]) SetNull(i int)     { var zero T; s.data[i] = zero; s.nulls[i] = true }
func (s *series[T]) Get(i int) (T, bool) {
	return s.data[i], !s.nulls[i]
}
func (s *series[T]) Set(i int, v T) { s.data[i] = v; s.nulls[i] = false }
func (s *series[T]) Append(v T)     { s.data = append(s.data, v); s.nulls = append(s.nulls, false) }
func (s *series[T]) AppendNull() {
	var zero T
	s.data = append(s.data, zero)
	s.nulls = append(s.nulls, true)
}

func (s *series[T]) NullCount() int {
	n := 0
	for _, null := range s.nulls {
		if null {
			n++
		}
	}
	return n
}

func (s *series[T]) Value(i int) any {
	if s.nulls[i] {
		return nil
	}
	return s.data[i]
}

func (s *series[T]) clone() series[T] {
	out := series[T]{name: s.name, data: make([]T, len(s.data)), nulls: make([]bool, len(s.nulls))}
	copy(out.data, s.data)
	copy(out.nulls, s.nulls)
	return out
}

func (s *series[T]) take(idx []int) series[T] {
	out := series[T]{name: s.name, data: make([]T, len(idx)), nulls: make([]bool, len(idx))}
	for k, i := range idx {
		out.data[k] = s.data[i]
		out.nulls[k] = s.nulls[i]
	}
	return out
}

// NewColumn allocates an all-null column of the given kind.
func NewColumn(kind Kind, name string, n int) (Column, error) {
	switch kind {
	case KindBool:
		return NewBoolColumn(name, n), nil
	case KindInt:
		return NewIntColumn(name, n), nil
	case KindFloat:
		return NewFloatColumn(name, n), nil
	case KindString:
		return NewStringColumn(name, n), nil
	case KindTime:
		return NewTimeColumn(name, n), nil
	default:
		return nil, fmt.Errorf("invalid column kind %v for %s", kind, name)
	}
}

type BoolColumn struct{ series[bool] }

func NewBoolColumn(name string, n int) *BoolColumn { return &BoolColumn{newSeries[bool](name, n)} }
func (c *BoolColumn) Kind() Kind                   { return KindBool }
func (c *BoolColumn) Clone() Column                { return &BoolColumn{c.clone()} }
func (c *BoolColumn) Take(idx []int) Column        { return &BoolColumn{c.take(idx)} }

func (c *BoolColumn) SetValue(i int, v any) error {
	if v == nil {
		c.SetNull(i)
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		return fmt.Errorf("column %s expects bool, got %T", c.name, v)
	}
	c.Set(i, b)
	return nil
}

type IntColumn struct{ series[int64] }

func NewIntColumn(name string, n int) *IntColumn { return &IntColumn{newSeries[int64](name, n)} }
func (c *IntColumn) Kind() Kind                  { return KindInt }
func (c *IntColumn) Clone() Column               { return &IntColumn{c.clone()} }
func (c *IntColumn) Take(idx []int) Column       { return &IntColumn{c.take(idx)} }

func (c *IntColumn) SetValue(i int, v any) error {
	switch t := v.(type) {
	case nil:
		c.SetNull(i)
	case int:
		c.Set(i, int64(t))
	case int32:
		c.Set(i, int64(t))
	case int64:
		c.Set(i, t)
	case float64:
		c.Set(i, int64(t))
	default:
		return fmt.Errorf("column %s expects int/int64, got %T", c.name, v)
	}
	return nil
}

type FloatColumn struct{ series[float64] }

func NewFloatColumn(name string, n int) *FloatColumn {
	return &FloatColumn{newSeries[float64](name, n)}
}
func (c *FloatColumn) Kind() Kind            { return KindFloat }
func (c *FloatColumn) Clone() Column         { return &FloatColumn{c.clone()} }
func (c *FloatColumn) Take(idx []int) Column { return &FloatColumn{c.take(idx)} }

func (c *FloatColumn) SetValue(i int, v any) error {
	switch t := v.(type) {
	case nil:
		c.SetNull(i)
	case float32:
		c.Set(i, float64(t))
	case float64:
		c.Set(i, t)
	case int:
		c.Set(i, float64(t))
	case int64:
		c.Set(i, float64(t))
	default:
		return fmt.Errorf("column %s expects float64, got %T", c.name, v)
	}
	return nil
}

type StringColumn struct{ series[string] }

func NewStringColumn(name string, n int) *StringColumn {
	return &StringColumn{newSeries[string](name, n)}
}
func (c *StringColumn) Kind() Kind            { return KindString }
func (c *StringColumn) Clone() Column         { return &StringColumn{c.clone()} }
func (c *StringColumn) Take(idx []int) Column { return &StringColumn{c.take(idx)} }

func (c *StringColumn) SetValue(i int, v any) error {
	if v == nil {
		c.SetNull(i)
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("column %s expects string, got %T", c.name, v)
	}
	c.Set(i, s)
	return nil
}

type TimeColumn struct{ series[time.Time] }

func NewTimeColumn(name string, n int) *TimeColumn { return &TimeColumn{newSeries[time.Time](name, n)} }
func (c *TimeColumn) Kind() Kind                   { return KindTime }
func (c *TimeColumn) Clone() Column                { return &TimeColumn{c.clone()} }
func (c *TimeColumn) Take(idx []int) Column        { return &TimeColumn{c.take(idx)} }

func (c *TimeColumn) SetValue(i int, v any) error {
	if v == nil {
		c.SetNull(i)
		return nil
	}
	t, ok := v.(time.Time)
	if !ok {
		return fmt.Errorf("column %s expects time.Time, got %T", c.name, v)
	}
	c.Set(i, t)
	return nil
}
