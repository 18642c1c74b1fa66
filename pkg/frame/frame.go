package frame

import (
	"fmt"
)

// Schema describes the logical shape of a dataset.
type Schema struct {
	Columns []ColumnSchema
}

type ColumnSchema struct {
	Name     string
	Type     Kind
	Nullable bool
}

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	out := make([]string, len(s.Columns))
	for i, cs := range s.Columns {
		out[i] = cs.Name
	}
	return out
}

// Frame is a columnar container for tabular data. Rows are addressed by
// position; there is no separate row index.
type Frame struct {
	schema Schema
	cols   []Column
	index  map[string]int // name -> col index
	nrows  int
}

func NewFrame(s Schema) *Frame {
	f := &Frame{schema: Schema{Columns: append([]ColumnSchema(nil), s.Columns...)}, cols: make([]Column, len(s.Columns)), index: make(map[string]int)}
	for i, cs := range s.Columns {
		col, err := NewColumn(cs.Type, cs.Name, 0)
		if err != nil {
			panic(err)
		}
		f.cols[i] = col
		f.index[cs.Name] = i
	}
	return f
}

// FromColumns builds a frame from equally sized columns with unique names.
func FromColumns(cols ...Column) (*Frame, error) {
	f := &Frame{cols: make([]Column, 0, len(cols)), index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, dup := f.index[c.Name()]; dup {
			return nil, fmt.Errorf("duplicate column: %s", c.Name())
		}
		if i > 0 && c.Len() != f.nrows {
			return nil, fmt.Errorf("column %s has %d rows, want %d", c.Name(), c.Len(), f.nrows)
		}
		f.nrows = c.Len()
		f.index[c.Name()] = i
		f.cols = append(f.cols, c)
		f.schema.Columns = append(f.schema.Columns, ColumnSchema{Name: c.Name(), Type: c.Kind(), Nullable: true})
	}
	return f, nil
}

func (f *Frame) Schema() Schema    { return f.schema }
func (f *Frame) Rows() int         { return f.nrows }
func (f *Frame) Cols() int         { return len(f.cols) }
func (f *Frame) Names() []string   { return f.schema.Names() }
func (f *Frame) Columns() []Column { return append([]Column(nil), f.cols...) }
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

func (f *Frame) ColumnByName(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// AppendNullRow appends a row with all-null values.
func (f *Frame) AppendNullRow() {
	for _, c := range f.cols {
		switch col := c.(type) {
		case *BoolColumn:
			col.AppendNull()
		case *IntColumn:
			col.AppendNull()
		case *FloatColumn:
			col.AppendNull()
		case *StringColumn:
			col.AppendNull()
		case *TimeColumn:
			col.AppendNull()
		default:
			panic("unknown column type")
		}
	}
	f.nrows++
}

// SetCell sets a single cell value by name (row must exist).
func (f *Frame) SetCell(row int, name string, v any) error {
	i, ok := f.index[name]
	if !ok {
		return fmt.Errorf("unknown column: %s", name)
	}
	return f.cols[i].SetValue(row, v)
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := &Frame{schema: Schema{Columns: append([]ColumnSchema(nil), f.schema.Columns...)}, cols: make([]Column, len(f.cols)), index: make(map[string]int, len(f.index)), nrows: f.nrows}
	for i, c := range f.cols {
		out.cols[i] = c.Clone()
	}
	for k, v := range f.index {
		out.index[k] = v
	}
	return out
}

// ReplaceColumn swaps in c for the existing column of the same name. The
// row count must not change; the kind may.
func (f *Frame) ReplaceColumn(c Column) error {
	i, ok := f.index[c.Name()]
	if !ok {
		return fmt.Errorf("unknown column: %s", c.Name())
	}
	if c.Len() != f.nrows {
		return fmt.Errorf("column %s has %d rows, frame has %d", c.Name(), c.Len(), f.nrows)
	}
	f.cols[i] = c
	f.schema.Columns[i].Type = c.Kind()
	return nil
}

// Filter returns a new frame holding the rows where keep is true. Row
// positions in the result are renumbered from zero.
func (f *Frame) Filter(keep []bool) (*Frame, error) {
	if len(keep) != f.nrows {
		return nil, fmt.Errorf("filter mask has %d entries, frame has %d rows", len(keep), f.nrows)
	}
	idx := make([]int, 0, len(keep))
	for i, k := range keep {
		if k {
			idx = append(idx, i)
		}
	}
	out := &Frame{schema: Schema{Columns: append([]ColumnSchema(nil), f.schema.Columns...)}, cols: make([]Column, len(f.cols)), index: make(map[string]int, len(f.index)), nrows: len(idx)}
	for i, c := range f.cols {
		out.cols[i] = c.Take(idx)
	}
	for k, v := range f.index {
		out.index[k] = v
	}
	return out, nil
}
