// Package golearn converts between frames and golearn DenseInstances so a
// preprocessed table can be handed to golearn models.
package golearn

import (
	"fmt"
	"math"

	"github.com/sjwhitworth/golearn/base"

	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/processor"
)

// ToDenseInstances converts f into DenseInstances. Numeric, bool and time
// columns become float attributes with NaN for nulls; strings become
// categorical attributes. class names the class attribute; empty means none.
func ToDenseInstances(f *frame.Frame, class string) (*base.DenseInstances, error) {
	if class != "" && !f.Has(class) {
		return nil, fmt.Errorf("golearn: unknown class column %s", class)
	}
	cols := f.Columns()
	attrs := make([]base.Attribute, len(cols))
	for i, col := range cols {
		if col.Kind() == frame.KindString {
			ca := new(base.CategoricalAttribute)
			ca.SetName(col.Name())
			attrs[i] = ca
		} else {
			attrs[i] = base.NewFloatAttribute(col.Name())
		}
	}
	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		specs[i] = inst.AddAttribute(a)
	}
	if err := inst.Extend(f.Rows()); err != nil {
		return nil, err
	}
	for c, col := range cols {
		if col.Kind() == frame.KindString {
			for r := 0; r < f.Rows(); r++ {
				inst.Set(specs[c], r, attrs[c].GetSysValFromString(frame.FormatCell(col, r)))
			}
			continue
		}
		vals, valid, err := processor.Floats(col)
		if err != nil {
			return nil, err
		}
		for r, v := range vals {
			if !valid[r] {
				v = math.NaN()
			}
			inst.Set(specs[c], r, base.PackFloatToBytes(v))
		}
	}
	if class != "" {
		for i, col := range cols {
			if col.Name() == class {
				if err := inst.AddClassAttribute(attrs[i]); err != nil {
					return nil, err
				}
			}
		}
	}
	return inst, nil
}

// FromDenseInstances converts DenseInstances into a frame of float and
// string columns. NaN floats and empty categories are null.
func FromDenseInstances(inst *base.DenseInstances) (*frame.Frame, error) {
	attrs := inst.AllAttributes()
	schema := frame.Schema{Columns: make([]frame.ColumnSchema, len(attrs))}
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		k := frame.KindString
		if _, ok := a.(*base.FloatAttribute); ok {
			k = frame.KindFloat
		}
		schema.Columns[i] = frame.ColumnSchema{Name: a.GetName(), Type: k, Nullable: true}
		spec, err := inst.GetAttribute(a)
		if err != nil {
			return nil, err
		}
		specs[i] = spec
	}
	f := frame.NewFrame(schema)
	_, nrows := inst.Size()
	for r := 0; r < nrows; r++ {
		f.AppendNullRow()
		for c, cs := range schema.Columns {
			raw := inst.Get(specs[c], r)
			var v any
			if cs.Type == frame.KindFloat {
				if x := base.UnpackBytesToFloat(raw); !math.IsNaN(x) {
					v = x
				}
			} else if s := specs[c].GetAttribute().GetStringFromSysVal(raw); s != "" {
				v = s
			}
			if v == nil {
				continue
			}
			if err := f.SetCell(r, cs.Name, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}
