// Package encoder maps categorical columns to numbers and back.
package encoder

import (
	"fmt"
	"sort"
	"time"

	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/processor"
)

var (
	_ processor.Inverter = (*Uniform)(nil)
	_ processor.Seeder   = (*Uniform)(nil)
	_ processor.Inverter = (*Label)(nil)
)

type base struct {
	method string
	fitted bool
	kind   frame.Kind
	labels []any
	codes  map[any]int
}

func (b *base) Method() string         { return b.method }
func (b *base) Stage() processor.Stage { return processor.Encoder }
func (b *base) IsGlobal() bool         { return false }

// Labels returns the fitted categories in code order.
func (b *base) Labels() []any { return append([]any(nil), b.labels...) }

// code looks up the category of a non-null cell.
func (b *base) code(col frame.Column, i int) (int, error) {
	v := col.Value(i)
	c, ok := b.codes[v]
	if !ok {
		return 0, fmt.Errorf("%w: %s: column %s has category %v unseen at fit", processor.ErrTypeMismatch, b.method, col.Name(), v)
	}
	return c, nil
}

// decode rebuilds a column of the fitted kind from per-row codes; code -1
// marks a null.
func (b *base) decode(name string, codes []int) (frame.Column, error) {
	out, err := frame.NewColumn(b.kind, name, len(codes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", processor.ErrTypeMismatch, err)
	}
	for i, c := range codes {
		if c < 0 {
			continue
		}
		if err := out.SetValue(i, b.labels[c]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// count tallies the non-null categories of col.
func count(col frame.Column) map[any]int {
	counts := make(map[any]int)
	for i := 0; i < col.Len(); i++ {
		if v := col.Value(i); v != nil {
			counts[v]++
		}
	}
	return counts
}

func index(labels []any) map[any]int {
	m := make(map[any]int, len(labels))
	for i, l := range labels {
		m[l] = i
	}
	return m
}

// less orders two category values of the same kind.
func less(a, b any) bool {
	switch x := a.(type) {
	case string:
		return x < b.(string)
	case int64:
		return x < b.(int64)
	case float64:
		return x < b.(float64)
	case bool:
		return !x && b.(bool)
	case time.Time:
		return x.Before(b.(time.Time))
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func sorted(counts map[any]int) []any {
	out := make([]any, 0, len(counts))
	for k := range counts {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
