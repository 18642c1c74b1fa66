// Package profile summarises frames: null share, distinct values and
// numeric ranges per column, and the metadata a preprocessing run needs.
package profile

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/zeebo/xxh3"

	"github.com/wdm0006/synthprep/pkg/frame"
)

type NumStats struct {
	Min  float64
	Max  float64
	Sum  float64
	Mean float64
}

type ColumnProfile struct {
	Name  string
	Kind  frame.Kind
	Count int
	Nulls int
	// Distinct counts distinct xxh3 hashes of the formatted values.
	Distinct int
	Num      *NumStats
	Top      []Freq
}

type Freq struct {
	Value string
	Count int
}

// NullShare is the fraction of rows where the column is null.
func (c ColumnProfile) NullShare() float64 {
	n := c.Count + c.Nulls
	if n == 0 {
		return 0
	}
	return float64(c.Nulls) / float64(n)
}

type Collector struct {
	cols     []ColumnProfile
	index    map[string]int
	seen     []map[uint64]struct{}
	freqs    []map[string]int
	topK     int
	rows     int
	nullRows int
}

func NewCollector(schema frame.Schema, topK int) *Collector {
	c := &Collector{index: make(map[string]int), topK: topK}
	c.cols = make([]ColumnProfile, len(schema.Columns))
	c.seen = make([]map[uint64]struct{}, len(schema.Columns))
	c.freqs = make([]map[string]int, len(schema.Columns))
	for i, cs := range schema.Columns {
		c.cols[i] = ColumnProfile{Name: cs.Name, Kind: cs.Type}
		switch cs.Type {
		case frame.KindFloat, frame.KindInt, frame.KindTime:
			c.cols[i].Num = &NumStats{Min: math.Inf(1), Max: math.Inf(-1)}
		}
		c.seen[i] = make(map[uint64]struct{})
		c.freqs[i] = make(map[string]int)
		c.index[cs.Name] = i
	}
	return c
}

// ConsumeFrame adds the rows of f. Columns unknown to the collector are
// skipped.
func (c *Collector) ConsumeFrame(f *frame.Frame) {
	anyNull := make([]bool, f.Rows())
	for _, col := range f.Columns() {
		idx, ok := c.index[col.Name()]
		if !ok {
			continue
		}
		cp := &c.cols[idx]
		for i := 0; i < col.Len(); i++ {
			if col.IsNull(i) {
				cp.Nulls++
				anyNull[i] = true
				continue
			}
			cp.Count++
			s := frame.FormatCell(col, i)
			c.seen[idx][xxh3.HashString(s)] = struct{}{}
			if c.topK > 0 && (cp.Kind == frame.KindString || cp.Kind == frame.KindBool) {
				c.freqs[idx][s]++
			}
			if cp.Num != nil {
				v := number(col.Value(i))
				cp.Num.Min = math.Min(cp.Num.Min, v)
				cp.Num.Max = math.Max(cp.Num.Max, v)
				cp.Num.Sum += v
			}
		}
	}
	c.rows += f.Rows()
	for _, n := range anyNull {
		if n {
			c.nullRows++
		}
	}
}

func number(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case interface{ Unix() int64 }:
		return float64(t.Unix())
	}
	return math.NaN()
}

// Rows is the number of rows consumed.
func (c *Collector) Rows() int { return c.rows }

// RowNullShare is the fraction of rows with at least one null cell.
func (c *Collector) RowNullShare() float64 {
	if c.rows == 0 {
		return 0
	}
	return float64(c.nullRows) / float64(c.rows)
}

// Profiles returns the finished per-column summaries in schema order.
func (c *Collector) Profiles() []ColumnProfile {
	out := make([]ColumnProfile, len(c.cols))
	for i, cp := range c.cols {
		cp.Distinct = len(c.seen[i])
		if cp.Num != nil {
			num := *cp.Num
			if cp.Count > 0 {
				num.Mean = num.Sum / float64(cp.Count)
			}
			cp.Num = &num
		}
		cp.Top = top(c.freqs[i], c.topK)
		out[i] = cp
	}
	return out
}

func top(freqs map[string]int, k int) []Freq {
	if k <= 0 || len(freqs) == 0 {
		return nil
	}
	arr := make([]Freq, 0, len(freqs))
	for v, n := range freqs {
		arr = append(arr, Freq{v, n})
	}
	sort.Slice(arr, func(i, j int) bool {
		if arr[i].Count != arr[j].Count {
			return arr[i].Count > arr[j].Count
		}
		return arr[i].Value < arr[j].Value
	})
	if k < len(arr) {
		arr = arr[:k]
	}
	return arr
}

// Report renders the profile as a table.
func (c *Collector) Report(w io.Writer, title string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	if title != "" {
		t.SetTitle(title)
	}
	t.AppendHeader(table.Row{"column", "kind", "count", "nulls", "null share", "distinct", "min", "max", "mean", "top"})
	for _, cp := range c.Profiles() {
		lo, hi, mean := "-", "-", "-"
		if cp.Num != nil && cp.Count > 0 {
			lo = fmt.Sprintf("%.6g", cp.Num.Min)
			hi = fmt.Sprintf("%.6g", cp.Num.Max)
			mean = fmt.Sprintf("%.6g", cp.Num.Mean)
		}
		topText := "-"
		if len(cp.Top) > 0 {
			topText = ""
			for i, f := range cp.Top {
				if i > 0 {
					topText += ", "
				}
				topText += fmt.Sprintf("%q:%d", f.Value, f.Count)
			}
		}
		t.AppendRow(table.Row{cp.Name, cp.Kind, cp.Count, cp.Nulls, fmt.Sprintf("%.3f", cp.NullShare()), cp.Distinct, lo, hi, mean, topText})
	}
	t.AppendFooter(table.Row{"rows", c.rows, "", "", fmt.Sprintf("%.3f", c.RowNullShare())})
	t.Render()
}
