// Package jsonlio reads and writes frames as JSON Lines, one object per row.
package jsonlio

import (
	"fmt"
	"io"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/wdm0006/synthprep/pkg/frame"
	iox "github.com/wdm0006/synthprep/pkg/io/ioutils"
)

type ReaderOptions struct {
	SampleRows int
}

type Reader struct {
	rc   io.Closer
	dec  *json.Decoder
	opt  ReaderOptions
	buf  []map[string]any
	keys []string
}

// Open opens a possibly compressed JSONL file, or stdin for "-".
func Open(path string, opt ReaderOptions) (*Reader, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	r := NewReaderFrom(rc, opt)
	r.rc = rc
	return r, nil
}

func NewReaderFrom(src io.Reader, opt ReaderOptions) *Reader {
	dec := json.NewDecoder(src)
	dec.UseNumber()
	return &Reader{dec: dec, opt: opt}
}

func (r *Reader) Close() error {
	if r.rc == nil {
		return nil
	}
	return r.rc.Close()
}

// InferSchema samples objects to find the keys, sorted, and their kinds.
func (r *Reader) InferSchema() (frame.Schema, error) {
	max := r.opt.SampleRows
	if max <= 0 {
		max = 100
	}
	var sample []map[string]any
	keysSet := map[string]struct{}{}
	for len(sample) < max {
		var m map[string]any
		if err := r.dec.Decode(&m); err != nil {
			if err == io.EOF {
				break
			}
			return frame.Schema{}, err
		}
		sample = append(sample, m)
		for k := range m {
			keysSet[k] = struct{}{}
		}
	}
	r.buf = append(r.buf, sample...)
	r.keys = make([]string, 0, len(keysSet))
	for k := range keysSet {
		r.keys = append(r.keys, k)
	}
	sort.Strings(r.keys)
	kinds := inferKinds(sample, r.keys)
	schema := frame.Schema{Columns: make([]frame.ColumnSchema, len(r.keys))}
	for i, k := range r.keys {
		schema.Columns[i] = frame.ColumnSchema{Name: k, Type: kinds[i], Nullable: true}
	}
	return schema, nil
}

// ReadAll loads the remaining objects into a frame of schema. Keys not in
// the schema are ignored and absent keys are null.
func (r *Reader) ReadAll(schema frame.Schema) (*frame.Frame, error) {
	f := frame.NewFrame(schema)
	for len(r.buf) > 0 {
		m := r.buf[0]
		r.buf = r.buf[1:]
		if err := setRow(f, m); err != nil {
			return nil, err
		}
	}
	for {
		var m map[string]any
		if err := r.dec.Decode(&m); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		if err := setRow(f, m); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func setRow(f *frame.Frame, m map[string]any) error {
	f.AppendNullRow()
	row := f.Rows() - 1
	for _, cs := range f.Schema().Columns {
		v, ok := m[cs.Name]
		if !ok || v == nil {
			continue
		}
		var raw string
		switch t := v.(type) {
		case json.Number:
			raw = t.String()
		case string:
			raw = t
		case bool:
			raw = fmt.Sprint(t)
		default:
			b, err := json.Marshal(t)
			if err != nil {
				return err
			}
			raw = string(b)
		}
		cell, err := frame.ParseCell(cs.Type, raw)
		if err != nil {
			return fmt.Errorf("jsonl row %d key %s: %w", row, cs.Name, err)
		}
		if cell != nil {
			if err := f.SetCell(row, cs.Name, cell); err != nil {
				return err
			}
		}
	}
	return nil
}

func inferKinds(sample []map[string]any, keys []string) []frame.Kind {
	kinds := make([]frame.Kind, len(keys))
	for i, k := range keys {
		nNum, nInt, nBool, nTime, nStr := 0, 0, 0, 0, 0
		for _, m := range sample {
			switch t := m[k].(type) {
			case nil:
			case json.Number:
				nNum++
				if !strings.ContainsAny(t.String(), ".eE") {
					nInt++
				}
			case bool:
				nBool++
			case string:
				if strings.TrimSpace(t) == "" {
					continue
				}
				if _, err := frame.ParseCell(frame.KindTime, t); err == nil {
					nTime++
				} else {
					nStr++
				}
			default:
				nStr++
			}
		}
		switch {
		case nStr > 0 || nNum+nBool+nTime == 0:
			kinds[i] = frame.KindString
		case nBool > 0 && nNum+nTime == 0:
			kinds[i] = frame.KindBool
		case nTime > 0 && nNum+nBool == 0:
			kinds[i] = frame.KindTime
		case nNum > 0 && nBool+nTime == 0:
			if nInt == nNum {
				kinds[i] = frame.KindInt
			} else {
				kinds[i] = frame.KindFloat
			}
		default:
			kinds[i] = frame.KindString
		}
	}
	return kinds
}
