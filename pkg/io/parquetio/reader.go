// Package parquetio reads frames from Parquet with segmentio/parquet-go and
// writes them with xitongsys/parquet-go.
package parquetio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	parquet "github.com/segmentio/parquet-go"

	"github.com/wdm0006/synthprep/pkg/frame"
)

type Reader struct {
	file   *os.File
	rows   []map[string]any
	schema frame.Schema
}

// Open reads every row of path and infers the schema from the first
// sampleRows of them. Keys are sorted by name.
func Open(path string, sampleRows int) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := parquet.NewGenericReader[map[string]any](f)
	defer func() { _ = r.Close() }()
	var rows []map[string]any
	buf := make([]map[string]any, 1024)
	for {
		for i := range buf {
			buf[i] = map[string]any{}
		}
		n, err := r.Read(buf)
		rows = append(rows, buf[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			_ = f.Close()
			return nil, fmt.Errorf("parquet read %s: %w", path, err)
		}
		if n == 0 {
			break
		}
	}
	if sampleRows <= 0 {
		sampleRows = 100
	}
	sample := rows
	if len(sample) > sampleRows {
		sample = sample[:sampleRows]
	}
	return &Reader{file: f, rows: rows, schema: inferSchema(sample)}, nil
}

func (r *Reader) Close() error { return r.file.Close() }

func (r *Reader) Schema() frame.Schema { return r.schema }

// ReadAll builds a frame of schema from the buffered rows. A zero schema
// means the inferred one.
func (r *Reader) ReadAll(schema frame.Schema) (*frame.Frame, error) {
	if len(schema.Columns) == 0 {
		schema = r.schema
	}
	f := frame.NewFrame(schema)
	for _, m := range r.rows {
		f.AppendNullRow()
		if err := setRow(f, f.Rows()-1, m); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func text(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []byte:
		return string(t), true
	}
	return "", false
}

func inferSchema(rows []map[string]any) frame.Schema {
	keysSet := map[string]struct{}{}
	for _, m := range rows {
		for k := range m {
			keysSet[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(keysSet))
	for k := range keysSet {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	schema := frame.Schema{Columns: make([]frame.ColumnSchema, len(keys))}
	for i, k := range keys {
		schema.Columns[i] = frame.ColumnSchema{Name: k, Type: kindOf(rows, k), Nullable: true}
	}
	return schema
}

func kindOf(rows []map[string]any, k string) frame.Kind {
	nFloat, nInt, nBool, nTime, nStr := 0, 0, 0, 0, 0
	for _, m := range rows {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float32, float64:
			nFloat++
		case int32, int64, int:
			nInt++
		case bool:
			nBool++
		default:
			s, ok := text(t)
			if !ok {
				nStr++
				continue
			}
			if strings.TrimSpace(s) == "" {
				continue
			}
			if _, err := frame.ParseCell(frame.KindTime, s); err == nil {
				nTime++
			} else {
				nStr++
			}
		}
	}
	switch {
	case nStr > 0:
		return frame.KindString
	case nFloat > 0 && nBool+nTime == 0:
		return frame.KindFloat
	case nInt > 0 && nBool+nTime == 0:
		return frame.KindInt
	case nBool > 0 && nInt+nFloat+nTime == 0:
		return frame.KindBool
	case nTime > 0 && nInt+nFloat+nBool == 0:
		return frame.KindTime
	}
	return frame.KindString
}

func setRow(f *frame.Frame, row int, m map[string]any) error {
	for _, cs := range f.Schema().Columns {
		v, ok := m[cs.Name]
		if !ok || v == nil {
			continue
		}
		var raw string
		switch t := v.(type) {
		case float32:
			raw = strconv.FormatFloat(float64(t), 'g', -1, 32)
		case float64:
			raw = strconv.FormatFloat(t, 'g', -1, 64)
		default:
			if s, ok := text(t); ok {
				raw = s
			} else {
				raw = fmt.Sprint(t)
			}
		}
		cell, err := frame.ParseCell(cs.Type, raw)
		if err != nil {
			return fmt.Errorf("parquet row %d column %s: %w", row, cs.Name, err)
		}
		if cell != nil {
			if err := f.SetCell(row, cs.Name, cell); err != nil {
				return err
			}
		}
	}
	return nil
}
