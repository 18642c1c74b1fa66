package parquetio

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	local "github.com/xitongsys/parquet-go-source/local"
	pw "github.com/xitongsys/parquet-go/writer"

	"github.com/wdm0006/synthprep/pkg/frame"
)

type field struct {
	Tag string `json:"Tag"`
}

type schemaJSON struct {
	Tag    string  `json:"Tag"`
	Fields []field `json:"Fields"`
}

func parquetSchema(s frame.Schema) (string, error) {
	sc := schemaJSON{Tag: "name=schema, repetitiontype=REQUIRED"}
	for _, cs := range s.Columns {
		tag := "name=" + cs.Name + ", repetitiontype=OPTIONAL, type="
		switch cs.Type {
		case frame.KindFloat:
			tag += "DOUBLE"
		case frame.KindInt:
			tag += "INT64"
		case frame.KindBool:
			tag += "BOOLEAN"
		default:
			// times are stored as RFC3339 text
			tag += "BYTE_ARRAY, convertedtype=UTF8"
		}
		sc.Fields = append(sc.Fields, field{Tag: tag})
	}
	b, err := json.Marshal(sc)
	return string(b), err
}

// WriteAll writes f to a Parquet file at path.
func WriteAll(path string, f *frame.Frame) (err error) {
	schema, err := parquetSchema(f.Schema())
	if err != nil {
		return err
	}
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	w, err := pw.NewJSONWriter(schema, fw, 4)
	if err != nil {
		_ = fw.Close()
		return fmt.Errorf("parquet writer init: %w", err)
	}
	defer func() {
		if serr := w.WriteStop(); err == nil && serr != nil {
			err = fmt.Errorf("parquet flush: %w", serr)
		}
		if cerr := fw.Close(); err == nil {
			err = cerr
		}
	}()
	cols := f.Columns()
	for r := 0; r < f.Rows(); r++ {
		rec := make(map[string]any, len(cols))
		for _, col := range cols {
			switch v := col.Value(r).(type) {
			case nil:
			case time.Time:
				rec[col.Name()] = v.Format(frame.TimeLayout)
			default:
				rec[col.Name()] = v
			}
		}
		line, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := w.Write(string(line)); err != nil {
			return fmt.Errorf("parquet write row %d: %w", r, err)
		}
	}
	return nil
}
