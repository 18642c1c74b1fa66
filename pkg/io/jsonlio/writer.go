package jsonlio

import (
	"io"
	"time"

	json "github.com/goccy/go-json"

	"github.com/wdm0006/synthprep/pkg/frame"
	iox "github.com/wdm0006/synthprep/pkg/io/ioutils"
)

// WriteAll writes f to path, one object per row with nulls omitted.
func WriteAll(path string, f *frame.Frame) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	if err := Write(out, f); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func Write(w io.Writer, f *frame.Frame) error {
	enc := json.NewEncoder(w)
	cols := f.Columns()
	for r := 0; r < f.Rows(); r++ {
		m := make(map[string]any, len(cols))
		for _, col := range cols {
			switch v := col.Value(r).(type) {
			case nil:
			case time.Time:
				m[col.Name()] = v.Format(frame.TimeLayout)
			default:
				m[col.Name()] = v
			}
		}
		if err := enc.Encode(m); err != nil {
			return err
		}
	}
	return nil
}
