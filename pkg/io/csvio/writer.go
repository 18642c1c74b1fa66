package csvio

import (
	"encoding/csv"
	"io"

	"github.com/wdm0006/synthprep/pkg/frame"
	iox "github.com/wdm0006/synthprep/pkg/io/ioutils"
)

type WriterOptions struct {
	Delimiter rune // default ','
}

// WriteAll writes a frame with a header row to path; see
// ioutils.CreateMaybeCompressed for compression and "-".
func WriteAll(path string, f *frame.Frame, opt WriterOptions) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	if err := Write(out, f, opt); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// Write encodes f to w. Nulls become empty fields and times RFC 3339.
func Write(w io.Writer, f *frame.Frame, opt WriterOptions) error {
	cw := csv.NewWriter(w)
	if opt.Delimiter != 0 {
		cw.Comma = opt.Delimiter
	}
	if err := cw.Write(f.Names()); err != nil {
		return err
	}
	cols := f.Columns()
	row := make([]string, len(cols))
	for r := 0; r < f.Rows(); r++ {
		for c, col := range cols {
			row[c] = frame.FormatCell(col, r)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
