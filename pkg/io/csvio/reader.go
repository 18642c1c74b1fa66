// Package csvio reads and writes frames as delimited text.
package csvio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/wdm0006/synthprep/pkg/frame"
	iox "github.com/wdm0006/synthprep/pkg/io/ioutils"
)

type ReaderOptions struct {
	HasHeader  bool
	Delimiter  rune // 0 = sniff, default ','
	SampleRows int  // for inference; default 100
	Strict     bool // if true, error on short/long records and unparsable cells
}

type Reader struct {
	rc  io.ReadCloser
	r   *csv.Reader
	opt ReaderOptions
	buf [][]string
	// header names once read; nil until then
	header []string
	// repair/warning counters
	shortRecords int
	longRecords  int
	badCells     int
}

// Open opens a possibly compressed CSV file, or stdin for "-". A leading
// byte order mark is dropped and UTF-16 input is decoded.
func Open(path string, opt ReaderOptions) (*Reader, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	r := NewReaderFrom(rc, opt)
	r.rc = rc
	return r, nil
}

// NewReaderFrom constructs a Reader from an arbitrary io.Reader. A zero
// delimiter is sniffed from the first 4KiB.
func NewReaderFrom(src io.Reader, opt ReaderOptions) *Reader {
	br := bufio.NewReader(transform.NewReader(src, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	rr := csv.NewReader(br)
	if opt.Delimiter == 0 {
		sample, _ := br.Peek(4096)
		d, lazy := sniffDelimiterAndQuotes(sample)
		rr.Comma, rr.LazyQuotes = d, lazy
	} else {
		rr.Comma = opt.Delimiter
	}
	rr.FieldsPerRecord = -1
	return &Reader{r: rr, opt: opt}
}

func (r *Reader) Close() error {
	if r.rc == nil {
		return nil
	}
	return r.rc.Close()
}

// InferSchema reads the header (if present) and samples rows to determine
// column kinds. Sampled rows are kept for ReadAll.
func (r *Reader) InferSchema() (frame.Schema, error) {
	rec, err := r.r.Read()
	if err != nil {
		return frame.Schema{}, err
	}
	names := make([]string, len(rec))
	if r.opt.HasHeader {
		for i := range rec {
			names[i] = strings.ToValidUTF8(strings.TrimSpace(rec[i]), "?")
		}
		r.header = names
		if rec, err = r.r.Read(); err == io.EOF {
			return schemaOf(names, make([]frame.Kind, len(names))), nil
		} else if err != nil {
			return frame.Schema{}, err
		}
	} else {
		for i := range names {
			names[i] = "col_" + strconv.Itoa(i)
		}
	}

	sample := [][]string{rec}
	max := r.opt.SampleRows
	if max <= 0 {
		max = 100
	}
	for i := 1; i < max; i++ {
		rr, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return frame.Schema{}, err
		}
		sample = append(sample, rr)
	}
	r.buf = append(r.buf, sample...)
	return schemaOf(names, inferKinds(sample, len(names))), nil
}

func schemaOf(names []string, kinds []frame.Kind) frame.Schema {
	s := frame.Schema{Columns: make([]frame.ColumnSchema, len(names))}
	for i := range names {
		k := kinds[i]
		if k == frame.KindInvalid {
			k = frame.KindString
		}
		s.Columns[i] = frame.ColumnSchema{Name: names[i], Type: k, Nullable: true}
	}
	return s
}

// ReadAll loads the remaining records into a frame of schema. With a
// header, schema columns are matched to fields by name, so a schema taken
// from metadata may list columns in any order.
func (r *Reader) ReadAll(schema frame.Schema) (*frame.Frame, error) {
	f := frame.NewFrame(schema)
	if r.opt.HasHeader && r.header == nil {
		rec, err := r.r.Read()
		if err == io.EOF {
			return f, nil
		}
		if err != nil {
			return nil, err
		}
		r.header = make([]string, len(rec))
		for i := range rec {
			r.header[i] = strings.TrimSpace(rec[i])
		}
	}
	pos, err := r.positions(schema)
	if err != nil {
		return nil, err
	}
	for len(r.buf) > 0 {
		rec := r.buf[0]
		r.buf = r.buf[1:]
		if err := r.appendRecord(f, pos, rec); err != nil {
			return nil, err
		}
	}
	for {
		rec, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := r.appendRecord(f, pos, rec); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// positions maps each schema column to its field index.
func (r *Reader) positions(schema frame.Schema) ([]int, error) {
	pos := make([]int, len(schema.Columns))
	if r.header == nil {
		for i := range pos {
			pos[i] = i
		}
		return pos, nil
	}
	at := make(map[string]int, len(r.header))
	for i, h := range r.header {
		at[h] = i
	}
	for i, cs := range schema.Columns {
		p, ok := at[cs.Name]
		if !ok {
			return nil, fmt.Errorf("csv header lacks column %s", cs.Name)
		}
		pos[i] = p
	}
	return pos, nil
}

func (r *Reader) appendRecord(f *frame.Frame, pos []int, rec []string) error {
	cols := f.Schema().Columns
	want := len(cols)
	if r.header != nil {
		want = len(r.header)
	}
	f.AppendNullRow()
	row := f.Rows() - 1
	switch {
	case len(rec) > want:
		r.longRecords++
		if r.opt.Strict {
			return fmt.Errorf("csv long record at row %d: need %d fields, got %d", row, want, len(rec))
		}
	case len(rec) < want:
		r.shortRecords++
		if r.opt.Strict {
			return fmt.Errorf("csv short record at row %d: need %d fields, got %d", row, want, len(rec))
		}
	}
	for i, cs := range cols {
		if pos[i] >= len(rec) {
			continue
		}
		v, err := frame.ParseCell(cs.Type, rec[pos[i]])
		if err != nil {
			r.badCells++
			if r.opt.Strict {
				return fmt.Errorf("csv row %d column %s: %w", row, cs.Name, err)
			}
			continue
		}
		if v != nil {
			if err := f.SetCell(row, cs.Name, v); err != nil {
				return err
			}
		}
	}
	return nil
}

var numre = regexp.MustCompile(`^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`)

func inferKinds(rows [][]string, ncol int) []frame.Kind {
	kinds := make([]frame.Kind, ncol)
	for c := 0; c < ncol; c++ {
		num, integer, boolean, tm, str := 0, 0, 0, 0, 0
		for _, row := range rows {
			if c >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[c])
			if v == "" {
				continue
			}
			lv := strings.ToLower(v)
			switch {
			case numre.MatchString(v):
				num++
				if !strings.ContainsAny(v, ".eE") {
					integer++
				}
			case lv == "true" || lv == "false":
				boolean++
			default:
				if _, err := frame.ParseCell(frame.KindTime, v); err == nil {
					tm++
				} else {
					str++
				}
			}
		}
		switch {
		case str > 0 || num+boolean+tm == 0:
			kinds[c] = frame.KindString
		case tm > 0 && num == 0 && boolean == 0:
			kinds[c] = frame.KindTime
		case boolean > 0 && num == 0 && tm == 0:
			kinds[c] = frame.KindBool
		case num > 0 && boolean == 0 && tm == 0:
			if integer == num {
				kinds[c] = frame.KindInt
			} else {
				kinds[c] = frame.KindFloat
			}
		default:
			kinds[c] = frame.KindString
		}
	}
	return kinds
}

func sniffDelimiterAndQuotes(sample []byte) (rune, bool) {
	if len(sample) == 0 {
		return ',', false
	}
	// only the first line counts; quoted fields may hold any delimiter
	if i := strings.IndexByte(string(sample), '\n'); i >= 0 {
		sample = sample[:i]
	}
	best, bestCount := byte(','), -1
	for _, c := range []byte{',', '\t', ';', '|'} {
		cnt := strings.Count(string(sample), string(c))
		if cnt > bestCount {
			bestCount, best = cnt, c
		}
	}
	lazy := strings.Count(string(sample), `"`)%2 != 0
	return rune(best), lazy
}

// Warnings returns a summary of the repairs made while reading.
func (r *Reader) Warnings() string {
	var parts []string
	if r.shortRecords > 0 {
		parts = append(parts, fmt.Sprintf("short_records=%d", r.shortRecords))
	}
	if r.longRecords > 0 {
		parts = append(parts, fmt.Sprintf("long_records=%d", r.longRecords))
	}
	if r.badCells > 0 {
		parts = append(parts, fmt.Sprintf("bad_cells=%d", r.badCells))
	}
	return strings.Join(parts, ", ")
}
