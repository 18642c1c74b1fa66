// Package dataset reads and writes whole frames in any supported file
// format, picked from the path unless given.
package dataset

import (
	"fmt"

	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/io/csvio"
	iox "github.com/wdm0006/synthprep/pkg/io/ioutils"
	"github.com/wdm0006/synthprep/pkg/io/jsonlio"
	"github.com/wdm0006/synthprep/pkg/io/parquetio"
)

type Options struct {
	// Format is csv, tsv, jsonl or parquet. Empty means from the extension.
	Format     string
	Delimiter  rune
	NoHeader   bool
	SampleRows int
	Strict     bool
}

func (o Options) format(path string) (string, error) {
	if o.Format != "" {
		return o.Format, nil
	}
	return iox.Format(path)
}

// Read loads path into a frame. A schema with no columns is inferred from
// the data; otherwise columns are decoded by name with the declared kinds.
func Read(path string, schema frame.Schema, opt Options) (*frame.Frame, error) {
	format, err := opt.format(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case "csv", "tsv":
		ro := csvio.ReaderOptions{HasHeader: !opt.NoHeader, Delimiter: opt.Delimiter, SampleRows: opt.SampleRows, Strict: opt.Strict}
		if format == "tsv" && ro.Delimiter == 0 {
			ro.Delimiter = '\t'
		}
		r, err := csvio.Open(path, ro)
		if err != nil {
			return nil, err
		}
		defer func() { _ = r.Close() }()
		if len(schema.Columns) == 0 {
			if schema, err = r.InferSchema(); err != nil {
				return nil, err
			}
		}
		return r.ReadAll(schema)
	case "jsonl":
		r, err := jsonlio.Open(path, jsonlio.ReaderOptions{SampleRows: opt.SampleRows})
		if err != nil {
			return nil, err
		}
		defer func() { _ = r.Close() }()
		if len(schema.Columns) == 0 {
			if schema, err = r.InferSchema(); err != nil {
				return nil, err
			}
		}
		return r.ReadAll(schema)
	case "parquet":
		r, err := parquetio.Open(path, opt.SampleRows)
		if err != nil {
			return nil, err
		}
		defer func() { _ = r.Close() }()
		return r.ReadAll(schema)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// Write stores f at path.
func Write(path string, f *frame.Frame, opt Options) error {
	format, err := opt.format(path)
	if err != nil {
		return err
	}
	switch format {
	case "csv", "tsv":
		wo := csvio.WriterOptions{Delimiter: opt.Delimiter}
		if format == "tsv" && wo.Delimiter == 0 {
			wo.Delimiter = '\t'
		}
		return csvio.WriteAll(path, f, wo)
	case "jsonl":
		return jsonlio.WriteAll(path, f)
	case "parquet":
		return parquetio.WriteAll(path, f)
	}
	return fmt.Errorf("unsupported format %q", format)
}
