// Package parse converts the simulator's raw dump files into domain
// collections. Parsing is row-oriented with a header row naming fields.
// Field-level malformation is recovered locally: a field that fails to
// decode gets its zero/absent value and the row is kept. Only stream-level
// read failures are reported as errors.
package parse

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// row is one data record with access to fields by header name.
type row struct {
	cols map[string]int
	rec  []string
}

// field returns the named column's raw value, or "" when the column is
// missing from the header or the record is short.
func (r row) field(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return r.rec[i]
}

// forEachRow reads a comma-delimited table with a header row and invokes
// fn for every data row. Short and long records are tolerated.
func forEachRow(data []byte, fn func(row)) error {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil // empty stream is a valid, empty table
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}
		fn(row{cols: cols, rec: rec})
	}
}
