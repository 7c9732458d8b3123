package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spherical-ai/hoidap/internal/reference"
)

// CSVSource reads each table from <dir>/<table name>.csv.
type CSVSource struct {
	dir string
}

// NewCSVSource creates a source over a directory of CSV files.
func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{dir: dir}
}

// FetchTable reads and parses the CSV file named after the table.
func (s *CSVSource) FetchTable(ctx context.Context, name string) (*reference.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, reference.NewSourceError("fetch", name, err)
	}
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, &reference.SourceError{Table: name, Op: "fetch", Err: reference.ErrTableNotFound}
	}

	f, err := os.Open(filepath.Join(s.dir, name+".csv"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, &reference.SourceError{Table: name, Op: "fetch", Err: reference.ErrTableNotFound}
	}
	if err != nil {
		return nil, &reference.SourceError{Table: name, Op: "fetch", Err: err}
	}
	defer f.Close()

	return parseCSV(name, f)
}

// Close is a no-op for the CSV source.
func (s *CSVSource) Close() error {
	return nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// parseCSV reads a header row followed by data rows. Header cells are
// trimmed, a leading BOM is dropped, short rows are padded and fully blank
// rows are skipped.
func parseCSV(name string, r io.Reader) (*reference.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &reference.SourceError{Table: name, Op: "read", Err: err}
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, &reference.SourceError{Table: name, Op: "parse", Err: err}
	}

	return fromRecords(name, records), nil
}

func fromRecords(name string, records [][]string) *reference.Table {
	t := &reference.Table{Name: name}
	if len(records) == 0 {
		return t
	}

	t.Columns = make([]string, len(records[0]))
	for i, h := range records[0] {
		t.Columns[i] = strings.TrimSpace(h)
	}

	for _, rec := range records[1:] {
		if blankRow(rec) {
			continue
		}
		row := make([]string, len(t.Columns))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t
}

func blankRow(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// String identifies the source in logs.
func (s *CSVSource) String() string {
	return fmt.Sprintf("csv(%s)", s.dir)
}
