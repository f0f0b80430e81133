// Package csvtable implements the flat-file table the kiosk uses as its
// reservation store. A table is a single CSV file with a header row; every
// mutation reads the whole file, changes rows in memory, and rewrites the
// whole file. There is no locking and no partial-write protection: two
// writers that both read before either writes will lose one update. The
// store layer above deliberately preserves this behavior.
package csvtable

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Table holds one parsed CSV table: the header in file order and each row as
// a column→value map. Values are always strings.
type Table struct {
	Header []string
	Rows   []map[string]string
}

// Read parses the file at path. A leading UTF-8 BOM on the header is
// stripped. A missing file is reported with os.ErrNotExist wrapped.
func Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read table header %s: %w", path, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	t := &Table{Header: header}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read table row %s: %w", path, err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Write rewrites the entire file at path with the table's header and rows.
// Columns a row does not carry are written empty.
func Write(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rewrite table %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return fmt.Errorf("write table header %s: %w", path, err)
	}
	rec := make([]string, len(t.Header))
	for _, row := range t.Rows {
		for i, col := range t.Header {
			rec[i] = row[col]
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write table row %s: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}

// Append adds one row to the file at path, creating the file with the given
// header when it does not exist or is empty. Existing rows are not touched.
func Append(path string, header []string, row map[string]string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("append to table %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat table %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("write table header %s: %w", path, err)
		}
	}
	rec := make([]string, len(header))
	for i, col := range header {
		rec[i] = row[col]
	}
	if err := w.Write(rec); err != nil {
		return fmt.Errorf("append table row %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}

// HasColumns reports whether every named column is present in the header.
func (t *Table) HasColumns(cols ...string) bool {
	for _, c := range cols {
		found := false
		for _, h := range t.Header {
			if h == c {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
