package catalog

import (
	"errors"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
)

// XLSXSource reads the catalog from a spreadsheet export. The first sheet
// must carry a header row with the same columns as the CSV form
// (Department, Prescription, Fee). Clinic administrations tend to maintain
// the fee table in a spreadsheet; this loader accepts it directly.
type XLSXSource struct {
	path string

	mu      sync.Mutex
	entries []Entry
}

func NewXLSXSource(path string) *XLSXSource {
	return &XLSXSource{path: path}
}

func (s *XLSXSource) Load() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries != nil {
		return s.entries, nil
	}

	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return nil, ErrUnavailable
	}
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, ErrUnavailable
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrUnavailable
	}
	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, ErrUnavailable
	}
	if len(raw) == 0 {
		s.entries = []Entry{}
		return s.entries, nil
	}

	header := raw[0]
	rows := make([]map[string]string, 0, len(raw)-1)
	for _, rec := range raw[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}

	s.entries = entriesFromRows(rows)
	return s.entries, nil
}
