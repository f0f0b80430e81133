package catalog

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/mango0421/barrier-free-kiosk/internal/platform/csvtable"
)

// Source loads the full catalog as raw entries. Implementations cache
// after the first successful load; the catalog is read-only at runtime.
// Fees are not validated at load time.
type Source interface {
	Load() ([]Entry, error)
}

// Column names of the treatment fee table.
const (
	colDepartment = "Department"
	colTreatment  = "Prescription"
	colFee        = "Fee"
)

// CSVSource reads the catalog from a treatment_fees.csv file with columns
// Department, Prescription, Fee.
type CSVSource struct {
	path string

	mu      sync.Mutex
	entries []Entry
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) Load() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries != nil {
		return s.entries, nil
	}

	tbl, err := csvtable.Read(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrUnavailable
		}
		return nil, err
	}
	s.entries = entriesFromRows(tbl.Rows)
	return s.entries, nil
}

func entriesFromRows(rows []map[string]string) []Entry {
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, Entry{
			Department: strings.TrimSpace(row[colDepartment]),
			Name:       strings.TrimSpace(row[colTreatment]),
			Fee:        strings.TrimSpace(row[colFee]),
		})
	}
	return entries
}

// parseFee converts an entry into a billable item, rejecting entries whose
// fee column is not an integer.
func parseFee(e Entry) (Item, error) {
	fee, err := strconv.Atoi(e.Fee)
	if err != nil {
		return Item{}, &InvalidFeeError{Item: e.Name, Value: e.Fee}
	}
	return Item{Department: e.Department, Name: e.Name, Fee: fee}, nil
}

// FeeIndex loads the catalog and returns a name→fee map. Used by document
// assembly to re-resolve fees for already-billed item names; a source that
// fails to load yields an empty index, not an error, so document issuance
// can still proceed with zero fees for unknown items. Entries with a
// malformed fee are left out the same way.
func FeeIndex(src Source) map[string]int {
	idx := make(map[string]int)
	entries, err := src.Load()
	if err != nil {
		return idx
	}
	for _, e := range entries {
		if it, err := parseFee(e); err == nil {
			idx[it.Name] = it.Fee
		}
	}
	return idx
}
