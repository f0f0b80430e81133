package visit

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog"

	"github.com/mango0421/barrier-free-kiosk/internal/platform/csvtable"
)

// CSVRepository stores visit records in a single flat CSV file. Every
// mutation is read whole table, mutate one row, write whole table — no row
// locking, no transaction log. Concurrent patches that both read before
// either writes lose one update; that behavior is part of the contract and
// is covered by tests rather than papered over.
type CSVRepository struct {
	path   string
	logger zerolog.Logger
}

func NewCSVRepository(path string, logger zerolog.Logger) *CSVRepository {
	return &CSVRepository{path: path, logger: logger}
}

func (r *CSVRepository) FindByIdentity(_ context.Context, name, nationalID string) (*Record, error) {
	tbl, err := r.read()
	if err != nil {
		return nil, err
	}
	for _, row := range tbl.Rows {
		if row[ColName] == name && row[ColRRN] == nationalID {
			return fromRow(row), nil
		}
	}
	return nil, ErrNotFound
}

func (r *CSVRepository) FindByNationalID(_ context.Context, nationalID string) (*Record, error) {
	tbl, err := r.read()
	if err != nil {
		return nil, err
	}
	for _, row := range tbl.Rows {
		if row[ColRRN] == nationalID {
			return fromRow(row), nil
		}
	}
	return nil, ErrNotFound
}

func (r *CSVRepository) Patch(_ context.Context, nationalID string, fields map[string]string) error {
	tbl, err := csvtable.Read(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	if !tbl.HasColumns(Columns...) {
		return ErrIntegrity
	}

	patched := false
	for _, row := range tbl.Rows {
		if row[ColRRN] != nationalID {
			continue
		}
		for col, val := range fields {
			if !tbl.HasColumns(col) {
				// Unknown columns are skipped, not invented.
				r.logger.Warn().Str("column", col).Msg("patch field is not a table column, skipping")
				continue
			}
			row[col] = val
		}
		patched = true
		break
	}
	if !patched {
		return ErrNotFound
	}
	return csvtable.Write(r.path, tbl)
}

func (r *CSVRepository) Append(_ context.Context, rec *Record) error {
	return csvtable.Append(r.path, Columns, rec.toRow())
}

func (r *CSVRepository) List(_ context.Context) ([]*Record, error) {
	tbl, err := r.read()
	if err != nil {
		return nil, err
	}
	recs := make([]*Record, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		recs = append(recs, fromRow(row))
	}
	return recs, nil
}

func (r *CSVRepository) read() (*csvtable.Table, error) {
	tbl, err := csvtable.Read(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &csvtable.Table{}, nil
		}
		return nil, err
	}
	return tbl, nil
}
