package visit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// repoPG is the row-level replacement for the flat-file store: same
// interface, same column set, but each patch is a single UPDATE instead of
// a whole-table rewrite, so concurrent mutations to different columns no
// longer clobber each other.
type repoPG struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

// Schema is the DDL for the reservation table; `migrate` applies it.
const Schema = `
CREATE TABLE IF NOT EXISTS reservation (
	seq                BIGSERIAL PRIMARY KEY,
	name               TEXT NOT NULL,
	rrn                TEXT NOT NULL,
	time               TEXT NOT NULL DEFAULT '',
	department         TEXT NOT NULL DEFAULT '',
	ticket_number      TEXT NOT NULL DEFAULT '',
	location           TEXT NOT NULL DEFAULT '',
	doctor             TEXT NOT NULL DEFAULT '',
	status             TEXT NOT NULL DEFAULT 'Pending',
	prescription_names TEXT NOT NULL DEFAULT '',
	total_fee          TEXT NOT NULL DEFAULT '0'
);
CREATE INDEX IF NOT EXISTS reservation_rrn_idx ON reservation (rrn);
`

const resvCols = `name, rrn, time, department, ticket_number, location, doctor, status, prescription_names, total_fee`

var pgColumns = map[string]bool{
	ColName: true, ColRRN: true, ColTime: true, ColDepartment: true,
	ColTicketNumber: true, ColLocation: true, ColDoctor: true,
	ColStatus: true, ColItems: true, ColTotalFee: true,
}

func (r *repoPG) FindByIdentity(ctx context.Context, name, nationalID string) (*Record, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+resvCols+` FROM reservation
		WHERE name = $1 AND rrn = $2 ORDER BY seq LIMIT 1`, name, nationalID)
	return scanRecord(row)
}

func (r *repoPG) FindByNationalID(ctx context.Context, nationalID string) (*Record, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+resvCols+` FROM reservation
		WHERE rrn = $1 ORDER BY seq LIMIT 1`, nationalID)
	return scanRecord(row)
}

func (r *repoPG) Patch(ctx context.Context, nationalID string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	sets := make([]string, 0, len(fields))
	args := make([]interface{}, 0, len(fields)+1)
	for col, val := range fields {
		if !pgColumns[col] {
			return ErrIntegrity
		}
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	args = append(args, nationalID)

	// Only the first physical row for the national ID is patched, matching
	// the flat-file backend.
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`UPDATE reservation SET %s
		WHERE seq = (SELECT seq FROM reservation WHERE rrn = $%d ORDER BY seq LIMIT 1)`,
		strings.Join(sets, ", "), len(args)), args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Append(ctx context.Context, rec *Record) error {
	row := rec.toRow()
	_, err := r.pool.Exec(ctx, `INSERT INTO reservation (`+resvCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		row[ColName], row[ColRRN], row[ColTime], row[ColDepartment],
		row[ColTicketNumber], row[ColLocation], row[ColDoctor],
		row[ColStatus], row[ColItems], row[ColTotalFee])
	return err
}

func (r *repoPG) List(ctx context.Context) ([]*Record, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+resvCols+` FROM reservation ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func scanRecord(row pgx.Row) (*Record, error) {
	cols := make(map[string]string, len(Columns))
	var name, rrn, schedTime, dept, ticket, location, doctor, status, items, totalFee string
	err := row.Scan(&name, &rrn, &schedTime, &dept, &ticket, &location, &doctor, &status, &items, &totalFee)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	cols[ColName], cols[ColRRN], cols[ColTime] = name, rrn, schedTime
	cols[ColDepartment], cols[ColTicketNumber], cols[ColLocation] = dept, ticket, location
	cols[ColDoctor], cols[ColStatus], cols[ColItems], cols[ColTotalFee] = doctor, status, items, totalFee
	return fromRow(cols), nil
}
