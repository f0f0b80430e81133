package visit

import "context"

// Repository is the durable home for visit records. The default backend is
// a flat CSV table rewritten whole on every mutation; a row-level Postgres
// backend is a drop-in replacement behind this interface.
type Repository interface {
	// FindByIdentity scans for an exact (name, national ID) match. When the
	// identity occurs more than once, the first physical row wins.
	FindByIdentity(ctx context.Context, name, nationalID string) (*Record, error)
	// FindByNationalID locates a record by national ID alone. Mutation
	// paths use this; the name is only for initial lookup disambiguation.
	FindByNationalID(ctx context.Context, nationalID string) (*Record, error)
	// Patch overwrites only the named columns of the record with the given
	// national ID. ErrIntegrity when the stored header does not match the
	// expected schema; in that case nothing is written.
	Patch(ctx context.Context, nationalID string, fields map[string]string) error
	// Append adds a new record; intake uses this to create Pending rows.
	Append(ctx context.Context, rec *Record) error
	// List returns every record in physical order.
	List(ctx context.Context) ([]*Record, error)
}
