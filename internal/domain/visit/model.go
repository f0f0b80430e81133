package visit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Status is the lifecycle state of a visit record. It only moves forward
// through Pending → Registered → Paid, or jumps to Cancelled from a
// non-terminal state.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusRegistered Status = "Registered"
	StatusPaid       Status = "Paid"
	StatusCancelled  Status = "Cancelled"
)

// Column names of the reservation table. The header the store reads back
// must carry these; anything else is a schema mismatch.
const (
	ColName         = "name"
	ColRRN          = "rrn"
	ColTime         = "time"
	ColDepartment   = "department"
	ColTicketNumber = "ticket_number"
	ColLocation     = "location"
	ColDoctor       = "doctor"
	ColStatus       = "status"
	ColItems        = "prescription_names"
	ColTotalFee     = "total_fee"
)

// Columns is the expected header, in file order.
var Columns = []string{
	ColName, ColRRN, ColTime, ColDepartment, ColTicketNumber,
	ColLocation, ColDoctor, ColStatus, ColItems, ColTotalFee,
}

// Record is one visit: a visitor tracked from intake through billing to
// document issuance. (Name, NationalID) is the natural key; NationalID
// alone is the join key for mutation.
type Record struct {
	Name         string `json:"name"`
	NationalID   string `json:"rrn"`
	ScheduleTime string `json:"time,omitempty"`
	Department   string `json:"department,omitempty"`
	TicketNumber string `json:"ticket_number,omitempty"`
	Location     string `json:"location,omitempty"`
	Doctor       string `json:"doctor,omitempty"`
	Status       Status `json:"status"`
	// ItemNames are the billed line item names in selection order. Fees are
	// not stored on the record; TotalFee is the authoritative amount.
	ItemNames []string `json:"prescription_names"`
	TotalFee  int      `json:"total_fee"`
}

// fromRow builds a Record from one table row. A malformed total_fee is read
// as zero; the document gate treats that as a data-integrity condition.
func fromRow(row map[string]string) *Record {
	rec := &Record{
		Name:         row[ColName],
		NationalID:   row[ColRRN],
		ScheduleTime: row[ColTime],
		Department:   row[ColDepartment],
		TicketNumber: row[ColTicketNumber],
		Location:     row[ColLocation],
		Doctor:       row[ColDoctor],
		Status:       Status(row[ColStatus]),
	}
	if raw := row[ColItems]; raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				rec.ItemNames = append(rec.ItemNames, name)
			}
		}
	}
	rec.TotalFee, _ = strconv.Atoi(row[ColTotalFee])
	return rec
}

// toRow flattens a Record to table columns. All values are strings.
func (r *Record) toRow() map[string]string {
	return map[string]string{
		ColName:         r.Name,
		ColRRN:          r.NationalID,
		ColTime:         r.ScheduleTime,
		ColDepartment:   r.Department,
		ColTicketNumber: r.TicketNumber,
		ColLocation:     r.Location,
		ColDoctor:       r.Doctor,
		ColStatus:       string(r.Status),
		ColItems:        strings.Join(r.ItemNames, ","),
		ColTotalFee:     strconv.Itoa(r.TotalFee),
	}
}

var (
	// ErrNotFound means no record matched the identity.
	ErrNotFound = errors.New("visit record not found")
	// ErrIntegrity means the table header did not match the expected
	// schema; nothing was written.
	ErrIntegrity = errors.New("reservation table schema mismatch")
)

// InvalidTransitionError rejects an operation the record's current state
// does not permit. It is returned, never panicked, and the store is left
// untouched.
type InvalidTransitionError struct {
	Op   string
	From Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a visit in status %q", e.Op, e.From)
}
