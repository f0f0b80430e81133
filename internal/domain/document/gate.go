// Package document decides whether a requested document may be issued for a
// visit and assembles the exact payload its renderer needs. It never writes
// to the visit store.
package document

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/mango0421/barrier-free-kiosk/internal/domain/catalog"
	"github.com/mango0421/barrier-free-kiosk/internal/domain/visit"
)

// Kind names the two derivable documents.
type Kind string

const (
	KindPrescription Kind = "prescription"
	KindConfirmation Kind = "confirmation"
)

// ParseKind validates a document kind from the wire.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindPrescription, KindConfirmation:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown document kind %q", s)
}

var (
	// ErrNeedsRegistration: the visit is still Pending.
	ErrNeedsRegistration = errors.New("registration must be completed first")
	// ErrNeedsPayment: the visit has not been settled.
	ErrNeedsPayment = errors.New("payment must be completed first")
	// ErrZeroFeePaid: Paid status with a non-positive fee. A data-integrity
	// condition for manual review, not a valid free prescription.
	ErrZeroFeePaid = errors.New("paid amount is zero or less, manual review required")
)

// placeholderDoctor appears on documents when the record names no
// attending staff.
const placeholderDoctor = "김의사"

const dateLayout = "2006-01-02"

// Payload carries everything a renderer needs for one document. Nothing in
// it is persisted back.
type Payload struct {
	Kind        Kind           `json:"kind"`
	PatientName string         `json:"patient_name"`
	PatientRRN  string         `json:"patient_rrn"`
	Department  string         `json:"department"`
	Items       []catalog.Item `json:"items,omitempty"`
	TotalFee    int            `json:"total_fee"`
	Doctor      string         `json:"doctor"`
	IssueDate   string         `json:"issue_date"`
	// Confirmation only: the stated diagnosis label is the department (a
	// known simplification carried from the source system) and the
	// diagnosis date is synthesized strictly before the issue date.
	DiagnosisLabel string `json:"diagnosis_label,omitempty"`
	DiagnosisDate  string `json:"diagnosis_date,omitempty"`
}

// Gate checks eligibility and assembles payloads.
type Gate struct {
	visits visit.Repository
	fees   catalog.Source
	now    func() time.Time
}

func NewGate(visits visit.Repository, fees catalog.Source) *Gate {
	return &Gate{
		visits: visits,
		fees:   fees,
		now:    time.Now,
	}
}

// SetClock substitutes the time source.
func (g *Gate) SetClock(now func() time.Time) { g.now = now }

// Prepare resolves the record, enforces the eligibility contract of the
// requested kind, and returns the rendering payload.
func (g *Gate) Prepare(ctx context.Context, kind Kind, name, nationalID string) (*Payload, error) {
	rec, err := g.visits.FindByIdentity(ctx, name, nationalID)
	if err != nil {
		return nil, err
	}

	switch rec.Status {
	case visit.StatusPending:
		return nil, ErrNeedsRegistration
	case visit.StatusPaid:
	default:
		// Registered, Cancelled, and anything unrecognized all need the
		// visit settled before a document can exist.
		return nil, ErrNeedsPayment
	}

	switch kind {
	case KindPrescription:
		if rec.TotalFee <= 0 {
			return nil, ErrZeroFeePaid
		}
		return g.prescription(rec), nil
	case KindConfirmation:
		return g.confirmation(rec), nil
	}
	return nil, fmt.Errorf("unknown document kind %q", kind)
}

func (g *Gate) prescription(rec *visit.Record) *Payload {
	feeIdx := catalog.FeeIndex(g.fees)
	items := make([]catalog.Item, 0, len(rec.ItemNames))
	for _, name := range rec.ItemNames {
		// Unknown items render with a zero fee; the record's total stays
		// authoritative either way.
		items = append(items, catalog.Item{
			Department: rec.Department,
			Name:       name,
			Fee:        feeIdx[name],
		})
	}
	return &Payload{
		Kind:        KindPrescription,
		PatientName: rec.Name,
		PatientRRN:  rec.NationalID,
		Department:  rec.Department,
		Items:       items,
		TotalFee:    rec.TotalFee,
		Doctor:      doctorOf(rec),
		IssueDate:   g.issueDate(rec),
	}
}

func (g *Gate) confirmation(rec *visit.Record) *Payload {
	issue := g.now().Format(dateLayout)
	diagnosed := g.now().AddDate(0, 0, -(1 + rand.Intn(30))).Format(dateLayout)
	return &Payload{
		Kind:           KindConfirmation,
		PatientName:    rec.Name,
		PatientRRN:     rec.NationalID,
		Department:     rec.Department,
		TotalFee:       rec.TotalFee,
		Doctor:         doctorOf(rec),
		IssueDate:      issue,
		DiagnosisLabel: rec.Department,
		DiagnosisDate:  diagnosed,
	}
}

// issueDate uses the date part of the schedule time when it parses, and
// falls back to today.
func (g *Gate) issueDate(rec *visit.Record) string {
	if rec.ScheduleTime != "" {
		datePart := strings.SplitN(rec.ScheduleTime, " ", 2)[0]
		if d, err := time.Parse(dateLayout, datePart); err == nil {
			return d.Format(dateLayout)
		}
	}
	return g.now().Format(dateLayout)
}

func doctorOf(rec *visit.Record) string {
	if strings.TrimSpace(rec.Doctor) != "" {
		return rec.Doctor
	}
	return placeholderDoctor
}
