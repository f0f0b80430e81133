package visit

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/mango0421/barrier-free-kiosk/internal/domain/catalog"
)

// Selector prescribes the billable items for a department. Satisfied by
// *catalog.Selector.
type Selector interface {
	Select(department string) (*catalog.Selection, error)
}

// Service enforces the visit lifecycle: which transitions are legal and
// what each one writes through the repository. It is the single core API
// both the kiosk forms and the conversational front end call into.
type Service struct {
	repo        Repository
	selector    Selector
	symptomMap  map[string]string
	defaultDept string
	now         func() time.Time
}

func NewService(repo Repository, selector Selector) *Service {
	return &Service{
		repo:        repo,
		selector:    selector,
		symptomMap:  DefaultSymptomMap(),
		defaultDept: DefaultDepartment,
		now:         time.Now,
	}
}

// SetSymptomMap replaces the symptom→department table.
func (s *Service) SetSymptomMap(m map[string]string, defaultDept string) {
	s.symptomMap = m
	s.defaultDept = defaultDept
}

// SetClock substitutes the time source.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// Lookup returns the record for an exact (name, national ID) identity.
func (s *Service) Lookup(ctx context.Context, name, nationalID string) (*Record, error) {
	return s.repo.FindByIdentity(ctx, name, nationalID)
}

// Intake creates a new Pending record. The intake feed is external to the
// kiosk; schedule/location/doctor are stored only when provided, never
// invented.
func (s *Service) Intake(ctx context.Context, rec *Record) error {
	if rec.Name == "" || rec.NationalID == "" {
		return fmt.Errorf("intake requires name and national ID")
	}
	if rec.Status == "" {
		rec.Status = StatusPending
	}
	if rec.ScheduleTime == "" {
		rec.ScheduleTime = s.now().Format("2006-01-02 15:04:05")
	}
	return s.repo.Append(ctx, rec)
}

// Register moves a Pending record to Registered, assigning a department
// and a queue ticket. Calling it again on a Registered record is allowed
// and overwrites department and ticket. The department comes from, in
// order: the explicit argument, the record's own pending assignment, the
// symptom table (unknown keys fall back to the default department).
func (s *Service) Register(ctx context.Context, nationalID, department, symptomKey string) (*Record, error) {
	rec, err := s.repo.FindByNationalID(ctx, nationalID)
	if err != nil {
		return nil, err
	}
	if rec.Status != StatusPending && rec.Status != StatusRegistered {
		return nil, &InvalidTransitionError{Op: "register", From: rec.Status}
	}

	dept := department
	if dept == "" {
		dept = rec.Department
	}
	if dept == "" {
		dept = s.resolveSymptom(symptomKey)
	}
	ticket := s.newTicket(dept)

	err = s.repo.Patch(ctx, nationalID, map[string]string{
		ColStatus:       string(StatusRegistered),
		ColDepartment:   dept,
		ColTicketNumber: ticket,
		ColName:         rec.Name,
	})
	if err != nil {
		return nil, err
	}
	rec.Status = StatusRegistered
	rec.Department = dept
	rec.TicketNumber = ticket
	return rec, nil
}

// Bill settles a Registered visit: the selector prescribes the items for
// the record's department, and the item names, their fee sum, and the Paid
// status are persisted in one patch. Any other starting state is rejected
// without touching the store.
func (s *Service) Bill(ctx context.Context, nationalID string) (*Record, *catalog.Selection, error) {
	rec, err := s.repo.FindByNationalID(ctx, nationalID)
	if err != nil {
		return nil, nil, err
	}
	if rec.Status != StatusRegistered {
		return nil, nil, &InvalidTransitionError{Op: "bill", From: rec.Status}
	}

	sel, err := s.selector.Select(rec.Department)
	if err != nil {
		return nil, nil, err
	}

	err = s.repo.Patch(ctx, nationalID, map[string]string{
		ColItems:    strings.Join(sel.Names(), ","),
		ColTotalFee: fmt.Sprintf("%d", sel.TotalFee),
		ColStatus:   string(StatusPaid),
	})
	if err != nil {
		return nil, nil, err
	}
	rec.Status = StatusPaid
	rec.ItemNames = sel.Names()
	rec.TotalFee = sel.TotalFee
	return rec, sel, nil
}

// Quote runs the selector for a Registered visit without persisting
// anything; the payment front end shows it before settlement.
func (s *Service) Quote(ctx context.Context, nationalID string) (*catalog.Selection, error) {
	rec, err := s.repo.FindByNationalID(ctx, nationalID)
	if err != nil {
		return nil, err
	}
	if rec.Status != StatusRegistered {
		return nil, &InvalidTransitionError{Op: "quote", From: rec.Status}
	}
	return s.selector.Select(rec.Department)
}

// Cancel terminates a Pending or Registered visit. Cancelling a Paid visit
// is not a defined transition and is rejected like any other illegal move.
func (s *Service) Cancel(ctx context.Context, nationalID string) (*Record, error) {
	rec, err := s.repo.FindByNationalID(ctx, nationalID)
	if err != nil {
		return nil, err
	}
	if rec.Status != StatusPending && rec.Status != StatusRegistered {
		return nil, &InvalidTransitionError{Op: "cancel", From: rec.Status}
	}
	if err := s.repo.Patch(ctx, nationalID, map[string]string{
		ColStatus: string(StatusCancelled),
	}); err != nil {
		return nil, err
	}
	rec.Status = StatusCancelled
	return rec, nil
}

func (s *Service) resolveSymptom(key string) string {
	if dept, ok := s.symptomMap[key]; ok {
		return dept
	}
	return s.defaultDept
}

// newTicket builds a queue token: department initial, time of day, and a
// random two-digit suffix. Locally distinguishing within a busy window,
// not globally unique.
func (s *Service) newTicket(department string) string {
	initial := "X"
	for _, r := range department {
		initial = string(r)
		break
	}
	return fmt.Sprintf("%s%s%02d", initial, s.now().Format("150405"), 10+rand.Intn(90))
}
