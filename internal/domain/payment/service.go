package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mango0421/barrier-free-kiosk/internal/domain/catalog"
	"github.com/mango0421/barrier-free-kiosk/internal/domain/visit"
)

// Biller is the slice of the visit service the settlement flow needs.
type Biller interface {
	Bill(ctx context.Context, nationalID string) (*visit.Record, *catalog.Selection, error)
	Quote(ctx context.Context, nationalID string) (*catalog.Selection, error)
}

type Service struct {
	biller Biller
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(biller Biller, repo Repository, logger zerolog.Logger) *Service {
	return &Service{biller: biller, repo: repo, logger: logger, now: time.Now}
}

func (s *Service) SetClock(now func() time.Time) { s.now = now }

// Settle bills the visit and records the resulting transaction. The amount
// is whatever the billing draw produced.
func (s *Service) Settle(ctx context.Context, nationalID string, method Method) (*Payment, *visit.Record, error) {
	if _, err := ParseMethod(string(method)); err != nil {
		return nil, nil, err
	}

	rec, sel, err := s.biller.Bill(ctx, nationalID)
	if err != nil {
		return nil, nil, err
	}

	p := &Payment{
		ID:         uuid.NewString(),
		PatientRRN: nationalID,
		Amount:     sel.TotalFee,
		Method:     method,
		Status:     statusCompleted,
		CreatedAt:  s.now(),
	}
	if err := s.repo.Save(ctx, p); err != nil {
		// The visit is already marked Paid; a ledger miss is log-worthy
		// but must not fail the kiosk flow.
		s.logger.Error().Err(err).Str("rrn", nationalID).Msg("failed to record payment")
	}

	s.logger.Info().
		Str("payment_id", p.ID).
		Str("rrn", nationalID).
		Int("amount", p.Amount).
		Str("method", string(method)).
		Msg("payment settled")
	return p, rec, nil
}

// Quote previews the billing draw without mutating the visit.
func (s *Service) Quote(ctx context.Context, nationalID string) (*catalog.Selection, error) {
	return s.biller.Quote(ctx, nationalID)
}

func (s *Service) Get(ctx context.Context, id string) (*Payment, error) {
	return s.repo.Get(ctx, id)
}
