package chat

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mango0421/barrier-free-kiosk/internal/domain/catalog"
	"github.com/mango0421/barrier-free-kiosk/internal/domain/document"
	"github.com/mango0421/barrier-free-kiosk/internal/domain/payment"
	"github.com/mango0421/barrier-free-kiosk/internal/domain/visit"
	"github.com/mango0421/barrier-free-kiosk/internal/platform/assistant"
)

type fakeExtractor struct {
	intent *assistant.Intent
	err    error
}

func (f *fakeExtractor) Extract(context.Context, string) (*assistant.Intent, error) {
	return f.intent, f.err
}

type memRepo struct {
	rows []*visit.Record
}

func (m *memRepo) FindByIdentity(_ context.Context, name, nationalID string) (*visit.Record, error) {
	for _, r := range m.rows {
		if r.Name == name && r.NationalID == nationalID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, visit.ErrNotFound
}

func (m *memRepo) FindByNationalID(_ context.Context, nationalID string) (*visit.Record, error) {
	for _, r := range m.rows {
		if r.NationalID == nationalID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, visit.ErrNotFound
}

func (m *memRepo) Patch(_ context.Context, nationalID string, fields map[string]string) error {
	for _, r := range m.rows {
		if r.NationalID != nationalID {
			continue
		}
		for col, val := range fields {
			switch col {
			case visit.ColName:
				r.Name = val
			case visit.ColDepartment:
				r.Department = val
			case visit.ColTicketNumber:
				r.TicketNumber = val
			case visit.ColStatus:
				r.Status = visit.Status(val)
			case visit.ColItems:
				if val == "" {
					r.ItemNames = nil
				} else {
					r.ItemNames = strings.Split(val, ",")
				}
			case visit.ColTotalFee:
				r.TotalFee, _ = strconv.Atoi(val)
			}
		}
		return nil
	}
	return visit.ErrNotFound
}

func (m *memRepo) Append(_ context.Context, rec *visit.Record) error {
	cp := *rec
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memRepo) List(context.Context) ([]*visit.Record, error) {
	out := make([]*visit.Record, 0, len(m.rows))
	for _, r := range m.rows {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

type fixedSelector struct{}

func (fixedSelector) Select(department string) (*catalog.Selection, error) {
	return &catalog.Selection{
		Items: []catalog.Item{
			{Department: department, Name: "감기약", Fee: 5000},
			{Department: department, Name: "해열제", Fee: 3000},
		},
		TotalFee: 8000,
	}, nil
}

type noFees struct{}

func (noFees) Load() ([]catalog.Entry, error) { return nil, nil }

func newTestChat(extractor Extractor, repo *memRepo) *Service {
	visits := visit.NewService(repo, fixedSelector{})
	payments := payment.NewService(visits, payment.NewMemoryRepository(), zerolog.Nop())
	gate := document.NewGate(repo, noFees{})
	return NewService(extractor, visits, payments, gate, zerolog.Nop())
}

func intentOf(kind string) *assistant.Intent {
	return &assistant.Intent{Intent: kind}
}

func TestHandle_ExtractionFailureAsksAgain(t *testing.T) {
	svc := newTestChat(&fakeExtractor{err: errors.New("boom")}, &memRepo{})
	resp, err := svc.Handle(context.Background(), "웅얼웅얼")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.Intent != "general" || resp.Reply == "" {
		t.Errorf("resp = %+v, want general retry prompt", resp)
	}
}

func TestHandle_ReceptionRegistersNewVisit(t *testing.T) {
	intent := intentOf("reception")
	intent.Parameters.Name = "홍길동"
	intent.Parameters.RRN = "900101-1234567"
	intent.Parameters.Symptom = "발열‧오한"
	repo := &memRepo{}
	svc := newTestChat(&fakeExtractor{intent: intent}, repo)

	resp, err := svc.Handle(context.Background(), "접수할게요")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.Intent != "reception" {
		t.Errorf("Intent = %q", resp.Intent)
	}
	rec, err := repo.FindByNationalID(context.Background(), "900101-1234567")
	if err != nil {
		t.Fatalf("record not created: %v", err)
	}
	if rec.Status != visit.StatusRegistered {
		t.Errorf("status = %s, want Registered", rec.Status)
	}
	if rec.Department != "내과" {
		t.Errorf("department = %q, want 내과 for 발열‧오한", rec.Department)
	}
	if !strings.Contains(resp.Reply, rec.TicketNumber) {
		t.Errorf("reply %q does not mention ticket %q", resp.Reply, rec.TicketNumber)
	}
}

func TestHandle_ReceptionNeedsIdentity(t *testing.T) {
	svc := newTestChat(&fakeExtractor{intent: intentOf("reception")}, &memRepo{})
	resp, err := svc.Handle(context.Background(), "접수요")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.Data != nil {
		t.Error("no action expected without identity")
	}
	if !strings.Contains(resp.Reply, "주민등록번호") {
		t.Errorf("reply %q should ask for identity", resp.Reply)
	}
}

func TestHandle_PaymentQuoteThenConfirm(t *testing.T) {
	repo := &memRepo{rows: []*visit.Record{{
		Name:       "홍길동",
		NationalID: "900101-1234567",
		Department: "내과",
		Status:     visit.StatusRegistered,
	}}}

	quote := intentOf("payment")
	quote.Parameters.RRN = "900101-1234567"
	quote.Parameters.PaymentStage = "initial"
	svc := newTestChat(&fakeExtractor{intent: quote}, repo)

	resp, err := svc.Handle(context.Background(), "수납할게요")
	if err != nil {
		t.Fatalf("quote Handle: %v", err)
	}
	if !strings.Contains(resp.Reply, "8000원") {
		t.Errorf("quote reply %q should state the amount", resp.Reply)
	}
	if rec, _ := repo.FindByNationalID(context.Background(), "900101-1234567"); rec.Status != visit.StatusRegistered {
		t.Fatalf("quote mutated status to %s", rec.Status)
	}

	confirm := intentOf("payment")
	confirm.Parameters.RRN = "900101-1234567"
	confirm.Parameters.PaymentStage = "confirmation"
	confirm.Parameters.PaymentMethod = "card"
	svc = newTestChat(&fakeExtractor{intent: confirm}, repo)

	resp, err = svc.Handle(context.Background(), "카드로 결제해줘")
	if err != nil {
		t.Fatalf("confirm Handle: %v", err)
	}
	if !strings.Contains(resp.Reply, "수납이 완료") {
		t.Errorf("confirm reply = %q", resp.Reply)
	}
	if rec, _ := repo.FindByNationalID(context.Background(), "900101-1234567"); rec.Status != visit.StatusPaid {
		t.Errorf("status = %s, want Paid", rec.Status)
	}
}

func TestHandle_PaymentUnknownMethodAsks(t *testing.T) {
	confirm := intentOf("payment")
	confirm.Parameters.RRN = "900101-1234567"
	confirm.Parameters.PaymentStage = "confirmation"
	confirm.Parameters.PaymentMethod = "수표"
	repo := &memRepo{rows: []*visit.Record{{
		NationalID: "900101-1234567",
		Department: "내과",
		Status:     visit.StatusRegistered,
	}}}
	svc := newTestChat(&fakeExtractor{intent: confirm}, repo)

	resp, err := svc.Handle(context.Background(), "수표로 낼게요")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(resp.Reply, "현금 또는 카드") {
		t.Errorf("reply = %q, want method prompt", resp.Reply)
	}
	if rec, _ := repo.FindByNationalID(context.Background(), "900101-1234567"); rec.Status != visit.StatusRegistered {
		t.Errorf("status changed to %s", rec.Status)
	}
}

func TestHandle_CertificateBeforePayment(t *testing.T) {
	intent := intentOf("certificate")
	intent.Parameters.Name = "홍길동"
	intent.Parameters.RRN = "900101-1234567"
	intent.Parameters.CertificateType = "처방전"
	repo := &memRepo{rows: []*visit.Record{{
		Name:       "홍길동",
		NationalID: "900101-1234567",
		Department: "내과",
		Status:     visit.StatusRegistered,
	}}}
	svc := newTestChat(&fakeExtractor{intent: intent}, repo)

	resp, err := svc.Handle(context.Background(), "처방전 주세요")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(resp.Reply, "수납") {
		t.Errorf("reply = %q, want payment guidance", resp.Reply)
	}
}

func TestHandle_CertificateIssued(t *testing.T) {
	intent := intentOf("certificate")
	intent.Parameters.Name = "홍길동"
	intent.Parameters.RRN = "900101-1234567"
	intent.Parameters.CertificateType = "진료확인서"
	repo := &memRepo{rows: []*visit.Record{{
		Name:       "홍길동",
		NationalID: "900101-1234567",
		Department: "내과",
		Status:     visit.StatusPaid,
		TotalFee:   8000,
	}}}
	svc := newTestChat(&fakeExtractor{intent: intent}, repo)

	resp, err := svc.Handle(context.Background(), "진료확인서 발급해줘")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	payload, ok := resp.Data.(*document.Payload)
	if !ok {
		t.Fatalf("Data = %T, want *document.Payload", resp.Data)
	}
	if payload.DiagnosisLabel != "내과" {
		t.Errorf("DiagnosisLabel = %q", payload.DiagnosisLabel)
	}
}

func TestHandle_GeneralPassesReplyThrough(t *testing.T) {
	intent := intentOf("general")
	intent.Reply = "안녕하세요, 무엇을 도와드릴까요?"
	svc := newTestChat(&fakeExtractor{intent: intent}, &memRepo{})

	resp, err := svc.Handle(context.Background(), "안녕")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.Reply != intent.Reply {
		t.Errorf("Reply = %q", resp.Reply)
	}
}
