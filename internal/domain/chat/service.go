// Package chat drives the conversational flow of the kiosk. Utterances go
// through the assistant for intent extraction and are then dispatched into
// the same services the touch UI uses.
package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mango0421/barrier-free-kiosk/internal/domain/document"
	"github.com/mango0421/barrier-free-kiosk/internal/domain/payment"
	"github.com/mango0421/barrier-free-kiosk/internal/domain/visit"
	"github.com/mango0421/barrier-free-kiosk/internal/platform/assistant"
)

// Extractor is the assistant surface the chat flow depends on.
type Extractor interface {
	Extract(ctx context.Context, utterance string) (*assistant.Intent, error)
}

// Response is what the kiosk renders after each utterance.
type Response struct {
	Intent string      `json:"intent"`
	Reply  string      `json:"reply"`
	Data   interface{} `json:"data,omitempty"`
}

type Service struct {
	extractor Extractor
	visits    *visit.Service
	payments  *payment.Service
	gate      *document.Gate
	logger    zerolog.Logger
}

func NewService(extractor Extractor, visits *visit.Service, payments *payment.Service, gate *document.Gate, logger zerolog.Logger) *Service {
	return &Service{
		extractor: extractor,
		visits:    visits,
		payments:  payments,
		gate:      gate,
		logger:    logger,
	}
}

// Handle interprets one utterance and performs the action it asks for.
func (s *Service) Handle(ctx context.Context, utterance string) (*Response, error) {
	intent, err := s.extractor.Extract(ctx, utterance)
	if err != nil {
		s.logger.Warn().Err(err).Msg("intent extraction failed")
		return &Response{
			Intent: "general",
			Reply:  "죄송해요, 잘 이해하지 못했어요. 다시 한 번 말씀해 주시겠어요?",
		}, nil
	}

	switch intent.Intent {
	case "reception":
		return s.reception(ctx, intent)
	case "payment":
		return s.payment(ctx, intent)
	case "certificate":
		return s.certificate(ctx, intent)
	default:
		reply := intent.Reply
		if reply == "" {
			reply = "무엇을 도와드릴까요? 접수, 수납, 서류 발급을 할 수 있어요."
		}
		return &Response{Intent: "general", Reply: reply}, nil
	}
}

func (s *Service) reception(ctx context.Context, intent *assistant.Intent) (*Response, error) {
	p := intent.Parameters
	if p.Name == "" || p.RRN == "" {
		return &Response{
			Intent: "reception",
			Reply:  "접수를 위해 성함과 주민등록번호를 말씀해 주세요.",
		}, nil
	}

	if _, err := s.visits.Lookup(ctx, p.Name, p.RRN); errors.Is(err, visit.ErrNotFound) {
		rec := &visit.Record{Name: p.Name, NationalID: p.RRN}
		if err := s.visits.Intake(ctx, rec); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	symptomKey := p.Symptom
	if key, ok := visit.SymptomKeyForLabel(p.Symptom); ok {
		symptomKey = key
	}
	rec, err := s.visits.Register(ctx, p.RRN, p.Department, symptomKey)
	if err != nil {
		return s.domainReply("reception", err)
	}
	return &Response{
		Intent: "reception",
		Reply:  fmt.Sprintf("%s님, %s 접수가 완료되었습니다. 대기번호는 %s입니다.", rec.Name, rec.Department, rec.TicketNumber),
		Data:   rec,
	}, nil
}

func (s *Service) payment(ctx context.Context, intent *assistant.Intent) (*Response, error) {
	p := intent.Parameters
	if p.RRN == "" {
		return &Response{
			Intent: "payment",
			Reply:  "수납을 위해 주민등록번호를 말씀해 주세요.",
		}, nil
	}

	if p.PaymentStage == "confirmation" {
		method, err := payment.ParseMethod(p.PaymentMethod)
		if err != nil {
			return &Response{
				Intent: "payment",
				Reply:  "결제 수단을 현금 또는 카드 중에서 선택해 주세요.",
			}, nil
		}
		pay, rec, err := s.payments.Settle(ctx, p.RRN, method)
		if err != nil {
			return s.domainReply("payment", err)
		}
		return &Response{
			Intent: "payment",
			Reply:  fmt.Sprintf("%d원 수납이 완료되었습니다. 쾌차하세요.", pay.Amount),
			Data:   map[string]interface{}{"payment": pay, "record": rec},
		}, nil
	}

	sel, err := s.payments.Quote(ctx, p.RRN)
	if err != nil {
		return s.domainReply("payment", err)
	}
	return &Response{
		Intent: "payment",
		Reply:  fmt.Sprintf("수납하실 금액은 %d원입니다. 결제를 진행할까요?", sel.TotalFee),
		Data:   map[string]interface{}{"items": sel.Items, "total_fee": sel.TotalFee},
	}, nil
}

func (s *Service) certificate(ctx context.Context, intent *assistant.Intent) (*Response, error) {
	p := intent.Parameters
	if p.Name == "" || p.RRN == "" {
		return &Response{
			Intent: "certificate",
			Reply:  "서류 발급을 위해 성함과 주민등록번호를 말씀해 주세요.",
		}, nil
	}

	var kind document.Kind
	switch p.CertificateType {
	case "처방전":
		kind = document.KindPrescription
	case "진료확인서":
		kind = document.KindConfirmation
	default:
		return &Response{
			Intent: "certificate",
			Reply:  "처방전과 진료확인서 중 어떤 서류가 필요하신가요?",
		}, nil
	}

	payload, err := s.gate.Prepare(ctx, kind, p.Name, p.RRN)
	if err != nil {
		return s.domainReply("certificate", err)
	}
	return &Response{
		Intent: "certificate",
		Reply:  fmt.Sprintf("%s 발급이 준비되었습니다. 출력물을 받아 가세요.", p.CertificateType),
		Data:   payload,
	}, nil
}

// domainReply maps expected domain errors to spoken Korean guidance.
// Unexpected errors still propagate so the handler can report a failure.
func (s *Service) domainReply(intent string, err error) (*Response, error) {
	var transition *visit.InvalidTransitionError
	switch {
	case errors.Is(err, visit.ErrNotFound):
		return &Response{Intent: intent, Reply: "접수 내역을 찾을 수 없어요. 성함과 주민등록번호를 다시 확인해 주세요."}, nil
	case errors.As(err, &transition):
		return &Response{Intent: intent, Reply: "지금 단계에서는 진행할 수 없어요. 접수 상태를 확인해 주세요."}, nil
	case errors.Is(err, document.ErrNeedsRegistration):
		return &Response{Intent: intent, Reply: "먼저 접수를 완료해 주세요."}, nil
	case errors.Is(err, document.ErrNeedsPayment):
		return &Response{Intent: intent, Reply: "먼저 수납을 완료해 주세요."}, nil
	case errors.Is(err, document.ErrZeroFeePaid):
		return &Response{Intent: intent, Reply: "결제 내역에 문제가 있어요. 데스크에 문의해 주세요."}, nil
	default:
		return nil, err
	}
}
