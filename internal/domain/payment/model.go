// Package payment settles registered visits and keeps a per-process ledger
// of completed transactions.
package payment

import (
	"errors"
	"time"
)

type Method string

const (
	MethodCash Method = "cash"
	MethodCard Method = "card"
)

// ParseMethod validates a payment method from the wire.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodCash, MethodCard:
		return Method(s), nil
	}
	return "", ErrInvalidMethod
}

var (
	ErrInvalidMethod = errors.New("payment method must be cash or card")
	ErrNotFound      = errors.New("payment not found")
)

// Payment is a settled transaction. Amounts always come from the billing
// draw, never from the caller.
type Payment struct {
	ID         string    `json:"id"`
	PatientRRN string    `json:"rrn"`
	Amount     int       `json:"amount"`
	Method     Method    `json:"method"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

const statusCompleted = "completed"
