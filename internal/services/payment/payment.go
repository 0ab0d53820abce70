// internal/services/payment/payment.go
package payment

import (
	"context"
	"errors"

	"github.com/nabin216/ZotPot/internal/pkg/money"
)

var (
	ErrInvalidAmount    = errors.New("invalid payment amount")
	ErrInvalidSignature = errors.New("payment signature mismatch")
	ErrNotConfigured    = errors.New("payment provider not configured")
)

// Request describes what the customer is about to pay for
type Request struct {
	Receipt string
	Amount  money.Money
	Notes   map[string]string
}

// Initiation is handed to the renderer's checkout widget
type Initiation struct {
	ProviderOrderID string            `json:"razorpay_order_id"`
	KeyID           string            `json:"key_id"`
	Amount          int64             `json:"amount"`
	Currency        string            `json:"currency"`
	Receipt         string            `json:"receipt"`
	Notes           map[string]string `json:"notes,omitempty"`
}

// Verification is what the checkout widget returns after a successful payment
type Verification struct {
	ProviderOrderID string `json:"razorpay_order_id" binding:"required"`
	PaymentID       string `json:"razorpay_payment_id" binding:"required"`
	Signature       string `json:"razorpay_signature" binding:"required"`
}

// Provider runs the two payment phases: create a provider order, then verify
// the widget's result
type Provider interface {
	Initiate(ctx context.Context, req Request) (*Initiation, error)
	Verify(v Verification) error
}
