// internal/services/payment/razorpay.go
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nabin216/ZotPot/internal/config"
	"github.com/sirupsen/logrus"
)

// RazorpayOrder is the order entity returned by the Razorpay API
type RazorpayOrder struct {
	ID        string            `json:"id"`
	Entity    string            `json:"entity"`
	Amount    int64             `json:"amount"`
	Currency  string            `json:"currency"`
	Receipt   string            `json:"receipt"`
	Status    string            `json:"status"`
	Notes     map[string]string `json:"notes"`
	CreatedAt int64             `json:"created_at"`
}

// CreateOrderRequest is the body of POST /orders
type CreateOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// Razorpay talks to the Razorpay orders API
type Razorpay struct {
	keyID      string
	keySecret  string
	baseURL    string
	currency   string
	httpClient *http.Client
	logger     logrus.FieldLogger
}

// NewRazorpay creates a new Razorpay provider
func NewRazorpay(cfg config.PaymentConfig, logger logrus.FieldLogger) *Razorpay {
	return &Razorpay{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		currency:  cfg.Currency,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Initiate creates a Razorpay order for the amount in minor units
func (r *Razorpay) Initiate(ctx context.Context, req Request) (*Initiation, error) {
	if r.keyID == "" || r.keySecret == "" {
		return nil, ErrNotConfigured
	}

	amount := req.Amount.Cents()
	if amount <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, req.Amount)
	}

	createReq := CreateOrderRequest{
		Amount:   amount,
		Currency: r.currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	}

	body, err := r.makeAPICall(ctx, http.MethodPost, "/orders", createReq)
	if err != nil {
		return nil, fmt.Errorf("failed to create Razorpay order: %w", err)
	}

	var order RazorpayOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("failed to parse Razorpay order response: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"razorpay_order_id": order.ID,
		"receipt":           req.Receipt,
		"amount":            amount,
	}).Info("Razorpay order created")

	return &Initiation{
		ProviderOrderID: order.ID,
		KeyID:           r.keyID,
		Amount:          order.Amount,
		Currency:        order.Currency,
		Receipt:         order.Receipt,
		Notes:           order.Notes,
	}, nil
}

// Verify checks the checkout signature: HMAC-SHA256 of "order_id|payment_id"
// keyed with the key secret
func (r *Razorpay) Verify(v Verification) error {
	if r.keySecret == "" {
		return ErrNotConfigured
	}
	if !r.verifySignature(v.ProviderOrderID, v.PaymentID, v.Signature) {
		return ErrInvalidSignature
	}
	return nil
}

func (r *Razorpay) verifySignature(orderID, paymentID, signature string) bool {
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, sign(r.keySecret, orderID, paymentID))
}

func sign(secret, orderID, paymentID string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return mac.Sum(nil)
}

// Signature computes the signature Razorpay returns for a payment. Used by
// tests and local fakes of the checkout widget.
func Signature(secret, orderID, paymentID string) string {
	return hex.EncodeToString(sign(secret, orderID, paymentID))
}

func (r *Razorpay) makeAPICall(ctx context.Context, method, endpoint string, data interface{}) ([]byte, error) {
	var reqBody []byte
	if data != nil {
		var err error
		reqBody, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request data: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(r.keyID, r.keySecret)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make API call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Description != "" {
			return nil, fmt.Errorf("API call failed with status %d: %s: %s", resp.StatusCode, apiErr.Error.Code, apiErr.Error.Description)
		}
		return nil, fmt.Errorf("API call failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
