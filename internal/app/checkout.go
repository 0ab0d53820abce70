// internal/app/checkout.go
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nabin216/ZotPot/internal/domain/cart"
	"github.com/nabin216/ZotPot/internal/domain/order"
	"github.com/nabin216/ZotPot/internal/pkg/money"
	"github.com/nabin216/ZotPot/internal/services/payment"
	"github.com/sirupsen/logrus"
)

const (
	paymentFailed      = "Payment verification failed"
	paymentStartFailed = "Failed to start payment"
)

// Result is the outcome of a checkout
type Result struct {
	Success bool         `json:"success"`
	Order   *order.Order `json:"order,omitempty"`
}

// Pending is a checkout waiting for the payment widget
type Pending struct {
	Draft      order.Order        `json:"order"`
	Initiation payment.Initiation `json:"payment"`
}

// Checkout turns the cart into a paid order
type Checkout struct {
	store       Store
	payments    payment.Provider
	orders      *Orders
	deliveryFee money.Money
	logger      logrus.FieldLogger
	now         func() time.Time

	mu      sync.Mutex
	pending map[string]order.Order
}

// NewCheckout creates a new checkout workflow
func NewCheckout(st Store, payments payment.Provider, orders *Orders, deliveryFee money.Money, logger logrus.FieldLogger) *Checkout {
	return &Checkout{
		store:       st,
		payments:    payments,
		orders:      orders,
		deliveryFee: deliveryFee,
		logger:      logger,
		now:         time.Now,
		pending:     make(map[string]order.Order),
	}
}

// Start drafts an order from the cart and opens a payment for it. The cart
// is left untouched until the payment is verified.
func (c *Checkout) Start(ctx context.Context, delivery order.Location) (*Pending, error) {
	snapshot := c.store.Snapshot()
	userID := snapshot.Auth.UserID()
	if userID == "" {
		return nil, ErrNotSignedIn
	}
	if snapshot.Cart.Empty() {
		return nil, ErrEmptyCart
	}

	draft := c.draft(snapshot.Cart, delivery)

	c.store.Dispatch(order.ClearError())
	c.store.Dispatch(order.SetLoading{Loading: true})

	initiation, err := c.payments.Initiate(ctx, payment.Request{
		Receipt: draft.ID,
		Amount:  draft.Total,
		Notes:   map[string]string{"user_id": userID},
	})
	if err != nil {
		c.logger.WithError(err).WithField("order_id", draft.ID).Error("Failed to initiate payment")
		if ctx.Err() == nil {
			c.store.Dispatch(order.ErrorMessage(paymentStartFailed))
		}
		c.store.Dispatch(order.SetLoading{Loading: false})
		return nil, fmt.Errorf("failed to initiate payment: %w", err)
	}

	c.mu.Lock()
	c.pending[initiation.ProviderOrderID] = draft
	c.mu.Unlock()

	c.logger.WithFields(logrus.Fields{
		"order_id":          draft.ID,
		"razorpay_order_id": initiation.ProviderOrderID,
		"total":             draft.Total.String(),
	}).Info("Checkout started")

	return &Pending{Draft: draft.Clone(), Initiation: *initiation}, nil
}

func (c *Checkout) draft(ct cart.State, delivery order.Location) order.Order {
	items := make([]order.Item, 0, len(ct.Items))
	for _, item := range ct.Items {
		items = append(items, order.Item{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	return order.Order{
		ID:               uuid.New().String(),
		Items:            items,
		Total:            ct.Total.Add(c.deliveryFee),
		Status:           order.OrderStatusPending,
		DeliveryLocation: delivery,
		CreatedAt:        c.now().UTC(),
	}
}

// Complete verifies the widget's result. On success the order is added,
// the cart cleared and the order becomes the current one.
func (c *Checkout) Complete(ctx context.Context, v payment.Verification) (Result, error) {
	c.mu.Lock()
	draft, ok := c.pending[v.ProviderOrderID]
	if ok {
		delete(c.pending, v.ProviderOrderID)
	}
	c.mu.Unlock()
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownCheckout, v.ProviderOrderID)
	}

	if err := c.payments.Verify(v); err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"order_id":          draft.ID,
			"razorpay_order_id": v.ProviderOrderID,
		}).Warn("Payment verification failed")
		c.store.Dispatch(order.ErrorMessage(paymentFailed))
		c.store.Dispatch(order.SetLoading{Loading: false})
		return Result{Success: false}, err
	}

	c.store.Dispatch(order.AddOrder{Order: draft})
	c.store.Dispatch(cart.Clear{})
	c.store.Dispatch(order.SetCurrentOrder{Order: &draft})
	c.store.Dispatch(order.SetLoading{Loading: false})

	c.logger.WithFields(logrus.Fields{
		"order_id":   draft.ID,
		"payment_id": v.PaymentID,
	}).Info("Order placed")

	if userID := c.store.Snapshot().Auth.UserID(); userID != "" && c.orders != nil {
		if err := c.orders.Record(ctx, userID, draft); err != nil {
			c.logger.WithError(err).WithField("order_id", draft.ID).Error("Failed to record order history")
		}
	}

	placed := draft.Clone()
	return Result{Success: true, Order: &placed}, nil
}

// Abandon drops a pending checkout after the widget reported a failure or
// the customer closed it
func (c *Checkout) Abandon(providerOrderID, reason string) error {
	c.mu.Lock()
	draft, ok := c.pending[providerOrderID]
	delete(c.pending, providerOrderID)
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCheckout, providerOrderID)
	}

	c.logger.WithFields(logrus.Fields{
		"order_id":          draft.ID,
		"razorpay_order_id": providerOrderID,
		"reason":            reason,
	}).Info("Checkout abandoned")

	msg := "Payment cancelled"
	if reason != "" {
		msg = "Payment failed: " + reason
	}
	c.store.Dispatch(order.ErrorMessage(msg))
	c.store.Dispatch(order.SetLoading{Loading: false})
	return nil
}

// IsPending reports whether a provider order is awaiting verification
func (c *Checkout) IsPending(providerOrderID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[providerOrderID]
	return ok
}

// IsPaymentError reports whether err came from the payment provider's checks
func IsPaymentError(err error) bool {
	return errors.Is(err, payment.ErrInvalidSignature) || errors.Is(err, payment.ErrInvalidAmount) ||
		errors.Is(err, payment.ErrNotConfigured)
}
