// internal/app/orders.go
package app

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/nabin216/ZotPot/internal/domain/order"
	"github.com/nabin216/ZotPot/internal/infrastructure/docstore"
	"github.com/sirupsen/logrus"
)

const loadOrdersFailed = "Failed to load orders"

type orderHistory struct {
	Orders []order.Order `json:"orders"`
}

// Orders keeps the order slice in sync with the user's order history document
type Orders struct {
	store  Store
	docs   docstore.Store
	logger logrus.FieldLogger

	// generation of the latest Refresh; older results are dropped
	generation atomic.Uint64
}

// NewOrders creates a new order history workflow
func NewOrders(st Store, docs docstore.Store, logger logrus.FieldLogger) *Orders {
	return &Orders{
		store:  st,
		docs:   docs,
		logger: logger,
	}
}

// Refresh loads the signed-in user's history into the store. When a newer
// Refresh starts or ctx ends first, the result is discarded. A cancelled
// Refresh still clears the loading flag.
func (o *Orders) Refresh(ctx context.Context) error {
	userID := o.store.Snapshot().Auth.UserID()
	if userID == "" {
		return ErrNotSignedIn
	}

	gen := o.generation.Add(1)
	o.store.Dispatch(order.SetLoading{Loading: true})
	o.store.Dispatch(order.ClearError())

	orders, err := o.load(ctx, userID)

	if o.generation.Load() != gen {
		return ctx.Err()
	}
	if ctx.Err() != nil {
		// drop the result but do not leave the spinner on
		o.store.Dispatch(order.SetLoading{Loading: false})
		return ctx.Err()
	}
	if err != nil {
		o.logger.WithError(err).WithField("user_id", userID).Error("Failed to load order history")
		o.store.Dispatch(order.ErrorMessage(loadOrdersFailed))
		o.store.Dispatch(order.SetLoading{Loading: false})
		return err
	}

	o.store.Dispatch(order.SetOrders{Orders: orders})
	o.store.Dispatch(order.SetLoading{Loading: false})
	return nil
}

func (o *Orders) load(ctx context.Context, userID string) ([]order.Order, error) {
	doc, ok, err := o.docs.Get(ctx, docstore.CollectionOrderHistory, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order history: %w", err)
	}
	if !ok {
		return []order.Order{}, nil
	}

	var history orderHistory
	if err := docstore.Decode(doc, &history); err != nil {
		return nil, err
	}
	return history.Orders, nil
}

// Record prepends a placed order to the user's history document
func (o *Orders) Record(ctx context.Context, userID string, placed order.Order) error {
	existing, err := o.load(ctx, userID)
	if err != nil {
		return err
	}

	orders := make([]order.Order, 0, len(existing)+1)
	orders = append(orders, placed)
	for _, prev := range existing {
		if prev.ID != placed.ID {
			orders = append(orders, prev)
		}
	}

	doc, err := docstore.Encode(orderHistory{Orders: orders})
	if err != nil {
		return err
	}
	if err := o.docs.Set(ctx, docstore.CollectionOrderHistory, userID, doc); err != nil {
		return fmt.Errorf("failed to save order history: %w", err)
	}
	return nil
}

// View selects an order from the list as the current order
func (o *Orders) View(orderID string) bool {
	found, ok := o.store.Snapshot().Order.Find(orderID)
	if !ok {
		return false
	}
	o.store.Dispatch(order.SetCurrentOrder{Order: &found})
	return true
}

// CloseView clears the current order
func (o *Orders) CloseView() {
	o.store.Dispatch(order.SetCurrentOrder{})
}
