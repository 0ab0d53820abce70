// internal/app/cartsync.go
package app

import (
	"context"
	"sync"
	"time"

	"github.com/nabin216/ZotPot/internal/domain/cart"
	"github.com/nabin216/ZotPot/internal/store"
	"github.com/sirupsen/logrus"
)

// CartStore persists cart snapshots between runs
type CartStore interface {
	Load(ctx context.Context, sessionID string) (*cart.SessionCart, bool, error)
	Save(ctx context.Context, sessionID string, state cart.State) error
	Delete(ctx context.Context, sessionID string) error
}

// CartSync restores the cart on start and saves it whenever it changes
type CartSync struct {
	store     Store
	carts     CartStore
	sessionID string
	timeout   time.Duration
	logger    logrus.FieldLogger
}

// NewCartSync creates a new cart persistence workflow
func NewCartSync(st Store, carts CartStore, sessionID string, logger logrus.FieldLogger) *CartSync {
	return &CartSync{
		store:     st,
		carts:     carts,
		sessionID: sessionID,
		timeout:   5 * time.Second,
		logger:    logger,
	}
}

// Restore hydrates the cart slice from the saved session, if any
func (c *CartSync) Restore(ctx context.Context) (bool, error) {
	saved, ok, err := c.carts.Load(ctx, c.sessionID)
	if err != nil {
		return false, err
	}
	if !ok || len(saved.Items) == 0 {
		return false, nil
	}

	c.store.Dispatch(cart.Hydrate{Items: saved.Items})
	c.logger.WithFields(logrus.Fields{
		"session_id": c.sessionID,
		"items":      len(saved.Items),
	}).Info("Cart restored")
	return true, nil
}

// Run saves the cart after each change until ctx is done. Only the latest
// cart is kept when saves fall behind.
func (c *CartSync) Run(ctx context.Context) {
	latest := make(chan cart.State, 1)

	// baseline is the cart already persisted (or just restored)
	var mu sync.Mutex
	lastRevision := c.store.Snapshot().Revisions.Cart
	offer := func(s store.State) {
		mu.Lock()
		defer mu.Unlock()
		if s.Revisions.Cart <= lastRevision {
			return
		}
		lastRevision = s.Revisions.Cart

		select {
		case <-latest:
		default:
		}
		latest <- s.Cart
	}

	unsubscribe := c.store.Subscribe(offer)
	defer unsubscribe()
	// catch changes made before the listener was registered
	offer(c.store.Snapshot())

	for {
		select {
		case <-ctx.Done():
			return
		case state := <-latest:
			c.save(state)
		}
	}
}

func (c *CartSync) save(state cart.State) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	var err error
	if state.Empty() {
		err = c.carts.Delete(ctx, c.sessionID)
	} else {
		err = c.carts.Save(ctx, c.sessionID, state)
	}
	if err != nil {
		c.logger.WithError(err).WithField("session_id", c.sessionID).Error("Failed to persist cart")
	}
}
