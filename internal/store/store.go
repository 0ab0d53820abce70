// internal/store/store.go
package store

import (
	"sync"

	"github.com/nabin216/ZotPot/internal/domain/auth"
	"github.com/nabin216/ZotPot/internal/domain/cart"
	"github.com/nabin216/ZotPot/internal/domain/order"
	"github.com/sirupsen/logrus"
)

// Action is anything a slice reducer understands
type Action interface {
	ActionType() string
}

// Listener receives a snapshot after every state change
type Listener func(State)

type subscription struct {
	id uint64
	fn Listener
}

// Store owns the client state. Dispatch is the only writer; snapshots handed
// out are never modified afterwards.
type Store struct {
	mu        sync.Mutex
	state     State
	orders    order.Reducer
	subs      []subscription
	nextSubID uint64

	// snapshots waiting to be delivered, in dispatch order
	pending   []State
	notifying bool

	logger  logrus.FieldLogger
	metrics *Metrics
}

// New creates a new store with empty slices
func New(opts ...Option) *Store {
	s := &Store{
		state:  initialState(),
		logger: discardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.orders.OnRejected = func(orderID string, from, to order.OrderStatus) {
		s.logger.WithFields(logrus.Fields{
			"order_id": orderID,
			"from":     from,
			"to":       to,
		}).Warn("Rejected order status transition")
	}
	return s
}

// Snapshot returns the current state
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to be called after each change, in registration
// order. The returned func removes the subscription and is safe to call twice.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.metrics.setSubscribers(len(s.subs))
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			subs := make([]subscription, 0, len(s.subs))
			for _, sub := range s.subs {
				if sub.id != id {
					subs = append(subs, sub)
				}
			}
			s.subs = subs
			s.metrics.setSubscribers(len(s.subs))
		})
	}
}

// Dispatch applies a to the owning slice and notifies subscribers when the
// state changed. Listeners may dispatch again; those snapshots are delivered
// after the current round, in order.
func (s *Store) Dispatch(a Action) bool {
	if a == nil {
		return false
	}

	s.mu.Lock()
	changed := s.apply(a)
	s.metrics.observeDispatch(a.ActionType(), changed)
	s.logger.WithFields(logrus.Fields{
		"action":  a.ActionType(),
		"changed": changed,
	}).Debug("Dispatched action")

	if changed {
		s.pending = append(s.pending, s.state)
	}
	if s.notifying {
		s.mu.Unlock()
		return changed
	}

	s.notifying = true
	for len(s.pending) > 0 {
		snapshot := s.pending[0]
		s.pending = s.pending[1:]
		subs := make([]subscription, len(s.subs))
		copy(subs, s.subs)
		s.mu.Unlock()

		for _, sub := range subs {
			s.notify(sub.fn, snapshot)
		}

		s.mu.Lock()
	}
	s.notifying = false
	s.mu.Unlock()
	return changed
}

func (s *Store) apply(a Action) bool {
	next := s.state
	changed := false

	switch a := a.(type) {
	case cart.Action:
		next.Cart, changed = cart.Reduce(s.state.Cart, a)
		if changed {
			next.Revisions.Cart++
		}
	case order.Action:
		next.Order, changed = s.orders.Reduce(s.state.Order, a)
		if changed {
			next.Revisions.Order++
		}
	case auth.Action:
		next.Auth, changed = auth.Reduce(s.state.Auth, a)
		if changed {
			next.Revisions.Auth++
			next.Route = auth.RouteFor(next.Auth)
		}
	default:
		s.logger.WithField("action", a.ActionType()).Warn("Unhandled action")
		return false
	}

	if changed {
		s.state = next
	}
	return changed
}

func (s *Store) notify(fn Listener, snapshot State) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("panic", r).Error("Store listener panicked")
		}
	}()
	fn(snapshot.clone())
}
