// internal/domain/order/state.go
package order

import "encoding/json"

// State is the order slice. The current order is held as a reference to an
// entry of the list; a detached copy is only kept while the referenced id is
// not in the list yet.
type State struct {
	orders     []Order
	hasCurrent bool
	currentID  string
	detached   *Order
	isLoading  bool
	err        *string
}

// Empty returns an order slice with no orders
func Empty() State {
	return State{orders: []Order{}}
}

// Orders returns the order list, most recent first
func (s State) Orders() []Order {
	out := make([]Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = o.Clone()
	}
	return out
}

// Len returns the number of orders in the list
func (s State) Len() int {
	return len(s.orders)
}

// Find looks up an order in the list
func (s State) Find(id string) (Order, bool) {
	if idx := s.indexOf(id); idx >= 0 {
		return s.orders[idx].Clone(), true
	}
	return Order{}, false
}

// CurrentOrder returns the order being viewed, or nil
func (s State) CurrentOrder() *Order {
	if !s.hasCurrent {
		return nil
	}
	if s.currentID != "" {
		if idx := s.indexOf(s.currentID); idx >= 0 {
			o := s.orders[idx].Clone()
			return &o
		}
	}
	if s.detached != nil {
		o := s.detached.Clone()
		return &o
	}
	return nil
}

// IsLoading reports whether an order operation is in flight
func (s State) IsLoading() bool {
	return s.isLoading
}

// Error returns the last order error, or nil
func (s State) Error() *string {
	if s.err == nil {
		return nil
	}
	msg := *s.err
	return &msg
}

type stateJSON struct {
	Orders       []Order `json:"orders"`
	CurrentOrder *Order  `json:"current_order"`
	IsLoading    bool    `json:"is_loading"`
	Error        *string `json:"error"`
}

// MarshalJSON renders the slice with the current order resolved
func (s State) MarshalJSON() ([]byte, error) {
	orders := s.orders
	if orders == nil {
		orders = []Order{}
	}
	return json.Marshal(stateJSON{
		Orders:       orders,
		CurrentOrder: s.CurrentOrder(),
		IsLoading:    s.isLoading,
		Error:        s.err,
	})
}

func (s State) indexOf(id string) int {
	for i, o := range s.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}
