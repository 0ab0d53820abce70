// internal/domain/order/reducer.go
package order

// Reducer applies order actions. The zero value enforces the status lifecycle.
type Reducer struct {
	// Permissive accepts any known status regardless of the current one
	Permissive bool
	// OnRejected is called when a status change is refused by the lifecycle
	OnRejected func(orderID string, from, to OrderStatus)
}

// Reduce applies a with the default lifecycle policy
func Reduce(s State, a Action) (State, bool) {
	return Reducer{}.Reduce(s, a)
}

// Reduce returns the next state and whether anything changed. s is never modified.
func (r Reducer) Reduce(s State, a Action) (State, bool) {
	switch a := a.(type) {
	case SetOrders:
		return setOrders(s, a.Orders)
	case AddOrder:
		return addOrder(s, a.Order)
	case SetCurrentOrder:
		return setCurrent(s, a.Order)
	case UpdateOrderStatus:
		if !a.Status.IsValid() {
			return s, false
		}
		return updateOrder(s, a.OrderID, func(o *Order) bool {
			if o.Status == a.Status {
				return false
			}
			if !r.Permissive && !CanTransition(o.Status, a.Status) {
				if r.OnRejected != nil {
					r.OnRejected(o.ID, o.Status, a.Status)
				}
				return false
			}
			o.Status = a.Status
			return true
		})
	case UpdateDeliveryAgentLocation:
		return updateOrder(s, a.OrderID, func(o *Order) bool {
			if o.DeliveryAgent == nil {
				return false
			}
			if cur := o.DeliveryAgent.CurrentLocation; cur != nil && *cur == a.Location {
				return false
			}
			loc := a.Location
			o.DeliveryAgent.CurrentLocation = &loc
			return true
		})
	case AssignDeliveryAgent:
		return updateOrder(s, a.OrderID, func(o *Order) bool {
			agent := a.Agent.clone()
			if agentsEqual(o.DeliveryAgent, &agent) {
				return false
			}
			o.DeliveryAgent = &agent
			return true
		})
	case SetEstimatedDelivery:
		return updateOrder(s, a.OrderID, func(o *Order) bool {
			switch {
			case a.At == nil && o.EstimatedDeliveryTime == nil:
				return false
			case a.At != nil && o.EstimatedDeliveryTime != nil && a.At.Equal(*o.EstimatedDeliveryTime):
				return false
			}
			if a.At == nil {
				o.EstimatedDeliveryTime = nil
				return true
			}
			eta := *a.At
			o.EstimatedDeliveryTime = &eta
			return true
		})
	case SetLoading:
		if s.isLoading == a.Loading {
			return s, false
		}
		s.isLoading = a.Loading
		return s, true
	case SetError:
		return setError(s, a.Error)
	}
	return s, false
}

// setOrders keeps the first entry for duplicate ids
func setOrders(s State, in []Order) (State, bool) {
	orders := make([]Order, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, o := range in {
		if seen[o.ID] {
			continue
		}
		seen[o.ID] = true
		orders = append(orders, o.Clone())
	}

	if sameOrders(s.orders, orders) {
		return s, false
	}

	// keep the viewed order alive when it drops out of the list
	if s.hasCurrent && s.currentID != "" && !seen[s.currentID] {
		if idx := s.indexOf(s.currentID); idx >= 0 {
			detached := s.orders[idx].Clone()
			s.detached = &detached
		}
	}
	s.orders = orders
	return reconcile(s), true
}

func addOrder(s State, o Order) (State, bool) {
	if o.ID == "" {
		return s, false
	}

	orders := make([]Order, 0, len(s.orders)+1)
	orders = append(orders, o.Clone())
	for _, existing := range s.orders {
		if existing.ID != o.ID {
			orders = append(orders, existing)
		}
	}
	s.orders = orders
	return reconcile(s), true
}

func setCurrent(s State, o *Order) (State, bool) {
	if o == nil {
		if !s.hasCurrent {
			return s, false
		}
		s.hasCurrent = false
		s.currentID = ""
		s.detached = nil
		return s, true
	}

	if current := s.CurrentOrder(); current != nil && current.Equal(*o) {
		return s, false
	}

	s.hasCurrent = true
	s.currentID = o.ID
	s.detached = nil
	if o.ID == "" || s.indexOf(o.ID) < 0 {
		detached := o.Clone()
		s.detached = &detached
	}
	return s, true
}

// updateOrder applies fn to the order in the list and to the detached
// current order, whichever holds id. fn reports whether it changed anything.
func updateOrder(s State, id string, fn func(*Order) bool) (State, bool) {
	if id == "" {
		return s, false
	}

	if idx := s.indexOf(id); idx >= 0 {
		updated := s.orders[idx].Clone()
		if !fn(&updated) {
			return s, false
		}
		orders := make([]Order, len(s.orders))
		copy(orders, s.orders)
		orders[idx] = updated
		s.orders = orders
		return s, true
	}

	if s.detached != nil && s.detached.ID == id {
		updated := s.detached.Clone()
		if !fn(&updated) {
			return s, false
		}
		s.detached = &updated
		return s, true
	}
	return s, false
}

func setError(s State, msg *string) (State, bool) {
	switch {
	case msg == nil && s.err == nil:
		return s, false
	case msg != nil && s.err != nil && *msg == *s.err:
		return s, false
	}
	if msg == nil {
		s.err = nil
		return s, true
	}
	m := *msg
	s.err = &m
	return s, true
}

// reconcile drops the detached copy once the list holds the referenced id
func reconcile(s State) State {
	if s.detached != nil && s.currentID != "" && s.indexOf(s.currentID) >= 0 {
		s.detached = nil
	}
	return s
}

func sameOrders(a, b []Order) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
