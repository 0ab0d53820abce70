// internal/domain/order/status.go
package order

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// lifecycle position of each non-cancelled status
var statusRank = map[OrderStatus]int{
	OrderStatusPending:        0,
	OrderStatusConfirmed:      1,
	OrderStatusPreparing:      2,
	OrderStatusOutForDelivery: 3,
	OrderStatusDelivered:      4,
}

// IsValid reports whether s is a known status
func (s OrderStatus) IsValid() bool {
	_, ok := statusRank[s]
	return ok || s == OrderStatusCancelled
}

// IsTerminal reports whether no further transition is possible
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Label is the human readable form used in notifications
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusPending:
		return "Pending"
	case OrderStatusConfirmed:
		return "Confirmed"
	case OrderStatusPreparing:
		return "Preparing"
	case OrderStatusOutForDelivery:
		return "Out for Delivery"
	case OrderStatusDelivered:
		return "Delivered"
	case OrderStatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// CanTransition reports whether an order may move from one status to another.
// Statuses only move forward, skipping is allowed, and cancelled is reachable
// from any non-terminal status.
func CanTransition(from, to OrderStatus) bool {
	if !from.IsValid() || !to.IsValid() || from == to || from.IsTerminal() {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	return statusRank[to] > statusRank[from]
}
