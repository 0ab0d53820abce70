// internal/domain/order/actions.go
package order

import "time"

// Action is an order slice mutation. The set is closed.
type Action interface {
	ActionType() string
	orderAction()
}

// SetOrders replaces the list wholesale
type SetOrders struct {
	Orders []Order
}

// AddOrder prepends a newly placed order
type AddOrder struct {
	Order Order
}

// SetCurrentOrder selects the order being viewed. A nil Order clears it.
type SetCurrentOrder struct {
	Order *Order
}

// UpdateOrderStatus is a remote status change
type UpdateOrderStatus struct {
	OrderID string
	Status  OrderStatus
}

// UpdateDeliveryAgentLocation is a location ping from the assigned agent
type UpdateDeliveryAgentLocation struct {
	OrderID  string
	Location Location
}

// AssignDeliveryAgent attaches or replaces the agent of an order
type AssignDeliveryAgent struct {
	OrderID string
	Agent   DeliveryAgent
}

// SetEstimatedDelivery sets the delivery estimate. A nil time clears it.
type SetEstimatedDelivery struct {
	OrderID string
	At      *time.Time
}

// SetLoading flags an order operation in flight
type SetLoading struct {
	Loading bool
}

// SetError records or clears the last order error
type SetError struct {
	Error *string
}

func (SetOrders) ActionType() string                   { return "order/setOrders" }
func (AddOrder) ActionType() string                    { return "order/addOrder" }
func (SetCurrentOrder) ActionType() string             { return "order/setCurrentOrder" }
func (UpdateOrderStatus) ActionType() string           { return "order/updateOrderStatus" }
func (UpdateDeliveryAgentLocation) ActionType() string { return "order/updateDeliveryAgentLocation" }
func (AssignDeliveryAgent) ActionType() string         { return "order/assignDeliveryAgent" }
func (SetEstimatedDelivery) ActionType() string        { return "order/setEstimatedDelivery" }
func (SetLoading) ActionType() string                  { return "order/setLoading" }
func (SetError) ActionType() string                    { return "order/setError" }

func (SetOrders) orderAction()                   {}
func (AddOrder) orderAction()                    {}
func (SetCurrentOrder) orderAction()             {}
func (UpdateOrderStatus) orderAction()           {}
func (UpdateDeliveryAgentLocation) orderAction() {}
func (AssignDeliveryAgent) orderAction()         {}
func (SetEstimatedDelivery) orderAction()        {}
func (SetLoading) orderAction()                  {}
func (SetError) orderAction()                    {}

// ErrorMessage is a convenience for SetError with a message
func ErrorMessage(msg string) SetError {
	return SetError{Error: &msg}
}

// ClearError is SetError with no message
func ClearError() SetError {
	return SetError{}
}
