// internal/infrastructure/tracking/message.go
package tracking

import (
	"time"

	"github.com/nabin216/ZotPot/internal/domain/order"
	"github.com/nabin216/ZotPot/internal/store"
)

// Message types sent over an order's tracking room
const (
	TypeLocationUpdate = "location_update"
	TypeStatusUpdate   = "status_update"
	TypeAgentAssigned  = "agent_assigned"
	TypeETAUpdate      = "eta_update"
)

// Message is one event on the tracking feed
type Message struct {
	Type                  string               `json:"type"`
	OrderID               string               `json:"order_id,omitempty"`
	UserID                string               `json:"user_id,omitempty"`
	Location              *order.Location      `json:"location,omitempty"`
	Status                order.OrderStatus    `json:"status,omitempty"`
	Agent                 *order.DeliveryAgent `json:"agent,omitempty"`
	EstimatedDeliveryTime *time.Time           `json:"estimated_delivery_time,omitempty"`
}

// ToAction converts a message into a store action. Messages without an
// order id belong to the followed order. Unknown or incomplete messages
// return false.
func (m Message) ToAction(followedOrderID string) (store.Action, bool) {
	orderID := m.OrderID
	if orderID == "" {
		orderID = followedOrderID
	}
	if orderID == "" {
		return nil, false
	}

	switch m.Type {
	case TypeLocationUpdate:
		if m.Location == nil {
			return nil, false
		}
		return order.UpdateDeliveryAgentLocation{OrderID: orderID, Location: *m.Location}, true
	case TypeStatusUpdate:
		if !m.Status.IsValid() {
			return nil, false
		}
		return order.UpdateOrderStatus{OrderID: orderID, Status: m.Status}, true
	case TypeAgentAssigned:
		if m.Agent == nil || m.Agent.ID == "" {
			return nil, false
		}
		return order.AssignDeliveryAgent{OrderID: orderID, Agent: *m.Agent}, true
	case TypeETAUpdate:
		return order.SetEstimatedDelivery{OrderID: orderID, At: m.EstimatedDeliveryTime}, true
	}
	return nil, false
}
