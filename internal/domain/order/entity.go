// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/nabin216/ZotPot/internal/pkg/money"
)

// Location is a point on the map. Locations are replaced wholesale, never edited.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// DeliveryAgent is the courier assigned to an order
type DeliveryAgent struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	CurrentLocation *Location `json:"current_location,omitempty"`
}

// Item is a line of a submitted order
type Item struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Price    money.Money `json:"price"`
	Quantity int         `json:"quantity"`
}

// Order represents a submitted order as the client sees it
type Order struct {
	ID                    string         `json:"id"`
	Items                 []Item         `json:"items"`
	Total                 money.Money    `json:"total"`
	Status                OrderStatus    `json:"status"`
	DeliveryLocation      Location       `json:"delivery_location"`
	DeliveryAgent         *DeliveryAgent `json:"delivery_agent,omitempty"`
	CreatedAt             time.Time      `json:"created_at"`
	EstimatedDeliveryTime *time.Time     `json:"estimated_delivery_time,omitempty"`
}

// Clone returns a deep copy
func (o Order) Clone() Order {
	c := o
	c.Items = make([]Item, len(o.Items))
	copy(c.Items, o.Items)
	if o.DeliveryAgent != nil {
		agent := o.DeliveryAgent.clone()
		c.DeliveryAgent = &agent
	}
	if o.EstimatedDeliveryTime != nil {
		eta := *o.EstimatedDeliveryTime
		c.EstimatedDeliveryTime = &eta
	}
	return c
}

// Equal reports whether two orders hold the same values
func (o Order) Equal(other Order) bool {
	if o.ID != other.ID || o.Status != other.Status || !o.Total.Equal(other.Total) ||
		o.DeliveryLocation != other.DeliveryLocation || !o.CreatedAt.Equal(other.CreatedAt) {
		return false
	}
	if len(o.Items) != len(other.Items) {
		return false
	}
	for i := range o.Items {
		a, b := o.Items[i], other.Items[i]
		if a.ID != b.ID || a.Name != b.Name || a.Quantity != b.Quantity || !a.Price.Equal(b.Price) {
			return false
		}
	}
	if !agentsEqual(o.DeliveryAgent, other.DeliveryAgent) {
		return false
	}
	switch {
	case o.EstimatedDeliveryTime == nil && other.EstimatedDeliveryTime == nil:
		return true
	case o.EstimatedDeliveryTime == nil || other.EstimatedDeliveryTime == nil:
		return false
	}
	return o.EstimatedDeliveryTime.Equal(*other.EstimatedDeliveryTime)
}

// ItemCount returns the total number of units ordered
func (o Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

func (a DeliveryAgent) clone() DeliveryAgent {
	c := a
	if a.CurrentLocation != nil {
		loc := *a.CurrentLocation
		c.CurrentLocation = &loc
	}
	return c
}

func agentsEqual(a, b *DeliveryAgent) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.ID != b.ID || a.Name != b.Name || a.Phone != b.Phone {
		return false
	}
	if a.CurrentLocation == nil || b.CurrentLocation == nil {
		return a.CurrentLocation == b.CurrentLocation
	}
	return *a.CurrentLocation == *b.CurrentLocation
}
