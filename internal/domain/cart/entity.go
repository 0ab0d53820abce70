// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/nabin216/ZotPot/internal/pkg/money"
)

// Item is a single line in the cart
type Item struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Price    money.Money `json:"price"`
	Quantity int         `json:"quantity"`
	Image    string      `json:"image,omitempty"`
}

// LineTotal is price * quantity
func (i Item) LineTotal() money.Money {
	return i.Price.Mul(i.Quantity)
}

// State is the cart slice. Items keep insertion order and Total is always
// the sum of the line totals.
type State struct {
	Items []Item      `json:"items"`
	Total money.Money `json:"total"`
}

// Empty returns a cart with no items
func Empty() State {
	return State{Items: []Item{}, Total: money.Zero}
}

// Find returns the item with the given id
func (s State) Find(id string) (Item, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// Count returns the number of distinct items
func (s State) Count() int {
	return len(s.Items)
}

// Quantity returns the sum of all quantities
func (s State) Quantity() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

// Clone returns a copy that shares no backing array with s
func (s State) Clone() State {
	items := make([]Item, len(s.Items))
	copy(items, s.Items)
	return State{Items: items, Total: s.Total}
}

// SessionCart is the persisted form of the cart, stored in Redis
type SessionCart struct {
	SessionID string    `json:"session_id"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
