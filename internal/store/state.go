// internal/store/state.go
package store

import (
	"github.com/nabin216/ZotPot/internal/domain/auth"
	"github.com/nabin216/ZotPot/internal/domain/cart"
	"github.com/nabin216/ZotPot/internal/domain/order"
)

// State is an immutable snapshot of every slice. Revision counters tell
// subscribers which slice moved since the last snapshot they saw.
type State struct {
	Auth  auth.State  `json:"auth"`
	Cart  cart.State  `json:"cart"`
	Order order.State `json:"order"`

	Route     auth.Route `json:"route"`
	Revisions Revisions  `json:"revisions"`
}

// Revisions counts changes per slice
type Revisions struct {
	Auth  uint64 `json:"auth"`
	Cart  uint64 `json:"cart"`
	Order uint64 `json:"order"`
}

func initialState() State {
	s := State{
		Auth:  auth.Empty(),
		Cart:  cart.Empty(),
		Order: order.Empty(),
	}
	s.Route = auth.RouteFor(s.Auth)
	return s
}

// clone detaches the cart items so subscribers can't write into the store.
// The other slices only hand out copies through their accessors.
func (s State) clone() State {
	s.Cart = s.Cart.Clone()
	return s
}
