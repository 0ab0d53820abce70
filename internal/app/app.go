// internal/app/app.go
package app

import (
	"errors"

	"github.com/nabin216/ZotPot/internal/store"
)

var (
	ErrNotSignedIn     = errors.New("not signed in")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrUnknownCheckout = errors.New("unknown checkout")
	ErrNameRequired    = errors.New("name is required")
	ErrInvalidRole     = errors.New("invalid role")
)

// Store is the part of the state store the workflows use
type Store interface {
	Dispatch(a store.Action) bool
	Snapshot() store.State
	Subscribe(fn store.Listener) func()
}
