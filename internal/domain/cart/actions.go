// internal/domain/cart/actions.go
package cart

// Action is a cart mutation. The set is closed: only this package
// implements it.
type Action interface {
	ActionType() string
	cartAction()
}

// AddOrUpdateItem replaces the item with the same ID in place, or appends it
type AddOrUpdateItem struct {
	Item Item
}

// UpdateQuantity sets the quantity of an existing item. Callers that want
// an item gone issue RemoveItem instead of a zero quantity.
type UpdateQuantity struct {
	ID       string
	Quantity int
}

// RemoveItem deletes the item if present
type RemoveItem struct {
	ID string
}

// Clear empties the cart
type Clear struct{}

// Hydrate replaces the cart wholesale, e.g. from a persisted session
type Hydrate struct {
	Items []Item
}

func (AddOrUpdateItem) ActionType() string { return "cart/addOrUpdateItem" }
func (UpdateQuantity) ActionType() string  { return "cart/updateQuantity" }
func (RemoveItem) ActionType() string      { return "cart/removeItem" }
func (Clear) ActionType() string           { return "cart/clearCart" }
func (Hydrate) ActionType() string         { return "cart/hydrate" }

func (AddOrUpdateItem) cartAction() {}
func (UpdateQuantity) cartAction()  {}
func (RemoveItem) cartAction()      {}
func (Clear) cartAction()           {}
func (Hydrate) cartAction()         {}

// QuantityChange maps a stepper change to the right action: zero or less
// removes the item, anything else updates it.
func QuantityChange(id string, quantity int) Action {
	if quantity <= 0 {
		return RemoveItem{ID: id}
	}
	return UpdateQuantity{ID: id, Quantity: quantity}
}
