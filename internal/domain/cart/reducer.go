// internal/domain/cart/reducer.go
package cart

import "github.com/nabin216/ZotPot/internal/pkg/money"

// Reduce applies an action and returns the next state plus whether anything
// changed. The input state is never modified.
func Reduce(s State, a Action) (State, bool) {
	switch a := a.(type) {
	case AddOrUpdateItem:
		return addOrUpdate(s, a.Item)
	case UpdateQuantity:
		return updateQuantity(s, a.ID, a.Quantity)
	case RemoveItem:
		return remove(s, a.ID)
	case Clear:
		if len(s.Items) == 0 && s.Total.IsZero() {
			return s, false
		}
		return Empty(), true
	case Hydrate:
		next := hydrate(a.Items)
		if sameItems(s.Items, next.Items) {
			return s, false
		}
		return next, true
	}
	return s, false
}

func addOrUpdate(s State, item Item) (State, bool) {
	if item.ID == "" || item.Quantity <= 0 || item.Price.IsNegative() {
		return s, false
	}

	items := make([]Item, 0, len(s.Items)+1)
	replaced := false
	for _, existing := range s.Items {
		if existing.ID == item.ID {
			if sameItem(existing, item) {
				return s, false
			}
			items = append(items, item)
			replaced = true
			continue
		}
		items = append(items, existing)
	}
	if !replaced {
		items = append(items, item)
	}
	return withTotal(items), true
}

func updateQuantity(s State, id string, quantity int) (State, bool) {
	if quantity < 0 {
		return s, false
	}

	idx := indexOf(s.Items, id)
	if idx < 0 || s.Items[idx].Quantity == quantity {
		return s, false
	}

	items := make([]Item, len(s.Items))
	copy(items, s.Items)
	items[idx].Quantity = quantity
	return withTotal(items), true
}

func remove(s State, id string) (State, bool) {
	idx := indexOf(s.Items, id)
	if idx < 0 {
		return s, false
	}

	items := make([]Item, 0, len(s.Items)-1)
	items = append(items, s.Items[:idx]...)
	items = append(items, s.Items[idx+1:]...)
	return withTotal(items), true
}

// hydrate keeps the position of the first occurrence and the value of the
// last one for duplicate ids. Invalid items are dropped.
func hydrate(in []Item) State {
	items := make([]Item, 0, len(in))
	seen := make(map[string]int, len(in))
	for _, item := range in {
		if item.ID == "" || item.Quantity <= 0 || item.Price.IsNegative() {
			continue
		}
		if idx, ok := seen[item.ID]; ok {
			items[idx] = item
			continue
		}
		seen[item.ID] = len(items)
		items = append(items, item)
	}
	return withTotal(items)
}

func withTotal(items []Item) State {
	total := money.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return State{Items: items, Total: total}
}

func sameItem(a, b Item) bool {
	return a.ID == b.ID && a.Name == b.Name && a.Quantity == b.Quantity &&
		a.Image == b.Image && a.Price.Equal(b.Price)
}

func sameItems(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameItem(a[i], b[i]) {
			return false
		}
	}
	return true
}

func indexOf(items []Item, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
