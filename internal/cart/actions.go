package cart

import "github.com/movase/bookstore/internal/domain"

// Action is a tagged cart mutation applied by the pure apply function
type Action interface {
	isAction()
}

// AddItem inserts a new line with quantity 1 or increments an existing
// line with the same id
type AddItem struct {
	Item domain.CartItem
}

// RemoveItem deletes a line; no-op when absent
type RemoveItem struct {
	ID int
}

// UpdateQuantity sets a line's quantity to max(0, Quantity); a resulting
// quantity of 0 removes the line
type UpdateQuantity struct {
	ID       int
	Quantity int
}

// Clear empties the cart
type Clear struct{}

func (AddItem) isAction()        {}
func (RemoveItem) isAction()     {}
func (UpdateQuantity) isAction() {}
func (Clear) isAction()          {}

// apply computes the next item list for an action. It never mutates its
// input and upholds the invariant that no item has quantity <= 0.
func apply(items []domain.CartItem, action Action) []domain.CartItem {
	switch a := action.(type) {
	case AddItem:
		for i, item := range items {
			if item.ID == a.Item.ID {
				next := append([]domain.CartItem(nil), items...)
				next[i].Quantity++
				return next
			}
		}
		added := a.Item
		added.Quantity = 1
		return append(append([]domain.CartItem(nil), items...), added)

	case RemoveItem:
		next := make([]domain.CartItem, 0, len(items))
		for _, item := range items {
			if item.ID != a.ID {
				next = append(next, item)
			}
		}
		return next

	case UpdateQuantity:
		qty := a.Quantity
		if qty < 0 {
			qty = 0
		}
		next := make([]domain.CartItem, 0, len(items))
		for _, item := range items {
			if item.ID == a.ID {
				item.Quantity = qty
			}
			if item.Quantity > 0 {
				next = append(next, item)
			}
		}
		return next

	case Clear:
		return nil

	default:
		return items
	}
}
