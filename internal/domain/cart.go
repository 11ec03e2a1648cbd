package domain

import "context"

// CartItem is one line of a session cart. Name, size label and unit price
// are resolved from the catalog when the item is added, so the cart already
// carries everything an order line snapshot needs.
type CartItem struct {
	ProductID   int64
	ProductName string
	SizeID      int64
	Size        string
	UnitPrice   int64
	Quantity    int32
}

// LineTotal returns quantity times unit price.
func (i CartItem) LineTotal() int64 {
	return int64(i.Quantity) * i.UnitPrice
}

// CartStore holds per-session carts keyed by an opaque token. Carts are
// ephemeral: they live in process memory and vanish on restart.
type CartStore interface {
	// AddItem adds an item to the token's cart. Adding a size that is
	// already present merges quantities instead of creating a second line.
	AddItem(ctx context.Context, token string, item CartItem) ([]CartItem, error)

	// GetItems returns a copy of the cart's items, never nil.
	GetItems(ctx context.Context, token string) ([]CartItem, error)

	// RemoveItem deletes the line for the given size, if present.
	RemoveItem(ctx context.Context, token string, sizeID int64) ([]CartItem, error)

	// Clear drops the whole cart. Called after a successful checkout.
	Clear(ctx context.Context, token string) error
}
