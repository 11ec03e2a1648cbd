// Package cart implements the in-memory session cart store.
//
// Carts are keyed by an opaque token issued to the browser session. They are
// deliberately ephemeral: a restart empties every cart, which matches how the
// storefront treats them (a staging area for checkout, never a system of
// record).
package cart

import (
	"context"
	"sync"

	"github.com/ngocanhle/pawshop/internal/domain"
)

// Store is a mutex-guarded in-memory implementation of domain.CartStore.
type Store struct {
	mu    sync.RWMutex
	carts map[string][]domain.CartItem
}

// NewStore creates an empty cart store.
func NewStore() *Store {
	return &Store{
		carts: make(map[string][]domain.CartItem),
	}
}

// Ensure Store implements the interface.
var _ domain.CartStore = (*Store)(nil)

// AddItem adds an item to the token's cart, merging quantity into an
// existing line when the same product size is already present.
func (s *Store) AddItem(ctx context.Context, token string, item domain.CartItem) ([]domain.CartItem, error) {
	const op = "cart.add"

	if token == "" {
		return nil, domain.Invalid(op, "missing cart token")
	}
	if item.Quantity < 1 {
		return nil, domain.Invalid(op, "quantity must be at least 1")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[token]
	merged := false
	for i := range items {
		if items[i].SizeID == item.SizeID {
			items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, item)
	}
	s.carts[token] = items

	return copyItems(items), nil
}

// GetItems returns a copy of the cart's items. A missing cart is an empty
// cart, not an error.
func (s *Store) GetItems(ctx context.Context, token string) ([]domain.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyItems(s.carts[token]), nil
}

// RemoveItem deletes the line for the given size. Removing an absent line is
// a no-op.
func (s *Store) RemoveItem(ctx context.Context, token string, sizeID int64) ([]domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[token]
	for i := range items {
		if items[i].SizeID == sizeID {
			items = append(items[:i], items[i+1:]...)
			break
		}
	}
	if len(items) == 0 {
		delete(s.carts, token)
	} else {
		s.carts[token] = items
	}

	return copyItems(items), nil
}

// Clear drops the token's cart entirely.
func (s *Store) Clear(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, token)
	return nil
}

// copyItems returns a defensive copy so callers never alias internal state.
func copyItems(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, len(items))
	copy(out, items)
	return out
}
