package service

import (
	"context"

	"github.com/ngocanhle/pawshop/internal/domain"
	"github.com/ngocanhle/pawshop/internal/telemetry"
)

// CartService resolves catalog data at add time so the cart already holds
// everything the order snapshot needs.
type CartService interface {
	// AddToCart resolves the size and product from the catalog and adds
	// the line, merging quantities for a repeated size.
	AddToCart(ctx context.Context, token string, sizeID int64, quantity int32) ([]domain.CartItem, error)

	// GetCart returns the cart's items and their subtotal.
	GetCart(ctx context.Context, token string) ([]domain.CartItem, int64, error)

	// RemoveFromCart drops the line for the given size.
	RemoveFromCart(ctx context.Context, token string, sizeID int64) ([]domain.CartItem, error)

	// ClearCart empties the cart.
	ClearCart(ctx context.Context, token string) error
}

// cartService implements CartService.
type cartService struct {
	carts   domain.CartStore
	catalog domain.CatalogStore
}

// NewCartService creates a cart service.
func NewCartService(carts domain.CartStore, catalog domain.CatalogStore) CartService {
	return &cartService{carts: carts, catalog: catalog}
}

func (s *cartService) AddToCart(ctx context.Context, token string, sizeID int64, quantity int32) ([]domain.CartItem, error) {
	const op = "cart.add"

	if quantity < 1 {
		return nil, domain.NewValidationError(op, "quantity", "must be at least 1")
	}

	size, err := s.catalog.GetProductSize(ctx, sizeID)
	if err != nil {
		return nil, err
	}

	// A soft stock check for a friendly error; the authoritative check is
	// the conditional decrement at order time.
	if size.Stock < quantity {
		return nil, domain.ErrInsufficientStock
	}

	product, err := s.catalog.GetProduct(ctx, size.ProductID)
	if err != nil {
		return nil, err
	}

	items, err := s.carts.AddItem(ctx, token, domain.CartItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		SizeID:      size.ID,
		Size:        size.Label,
		UnitPrice:   size.Price,
		Quantity:    quantity,
	})
	if err != nil {
		return nil, err
	}

	if m := telemetry.Business; m != nil {
		m.CartItemsAdded.WithLabelValues().Add(float64(quantity))
	}

	return items, nil
}

func (s *cartService) GetCart(ctx context.Context, token string) ([]domain.CartItem, int64, error) {
	items, err := s.carts.GetItems(ctx, token)
	if err != nil {
		return nil, 0, err
	}

	var subtotal int64
	for _, item := range items {
		subtotal += item.LineTotal()
	}

	return items, subtotal, nil
}

func (s *cartService) RemoveFromCart(ctx context.Context, token string, sizeID int64) ([]domain.CartItem, error) {
	return s.carts.RemoveItem(ctx, token, sizeID)
}

func (s *cartService) ClearCart(ctx context.Context, token string) error {
	if err := s.carts.Clear(ctx, token); err != nil {
		return err
	}
	if m := telemetry.Business; m != nil {
		m.CartCleared.WithLabelValues("manual").Inc()
	}
	return nil
}
