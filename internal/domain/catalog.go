package domain

import "context"

// Catalog read-model errors.
var (
	ErrProductNotFound = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrSizeNotFound    = &Error{Code: ENOTFOUND, Message: "Product size not found"}
)

// Product is the catalog read model for a sellable product.
type Product struct {
	ID   int64
	Name string
}

// ProductSize is one purchasable variant of a product. Price is VND; Stock
// is the on-hand quantity decremented at order time.
type ProductSize struct {
	ID        int64
	ProductID int64
	Label     string
	Price     int64
	Stock     int32
}

// Pet belongs to a user and can be booked into services.
type Pet struct {
	ID     int64
	UserID string
	Name   string
}

// Service is a bookable pet service with its current price in VND.
type Service struct {
	ID          int64
	Name        string
	Description string
	Price       int64
}

// CatalogStore reads the catalog collaborator's tables. The checkout and
// booking pipelines only ever read from it; writes belong to the catalog
// system.
type CatalogStore interface {
	GetProduct(ctx context.Context, id int64) (*Product, error)
	GetProductSize(ctx context.Context, id int64) (*ProductSize, error)
	GetPet(ctx context.Context, id int64) (*Pet, error)
	ListPetsByUser(ctx context.Context, userID string) ([]Pet, error)
	GetService(ctx context.Context, id int64) (*Service, error)
	ListServices(ctx context.Context) ([]Service, error)
}
