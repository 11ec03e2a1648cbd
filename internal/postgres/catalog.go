package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ngocanhle/pawshop/internal/domain"
)

// CatalogStore implements domain.CatalogStore on PostgreSQL. Read-only: the
// catalog tables belong to the catalog system.
type CatalogStore struct {
	pool *pgxpool.Pool
}

var _ domain.CatalogStore = (*CatalogStore)(nil)

// NewCatalogStore creates a new PostgreSQL-backed catalog reader.
func NewCatalogStore(pool *pgxpool.Pool) *CatalogStore {
	return &CatalogStore{pool: pool}
}

func (s *CatalogStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "catalog.get_product"

	var p domain.Product
	err := s.pool.QueryRow(ctx, `SELECT id, name FROM products WHERE id = $1`, id).Scan(&p.ID, &p.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, op, "failed to load product")
	}

	return &p, nil
}

func (s *CatalogStore) GetProductSize(ctx context.Context, id int64) (*domain.ProductSize, error) {
	const op = "catalog.get_product_size"

	var sz domain.ProductSize
	err := s.pool.QueryRow(ctx, `
		SELECT id, product_id, label, price, stock
		FROM product_sizes
		WHERE id = $1`,
		id).Scan(&sz.ID, &sz.ProductID, &sz.Label, &sz.Price, &sz.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSizeNotFound
		}
		return nil, domain.Internal(err, op, "failed to load product size")
	}

	return &sz, nil
}

func (s *CatalogStore) GetPet(ctx context.Context, id int64) (*domain.Pet, error) {
	const op = "catalog.get_pet"

	var p domain.Pet
	err := s.pool.QueryRow(ctx, `SELECT id, user_id, name FROM pets WHERE id = $1`, id).Scan(&p.ID, &p.UserID, &p.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPetNotFound
		}
		return nil, domain.Internal(err, op, "failed to load pet")
	}

	return &p, nil
}

func (s *CatalogStore) ListPetsByUser(ctx context.Context, userID string) ([]domain.Pet, error) {
	const op = "catalog.list_pets"

	rows, err := s.pool.Query(ctx, `SELECT id, user_id, name FROM pets WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list pets")
	}
	defer rows.Close()

	var pets []domain.Pet
	for rows.Next() {
		var p domain.Pet
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name); err != nil {
			return nil, domain.Internal(err, op, "failed to scan pet")
		}
		pets = append(pets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to read pets")
	}

	return pets, nil
}

func (s *CatalogStore) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	const op = "catalog.get_service"

	var svc domain.Service
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, description, price
		FROM services
		WHERE id = $1`,
		id).Scan(&svc.ID, &svc.Name, &svc.Description, &svc.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, domain.Internal(err, op, "failed to load service")
	}

	return &svc, nil
}

func (s *CatalogStore) ListServices(ctx context.Context) ([]domain.Service, error) {
	const op = "catalog.list_services"

	rows, err := s.pool.Query(ctx, `SELECT id, name, description, price FROM services ORDER BY name`)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list services")
	}
	defer rows.Close()

	var services []domain.Service
	for rows.Next() {
		var svc domain.Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Description, &svc.Price); err != nil {
			return nil, domain.Internal(err, op, "failed to scan service")
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to read services")
	}

	return services, nil
}
