package catalog

import (
	"context"
	"slices"

	"github.com/fjod/go_storefront/internal/domain"
)

// MemoryRepository serves a fixed product list.
type MemoryRepository struct {
	products []domain.Product
}

func NewMemoryRepository(products []domain.Product) *MemoryRepository {
	return &MemoryRepository{products: slices.Clone(products)}
}

func (m *MemoryRepository) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(m.products), nil
}

func (m *MemoryRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, p := range m.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ErrProductNotFound
}

func (m *MemoryRepository) Close() error {
	return nil
}
