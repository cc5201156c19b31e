// Package catalog holds the product list and the read-only views the
// storefront derives from it.
package catalog

import (
	"context"
	"fmt"

	"github.com/fjod/go_storefront/internal/domain"
)

type Catalog struct {
	repo Repository
}

func New(repo Repository) *Catalog {
	return &Catalog{repo: repo}
}

func (c *Catalog) all(ctx context.Context) ([]domain.Product, error) {
	products, err := c.repo.GetAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return products, nil
}

func (c *Catalog) Get(ctx context.Context, id string) (*domain.Product, error) {
	return c.repo.GetProduct(ctx, id)
}

func (c *Catalog) ByCategory(ctx context.Context, category, subcategory string) ([]domain.Product, error) {
	products, err := c.all(ctx)
	if err != nil {
		return nil, err
	}
	return ByCategory(products, category, subcategory), nil
}

func (c *Catalog) Sale(ctx context.Context) ([]domain.Product, error) {
	products, err := c.all(ctx)
	if err != nil {
		return nil, err
	}
	return OnSale(products), nil
}

func (c *Catalog) Featured(ctx context.Context) ([]domain.Product, error) {
	products, err := c.all(ctx)
	if err != nil {
		return nil, err
	}
	return Featured(products), nil
}

func (c *Catalog) Search(ctx context.Context, q Query) ([]domain.Product, error) {
	products, err := c.all(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(products, q), nil
}

func (c *Catalog) Categories(ctx context.Context) ([]Category, error) {
	products, err := c.all(ctx)
	if err != nil {
		return nil, err
	}
	return Categories(products), nil
}
