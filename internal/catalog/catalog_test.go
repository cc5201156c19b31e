package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRepo struct{}

func (failingRepo) GetAllProducts(context.Context) ([]domain.Product, error) {
	return nil, errors.New("database error")
}

func (failingRepo) GetProduct(context.Context, string) (*domain.Product, error) {
	return nil, errors.New("database error")
}

func (failingRepo) Close() error { return nil }

func TestCatalog_Views(t *testing.T) {
	c := New(NewMemoryRepository(SeedProducts()))
	ctx := context.Background()

	fitness, err := c.ByCategory(ctx, "FITNESS", "weights")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(fitness))

	sale, err := c.Sale(ctx)
	require.NoError(t, err)
	assert.Len(t, sale, 4)

	featured, err := c.Featured(ctx)
	require.NoError(t, err)
	assert.Len(t, featured, FeaturedCount)

	cats, err := c.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 4)
}

func TestCatalog_Get(t *testing.T) {
	c := New(NewMemoryRepository(SeedProducts()))

	p, err := c.Get(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "Soccer Ball - World Cup Edition", p.Name)

	_, err = c.Get(context.Background(), "404")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalog_RepoError(t *testing.T) {
	c := New(failingRepo{})

	_, err := c.Search(context.Background(), Query{})
	require.ErrorContains(t, err, "database error")
	assert.ErrorContains(t, err, "load catalog")
}

func TestMemoryRepository_CancelledContext(t *testing.T) {
	repo := NewMemoryRepository(SeedProducts())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetAllProducts(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
