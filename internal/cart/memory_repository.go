package cart

import (
	"context"
	"slices"
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{carts: make(map[string]*domain.Cart)}
}

func (m *MemoryRepository) GetCart(_ context.Context, userID string) (*domain.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.carts[userID]
	if !ok {
		return nil, ErrCartNotFound
	}
	return cloneCart(c), nil
}

func (m *MemoryRepository) UpsertCart(_ context.Context, c *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.carts[c.UserID] = cloneCart(c)
	return nil
}

func (m *MemoryRepository) DeleteCart(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.carts[userID]; !ok {
		return ErrCartNotFound
	}
	delete(m.carts, userID)
	return nil
}

// cloneCart copies the slices so callers never share state with the store.
func cloneCart(c *domain.Cart) *domain.Cart {
	out := *c
	out.Items = slices.Clone(c.Items)
	out.Wishlist = slices.Clone(c.Wishlist)
	if out.Items == nil {
		out.Items = []domain.CartItem{}
	}
	if out.Wishlist == nil {
		out.Wishlist = []string{}
	}
	return &out
}
