// Package cart keeps each user's line items, wishlist and promo code, and
// prices the cart after every change.
package cart

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/fjod/go_storefront/internal/cache"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/logger"
	"github.com/fjod/go_storefront/internal/pricing"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const lockStripes = 64

// ProductLookup resolves product ids against the catalog.
type ProductLookup interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
}

// View is a cart together with its derived prices.
type View struct {
	Cart    *domain.Cart    `json:"cart"`
	Summary pricing.Summary `json:"summary"`
}

func NewView(c *domain.Cart) *View {
	return &View{Cart: c, Summary: pricing.Calculate(c.Items, c.PromoCode)}
}

type Service struct {
	repo     Repository
	cache    cache.CartCache
	products ProductLookup
	log      *logger.Logger
	sfg      singleflight.Group // Prevents cache stampede
	locks    [lockStripes]sync.Mutex
	now      func() time.Time
}

func NewService(repo Repository, c cache.CartCache, products ProductLookup, log *logger.Logger) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{
		repo:     repo,
		cache:    c,
		products: products,
		log:      log,
		now:      time.Now,
	}
}

// GetCart returns the user's cart, or a new empty one if none is stored.
func (s *Service) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		c, err := s.cache.Get(ctx, userID)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("cache get error", zap.String("user_id", userID), zap.Error(err))
		}

		// The refill holds the user's lock so it cannot land after a
		// concurrent mutate has already invalidated the key.
		mu := s.lockFor(userID)
		mu.Lock()
		defer mu.Unlock()

		c, err = s.repo.GetCart(ctx, userID)
		if errors.Is(err, ErrCartNotFound) {
			return domain.NewCart(userID, s.now()), nil
		}
		if err != nil {
			return nil, err
		}

		if err := s.cache.Set(ctx, userID, c); err != nil {
			s.log.Warn("cache set error", zap.String("user_id", userID), zap.Error(err))
		}
		return c, nil
	})
	if err != nil {
		return nil, err
	}

	// singleflight hands the same pointer to every waiter
	shared := v.(*domain.Cart)
	return cloneCart(shared), nil
}

// View returns the cart with its pricing summary.
func (s *Service) View(ctx context.Context, userID string) (*View, error) {
	c, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewView(c), nil
}

// AddItem merges quantity of the product into the cart. Quantities below one
// are treated as one and the total is clamped to the stock limit.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (*View, error) {
	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.Available() {
		return nil, ErrOutOfStock
	}
	quantity = max(1, quantity)

	return s.mutate(ctx, userID, func(c *domain.Cart, now time.Time) error {
		c.Add(*p, quantity, now)
		return nil
	})
}

// UpdateQuantity sets the line's quantity; zero or below removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*View, error) {
	return s.mutate(ctx, userID, func(c *domain.Cart, now time.Time) error {
		if !c.SetQuantity(productID, quantity, now) {
			return ErrItemNotFound
		}
		return nil
	})
}

func (s *Service) RemoveItem(ctx context.Context, userID, productID string) (*View, error) {
	return s.mutate(ctx, userID, func(c *domain.Cart, now time.Time) error {
		if !c.Remove(productID, now) {
			return ErrItemNotFound
		}
		return nil
	})
}

// ClearCart drops every line and the applied promo. The wishlist survives.
func (s *Service) ClearCart(ctx context.Context, userID string) (*View, error) {
	return s.mutate(ctx, userID, func(c *domain.Cart, now time.Time) error {
		c.Items = []domain.CartItem{}
		c.PromoCode = ""
		c.UpdatedAt = now
		return nil
	})
}

// ApplyPromo applies code if it is recognized. Unknown codes leave the cart
// untouched and report applied=false.
func (s *Service) ApplyPromo(ctx context.Context, userID, code string) (*View, bool, error) {
	normalized, ok := pricing.NormalizePromo(code)
	if !ok {
		v, err := s.View(ctx, userID)
		return v, false, err
	}
	v, err := s.mutate(ctx, userID, func(c *domain.Cart, now time.Time) error {
		c.PromoCode = normalized
		c.UpdatedAt = now
		return nil
	})
	return v, err == nil, err
}

func (s *Service) RemovePromo(ctx context.Context, userID string) (*View, error) {
	return s.mutate(ctx, userID, func(c *domain.Cart, now time.Time) error {
		c.PromoCode = ""
		c.UpdatedAt = now
		return nil
	})
}

// ToggleWishlist flips the product's wishlist membership and returns the new
// state.
func (s *Service) ToggleWishlist(ctx context.Context, userID, productID string) (bool, error) {
	if _, err := s.products.Get(ctx, productID); err != nil {
		return false, err
	}
	var in bool
	_, err := s.mutate(ctx, userID, func(c *domain.Cart, now time.Time) error {
		in = c.ToggleWishlist(productID, now)
		return nil
	})
	return in, err
}

// Wishlist resolves the wishlisted ids to products. Ids that no longer
// resolve are skipped.
func (s *Service) Wishlist(ctx context.Context, userID string) ([]domain.Product, error) {
	c, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(c.Wishlist))
	for _, id := range c.Wishlist {
		p, err := s.products.Get(ctx, id)
		if err != nil {
			s.log.Debug("wishlist product unavailable", zap.String("product_id", id), zap.Error(err))
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *Service) mutate(ctx context.Context, userID string, fn func(*domain.Cart, time.Time) error) (*View, error) {
	mu := s.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	c, err := s.repo.GetCart(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		c = domain.NewCart(userID, s.now())
	} else if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	if err := fn(c, s.now()); err != nil {
		return nil, err
	}

	if err := s.repo.UpsertCart(ctx, c); err != nil {
		s.log.Error("repo upsert cart error", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.invalidateCache(userID)
	return NewView(c), nil
}

func (s *Service) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.log.Warn("cache invalidate error", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *Service) lockFor(userID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return &s.locks[h.Sum32()%lockStripes]
}
