// Package orders keeps the read-only order history behind the profile page
// and records new orders placed at checkout.
package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/events"
	"github.com/fjod/go_storefront/internal/logger"
	"github.com/fjod/go_storefront/internal/pricing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	repo      Repository
	publisher events.Publisher
	log       *logger.Logger
	now       func() time.Time
}

func NewService(repo Repository, publisher events.Publisher, log *logger.Logger) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{repo: repo, publisher: publisher, log: log, now: time.Now}
}

// Place records a pending order for the priced items and announces it.
// A failed announcement is logged; the order still stands.
func (s *Service) Place(ctx context.Context, userID string, items []domain.CartItem, summary pricing.Summary) (*domain.Order, error) {
	order := &domain.Order{
		ID:             uuid.NewString(),
		UserID:         userID,
		Date:           s.now().UTC(),
		Status:         domain.OrderStatusPending,
		Total:          summary.Total.Round(2),
		Items:          items,
		ShippingMethod: string(summary.ShippingMethod),
		PromoCode:      summary.PromoCode,
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.publisher.PublishOrderPlaced(ctx, orderPlaced(order)); err != nil {
		s.log.Error("publish order placed failed", zap.String("order_id", order.ID), zap.Error(err))
	}

	s.log.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.String("total", order.Total.StringFixed(2)))
	return order, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.repo.ListOrdersByUserID(ctx, userID)
}

// Get returns the order only if it belongs to userID.
func (s *Service) Get(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	o, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func orderPlaced(o *domain.Order) events.OrderPlaced {
	e := events.OrderPlaced{
		OrderID:        o.ID,
		UserID:         o.UserID,
		Total:          o.Total,
		ShippingMethod: o.ShippingMethod,
		PromoCode:      o.PromoCode,
		Items:          make([]events.OrderPlacedItem, 0, len(o.Items)),
		PlacedAt:       o.Date,
	}
	for _, i := range o.Items {
		e.Items = append(e.Items, events.OrderPlacedItem{
			ProductID: i.Product.ID,
			Name:      i.Product.Name,
			Quantity:  i.Quantity,
			UnitPrice: i.Product.Price,
		})
	}
	return e
}
