// Package events announces storefront facts to downstream consumers.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const TopicOrderPlaced = "storefront.order-placed"

type OrderPlacedItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type OrderPlaced struct {
	OrderID        string            `json:"order_id"`
	UserID         string            `json:"user_id"`
	Total          decimal.Decimal   `json:"total"`
	ShippingMethod string            `json:"shipping_method"`
	PromoCode      string            `json:"promo_code,omitempty"`
	Items          []OrderPlacedItem `json:"items"`
	PlacedAt       time.Time         `json:"placed_at"`
}

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, e OrderPlaced) error
	Close() error
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }
func (Noop) Close() error                                          { return nil }
