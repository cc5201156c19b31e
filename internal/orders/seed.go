package orders

import (
	"time"

	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// SeedOrders returns the mock user's order history.
func SeedOrders() []*domain.Order {
	products := catalog.SeedProducts()
	return []*domain.Order{
		{
			ID:     "ORD-001",
			UserID: "1",
			Date:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Status: domain.OrderStatusDelivered,
			Total:  decimal.RequireFromString("199.99"),
			Items:  []domain.CartItem{{Product: products[0], Quantity: 1}},
		},
		{
			ID:     "ORD-002",
			UserID: "1",
			Date:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			Status: domain.OrderStatusShipped,
			Total:  decimal.RequireFromString("79.98"),
			Items: []domain.CartItem{
				{Product: products[1], Quantity: 1},
				{Product: products[2], Quantity: 1},
			},
		},
	}
}
