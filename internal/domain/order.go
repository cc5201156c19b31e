package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}

type Order struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Date           time.Time       `json:"date"`
	Status         OrderStatus     `json:"status"`
	Total          decimal.Decimal `json:"total"`
	Items          []CartItem      `json:"items"`
	ShippingMethod string          `json:"shipping_method,omitempty"`
	PromoCode      string          `json:"promo_code,omitempty"`
}

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}
