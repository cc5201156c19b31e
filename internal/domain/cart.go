package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// MaxItemQuantity caps a single line item regardless of stock.
const MaxItemQuantity = 99

type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	Wishlist  []string   `json:"wishlist"`
	PromoCode string     `json:"promo_code,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartItem struct {
	Product  Product   `json:"product"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

// LineTotal is price × quantity for the item.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewCart returns an empty cart owned by userID.
func NewCart(userID string, now time.Time) *Cart {
	return &Cart{
		UserID:    userID,
		Items:     []CartItem{},
		Wishlist:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Cart) find(productID string) int {
	return slices.IndexFunc(c.Items, func(i CartItem) bool { return i.Product.ID == productID })
}

// Item returns the line item for productID, if any.
func (c *Cart) Item(productID string) (CartItem, bool) {
	if idx := c.find(productID); idx >= 0 {
		return c.Items[idx], true
	}
	return CartItem{}, false
}

// Add merges quantity into the existing line for the product or appends a
// new line. The resulting quantity is clamped to the product's limit.
func (c *Cart) Add(p Product, quantity int, now time.Time) {
	if idx := c.find(p.ID); idx >= 0 {
		c.Items[idx].Quantity = ClampQuantity(c.Items[idx].Quantity+quantity, p)
		c.Items[idx].AddedAt = now
	} else {
		c.Items = append(c.Items, CartItem{
			Product:  p,
			Quantity: ClampQuantity(quantity, p),
			AddedAt:  now,
		})
	}
	c.UpdatedAt = now
}

// SetQuantity replaces the quantity of an existing line. Quantities of zero
// or below remove the line. It reports false if the product is not in the
// cart.
func (c *Cart) SetQuantity(productID string, quantity int, now time.Time) bool {
	idx := c.find(productID)
	if idx < 0 {
		return false
	}
	if quantity <= 0 {
		c.Items = slices.Delete(c.Items, idx, idx+1)
	} else {
		c.Items[idx].Quantity = ClampQuantity(quantity, c.Items[idx].Product)
	}
	c.UpdatedAt = now
	return true
}

// Remove drops the line for productID. It reports false if there was none.
func (c *Cart) Remove(productID string, now time.Time) bool {
	idx := c.find(productID)
	if idx < 0 {
		return false
	}
	c.Items = slices.Delete(c.Items, idx, idx+1)
	c.UpdatedAt = now
	return true
}

// ToggleWishlist adds productID to the wishlist or removes it if present.
// It returns the new membership.
func (c *Cart) ToggleWishlist(productID string, now time.Time) bool {
	c.UpdatedAt = now
	if idx := slices.Index(c.Wishlist, productID); idx >= 0 {
		c.Wishlist = slices.Delete(c.Wishlist, idx, idx+1)
		return false
	}
	c.Wishlist = append(c.Wishlist, productID)
	return true
}

// InWishlist reports whether productID is wishlisted.
func (c *Cart) InWishlist(productID string) bool {
	return slices.Contains(c.Wishlist, productID)
}

// ItemCount is the number of units across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, i := range c.Items {
		n += i.Quantity
	}
	return n
}

// ClampQuantity bounds q to [1, limit] where limit is MaxItemQuantity or the
// product's stock count when that is lower and known.
func ClampQuantity(q int, p Product) int {
	limit := MaxItemQuantity
	if p.StockCount > 0 && p.StockCount < limit {
		limit = p.StockCount
	}
	return max(1, min(q, limit))
}
