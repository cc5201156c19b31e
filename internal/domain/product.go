package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	ImageURL      string           `json:"image_url"`
	Rating        float64          `json:"rating"`
	Reviews       int              `json:"reviews"`
	Category      string           `json:"category"`
	Subcategory   string           `json:"subcategory"`
	IsNew         bool             `json:"is_new"`
	IsSale        bool             `json:"is_sale"`
	Discount      int              `json:"discount,omitempty"`
	Features      []string         `json:"features"`
	InStock       bool             `json:"in_stock"`
	StockCount    int              `json:"stock_count"`
}

// UnitSavings returns how much cheaper the product is than its original price.
// Products without an original price, or with one not above the current
// price, save nothing.
func (p Product) UnitSavings() decimal.Decimal {
	if p.OriginalPrice == nil || !p.OriginalPrice.GreaterThan(p.Price) {
		return decimal.Zero
	}
	return p.OriginalPrice.Sub(p.Price)
}

// Available reports whether at least one unit can be put into a cart.
func (p Product) Available() bool {
	return p.InStock && p.StockCount > 0
}
