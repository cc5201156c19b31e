// Package pricing derives cart totals from line items. Every function here is
// pure: the same items, promo code and shipping method always produce the
// same Summary.
package pricing

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	FreeShippingThreshold = decimal.NewFromInt(50)
	StandardShippingFee   = decimal.RequireFromString("9.99")
	TaxRate               = decimal.RequireFromString("0.08")
)

type ShippingMethod string

const (
	ShippingStandard  ShippingMethod = "standard"
	ShippingExpress   ShippingMethod = "express"
	ShippingOvernight ShippingMethod = "overnight"
)

type ShippingOption struct {
	Method      ShippingMethod `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	// Flat is nil for the threshold-based standard rate.
	Flat *decimal.Decimal `json:"price,omitempty"`
}

var (
	expressFee   = decimal.RequireFromString("15.99")
	overnightFee = decimal.RequireFromString("29.99")
)

var shippingOptions = []ShippingOption{
	{Method: ShippingStandard, Name: "Standard Shipping", Description: "5-7 business days"},
	{Method: ShippingExpress, Name: "Express Shipping", Description: "2-3 business days", Flat: &expressFee},
	{Method: ShippingOvernight, Name: "Overnight Shipping", Description: "Next business day", Flat: &overnightFee},
}

// ShippingOptions lists the selectable shipping methods.
func ShippingOptions() []ShippingOption {
	out := make([]ShippingOption, len(shippingOptions))
	copy(out, shippingOptions)
	return out
}

// ParseShippingMethod accepts the method ids case-insensitively. An empty
// string means standard.
func ParseShippingMethod(s string) (ShippingMethod, error) {
	if s == "" {
		return ShippingStandard, nil
	}
	m := ShippingMethod(strings.ToLower(strings.TrimSpace(s)))
	for _, o := range shippingOptions {
		if o.Method == m {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown shipping method %q", s)
}

// promoCodes maps normalized codes to their fractional discount.
var promoCodes = map[string]decimal.Decimal{
	"SAVE10": decimal.RequireFromString("0.10"),
}

// NormalizePromo returns the canonical form of a recognized promo code and
// true, or "" and false if the code is unknown.
func NormalizePromo(code string) (string, bool) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if _, ok := promoCodes[c]; !ok {
		return "", false
	}
	return c, true
}

type Summary struct {
	ItemCount            int
	Subtotal             decimal.Decimal
	Savings              decimal.Decimal
	PromoCode            string
	PromoDiscount        decimal.Decimal
	ShippingMethod       ShippingMethod
	Shipping             decimal.Decimal
	Tax                  decimal.Decimal
	Total                decimal.Decimal
	AmountToFreeShipping decimal.Decimal
}

// Subtotal is Σ price × quantity.
func Subtotal(items []domain.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, i := range items {
		sum = sum.Add(i.LineTotal())
	}
	return sum
}

// Savings is Σ (original − price) × quantity over items that have an
// original price.
func Savings(items []domain.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, i := range items {
		sum = sum.Add(i.Product.UnitSavings().Mul(decimal.NewFromInt(int64(i.Quantity))))
	}
	return sum
}

// PromoDiscount is the recognized code's percentage of subtotal, or zero.
func PromoDiscount(subtotal decimal.Decimal, code string) decimal.Decimal {
	c, ok := NormalizePromo(code)
	if !ok {
		return decimal.Zero
	}
	return subtotal.Mul(promoCodes[c])
}

// Shipping returns the fee for method given subtotal. Standard shipping is
// free strictly above the threshold, so an empty cart pays the standard fee.
func Shipping(subtotal decimal.Decimal, method ShippingMethod) decimal.Decimal {
	for _, o := range shippingOptions {
		if o.Method == method && o.Flat != nil {
			return *o.Flat
		}
	}
	if subtotal.GreaterThan(FreeShippingThreshold) {
		return decimal.Zero
	}
	return StandardShippingFee
}

// Tax is TaxRate applied to the discounted subtotal.
func Tax(subtotal, discount decimal.Decimal) decimal.Decimal {
	return subtotal.Sub(discount).Mul(TaxRate)
}

// Calculate derives the full Summary for the items with standard shipping.
func Calculate(items []domain.CartItem, promoCode string) Summary {
	return Quote(items, promoCode, ShippingStandard)
}

// Quote derives the full Summary for the items and shipping method. Unknown
// promo codes are ignored.
func Quote(items []domain.CartItem, promoCode string, method ShippingMethod) Summary {
	if method == "" {
		method = ShippingStandard
	}
	code, _ := NormalizePromo(promoCode)

	s := Summary{
		Subtotal:       Subtotal(items),
		Savings:        Savings(items),
		PromoCode:      code,
		ShippingMethod: method,
	}
	for _, i := range items {
		s.ItemCount += i.Quantity
	}
	s.PromoDiscount = PromoDiscount(s.Subtotal, code)
	s.Shipping = Shipping(s.Subtotal, method)
	s.Tax = Tax(s.Subtotal, s.PromoDiscount)
	s.Total = s.Subtotal.Sub(s.PromoDiscount).Add(s.Shipping).Add(s.Tax)
	if gap := FreeShippingThreshold.Sub(s.Subtotal); gap.IsPositive() {
		s.AmountToFreeShipping = gap
	} else {
		s.AmountToFreeShipping = decimal.Zero
	}
	return s
}

// MarshalJSON renders money rounded to cents for display.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ItemCount            int            `json:"item_count"`
		Subtotal             string         `json:"subtotal"`
		Savings              string         `json:"savings"`
		PromoCode            string         `json:"promo_code,omitempty"`
		PromoDiscount        string         `json:"promo_discount"`
		ShippingMethod       ShippingMethod `json:"shipping_method"`
		Shipping             string         `json:"shipping"`
		FreeShipping         bool           `json:"free_shipping"`
		Tax                  string         `json:"tax"`
		Total                string         `json:"total"`
		AmountToFreeShipping string         `json:"amount_to_free_shipping"`
	}{
		ItemCount:            s.ItemCount,
		Subtotal:             s.Subtotal.StringFixed(2),
		Savings:              s.Savings.StringFixed(2),
		PromoCode:            s.PromoCode,
		PromoDiscount:        s.PromoDiscount.StringFixed(2),
		ShippingMethod:       s.ShippingMethod,
		Shipping:             s.Shipping.StringFixed(2),
		FreeShipping:         s.Shipping.IsZero(),
		Tax:                  s.Tax.StringFixed(2),
		Total:                s.Total.StringFixed(2),
		AmountToFreeShipping: s.AmountToFreeShipping.StringFixed(2),
	})
}
