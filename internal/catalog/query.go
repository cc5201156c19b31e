package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// FeaturedCount is the size of the featured prefix of the catalog.
const FeaturedCount = 6

type SortOrder string

const (
	SortFeatured  SortOrder = "featured"
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
	SortRating    SortOrder = "rating"
	SortNewest    SortOrder = "newest"
)

// Query narrows the catalog. Zero-valued fields do not constrain.
type Query struct {
	Categories  []string
	Subcategory string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	MinRating   float64
	InStockOnly bool
	SaleOnly    bool
	Sort        SortOrder
}

type Category struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
	ProductCount  int      `json:"product_count"`
}

// ByCategory returns the products whose category equals category ignoring
// case, further narrowed by subcategory when it is not empty.
func ByCategory(products []domain.Product, category, subcategory string) []domain.Product {
	out := []domain.Product{}
	for _, p := range products {
		if !strings.EqualFold(p.Category, category) {
			continue
		}
		if subcategory != "" && !strings.EqualFold(p.Subcategory, subcategory) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// OnSale returns the products flagged on sale.
func OnSale(products []domain.Product) []domain.Product {
	out := []domain.Product{}
	for _, p := range products {
		if p.IsSale {
			out = append(out, p)
		}
	}
	return out
}

// Featured returns the first FeaturedCount products.
func Featured(products []domain.Product) []domain.Product {
	n := min(FeaturedCount, len(products))
	out := make([]domain.Product, n)
	copy(out, products[:n])
	return out
}

// Filter applies q to products and sorts the result.
func Filter(products []domain.Product, q Query) []domain.Product {
	out := []domain.Product{}
	for _, p := range products {
		if q.matches(p) {
			out = append(out, p)
		}
	}
	return Sort(out, q.Sort)
}

func (q Query) matches(p domain.Product) bool {
	if len(q.Categories) > 0 && !slices.ContainsFunc(q.Categories, func(c string) bool {
		return strings.EqualFold(c, p.Category)
	}) {
		return false
	}
	if q.Subcategory != "" && !strings.EqualFold(q.Subcategory, p.Subcategory) {
		return false
	}
	if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
		return false
	}
	if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
		return false
	}
	if p.Rating < q.MinRating {
		return false
	}
	if q.InStockOnly && !p.Available() {
		return false
	}
	if q.SaleOnly && !p.IsSale {
		return false
	}
	return true
}

// Sort returns a sorted copy of products. Unknown orders keep catalog order.
func Sort(products []domain.Product, order SortOrder) []domain.Product {
	out := slices.Clone(products)
	switch order {
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return a.Price.Cmp(b.Price) })
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return b.Price.Cmp(a.Price) })
	case SortRating:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return cmp.Compare(b.Rating, a.Rating) })
	case SortNewest:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			switch {
			case a.IsNew == b.IsNew:
				return 0
			case a.IsNew:
				return -1
			default:
				return 1
			}
		})
	}
	return out
}

// ParseSortOrder falls back to SortFeatured for anything unrecognized.
func ParseSortOrder(s string) SortOrder {
	switch o := SortOrder(strings.ToLower(s)); o {
	case SortPriceLow, SortPriceHigh, SortRating, SortNewest:
		return o
	}
	return SortFeatured
}

// Categories groups products by category in first-seen order.
func Categories(products []domain.Product) []Category {
	var out []Category
	index := map[string]int{}
	for _, p := range products {
		key := strings.ToLower(p.Category)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, Category{Name: p.Category, Subcategories: []string{}})
		}
		out[i].ProductCount++
		if !slices.ContainsFunc(out[i].Subcategories, func(s string) bool {
			return strings.EqualFold(s, p.Subcategory)
		}) {
			out[i].Subcategories = append(out[i].Subcategories, p.Subcategory)
		}
	}
	return out
}
