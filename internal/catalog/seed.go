package catalog

import (
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/shopspring/decimal"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func original(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// SeedProducts returns the mock catalog. Every call returns fresh values.
func SeedProducts() []domain.Product {
	return []domain.Product{
		{
			ID: "1", Name: "Professional Dumbbells Set",
			Price: price("199.99"), OriginalPrice: original("249.99"),
			ImageURL: "/assets/fitness-gear.jpg", Rating: 4.8, Reviews: 156,
			Category: "Fitness", Subcategory: "Weights", IsSale: true, Discount: 20,
			Description: "Premium adjustable dumbbells perfect for home workouts",
			Features:    []string{"Adjustable weight", "Durable coating", "Comfortable grip"},
			InStock:     true, StockCount: 25,
		},
		{
			ID: "2", Name: "Premium Yoga Mat",
			Price:    price("49.99"),
			ImageURL: "/assets/fitness-gear.jpg", Rating: 4.9, Reviews: 203,
			Category: "Fitness", Subcategory: "Yoga", IsNew: true,
			Description: "Eco-friendly non-slip yoga mat for all skill levels",
			Features:    []string{"Non-slip surface", "Eco-friendly", "Extra thick"},
			InStock:     true, StockCount: 50,
		},
		{
			ID: "3", Name: "Resistance Bands Set",
			Price:    price("29.99"),
			ImageURL: "/assets/fitness-gear.jpg", Rating: 4.7, Reviews: 89,
			Category: "Fitness", Subcategory: "Accessories",
			Description: "Complete resistance training system",
			Features:    []string{"Multiple resistance levels", "Portable", "Door anchor included"},
			InStock:     true, StockCount: 100,
		},
		{
			ID: "4", Name: "Mountain Hiking Backpack",
			Price: price("129.99"), OriginalPrice: original("159.99"),
			ImageURL: "/assets/outdoor-gear.jpg", Rating: 4.6, Reviews: 74,
			Category: "Outdoor Sports", Subcategory: "Hiking", IsSale: true, Discount: 19,
			Description: "Durable 40L hiking backpack for outdoor adventures",
			Features:    []string{"40L capacity", "Weather resistant", "Multiple compartments"},
			InStock:     true, StockCount: 15,
		},
		{
			ID: "5", Name: "Professional Cycling Helmet",
			Price:    price("79.99"),
			ImageURL: "/assets/outdoor-gear.jpg", Rating: 4.8, Reviews: 124,
			Category: "Outdoor Sports", Subcategory: "Cycling",
			Description: "Lightweight and aerodynamic cycling helmet",
			Features:    []string{"Lightweight design", "Adjustable fit", "Ventilation system"},
			InStock:     true, StockCount: 30,
		},
		{
			ID: "6", Name: "Professional Basketball",
			Price:    price("34.99"),
			ImageURL: "/assets/hero-sports.jpg", Rating: 4.7, Reviews: 92,
			Category: "Team Sports", Subcategory: "Basketball",
			Description: "Official size and weight basketball",
			Features:    []string{"Official size", "Composite leather", "Indoor/outdoor use"},
			InStock:     true, StockCount: 60,
		},
		{
			ID: "7", Name: "Soccer Ball - World Cup Edition",
			Price: price("45.99"), OriginalPrice: original("59.99"),
			ImageURL: "/assets/hero-sports.jpg", Rating: 4.9, Reviews: 167,
			Category: "Team Sports", Subcategory: "Soccer", IsSale: true, Discount: 23,
			Description: "FIFA approved soccer ball with World Cup design",
			Features:    []string{"FIFA approved", "Hand-stitched", "Premium quality"},
			InStock:     true, StockCount: 40,
		},
		{
			ID: "8", Name: "Athletic Running Shoes",
			Price:    price("149.99"),
			ImageURL: "/assets/fitness-gear.jpg", Rating: 4.8, Reviews: 234,
			Category: "Apparel", Subcategory: "Footwear", IsNew: true,
			Description: "High-performance running shoes for athletes",
			Features:    []string{"Breathable mesh", "Cushioned sole", "Lightweight"},
			InStock:     true, StockCount: 75,
		},
		{
			ID: "9", Name: "Men's Performance T-Shirt",
			Price: price("24.99"), OriginalPrice: original("34.99"),
			ImageURL: "/assets/fitness-gear.jpg", Rating: 4.5, Reviews: 156,
			Category: "Apparel", Subcategory: "Men", IsSale: true, Discount: 29,
			Description: "Moisture-wicking performance t-shirt",
			Features:    []string{"Moisture-wicking", "Quick-dry", "Anti-odor"},
			InStock:     true, StockCount: 120,
		},
	}
}
