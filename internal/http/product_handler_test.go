package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productIDs(resp ProductsResponse) []string {
	ids := make([]string, len(resp.Products))
	for i, p := range resp.Products {
		ids[i] = p.ID
	}
	return ids
}

func TestListProducts_All(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProductsResponse
	decode(t, rec, &resp)
	assert.Equal(t, 9, resp.Total)
	assert.Len(t, resp.Products, 9)
}

func TestListProducts_Filters(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"category case-insensitive", "?category=fitness", []string{"1", "2", "3"}},
		{"several categories", "?category=apparel,team%20sports", []string{"6", "7", "8", "9"}},
		{"subcategory", "?category=Fitness&subcategory=YOGA", []string{"2"}},
		{"price range", "?min_price=40&max_price=80", []string{"2", "5", "7"}},
		{"sale only sorted by price", "?sale=true&sort=price-low", []string{"9", "7", "4", "1"}},
		{"rating", "?min_rating=4.9", []string{"2", "7"}},
		{"newest first", "?category=apparel&sort=newest", []string{"8", "9"}},
	}
	h := newTestRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/api/v1/products"+tt.query, nil)
			require.Equal(t, http.StatusOK, rec.Code)

			var resp ProductsResponse
			decode(t, rec, &resp)
			assert.Equal(t, tt.want, productIDs(resp))
		})
	}
}

func TestListProducts_BadParam(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/api/v1/products?min_price=cheap", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	decode(t, rec, &resp)
	assert.Equal(t, "invalid_min_price", resp.Code)
}

func TestGetProduct(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/v1/products/4", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var p domain.Product
	decode(t, rec, &p)
	assert.Equal(t, "Mountain Hiking Backpack", p.Name)
	require.NotNil(t, p.OriginalPrice)
	assert.Equal(t, "159.99", p.OriginalPrice.StringFixed(2))

	rec = do(t, h, http.MethodGet, "/api/v1/products/404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var resp ErrorResponse
	decode(t, rec, &resp)
	assert.Equal(t, "product_not_found", resp.Code)
}

func TestFeaturedAndSale(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/v1/products/featured", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var featured ProductsResponse
	decode(t, rec, &featured)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, productIDs(featured))

	rec = do(t, h, http.MethodGet, "/api/v1/products/sale", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sale ProductsResponse
	decode(t, rec, &sale)
	assert.Equal(t, []string{"1", "4", "7", "9"}, productIDs(sale))
}

func TestCategories(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp CategoriesResponse
	decode(t, rec, &resp)
	require.Len(t, resp.Categories, 4)
	assert.Equal(t, "Fitness", resp.Categories[0].Name)
	assert.Equal(t, []string{"Weights", "Yoga", "Accessories"}, resp.Categories[0].Subcategories)

	rec = do(t, h, http.MethodGet, "/api/v1/categories/outdoor%20sports?subcategory=cycling", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var products ProductsResponse
	decode(t, rec, &products)
	assert.Equal(t, []string{"5"}, productIDs(products))

	rec = do(t, h, http.MethodGet, "/api/v1/categories/unknown", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var empty ProductsResponse
	decode(t, rec, &empty)
	assert.Empty(t, empty.Products)
	assert.NotNil(t, empty.Products)
}

type failingProducts struct {
	ProductService
}

func (failingProducts) Featured(context.Context) ([]domain.Product, error) {
	return nil, errors.New("db is down")
}

func TestFeatured_InternalError(t *testing.T) {
	handler := NewProductHandler(failingProducts{}, logger.Nop(), time.Second)
	recorder := httptest.NewRecorder()

	handler.Featured(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	var resp ErrorResponse
	decode(t, recorder, &resp)
	assert.Equal(t, "internal_error", resp.Code)
	assert.NotContains(t, resp.Error, "db is down")
}

var _ ProductService = (*catalog.Catalog)(nil)
