package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type ProductService interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
	ByCategory(ctx context.Context, category, subcategory string) ([]domain.Product, error)
	Sale(ctx context.Context) ([]domain.Product, error)
	Featured(ctx context.Context) ([]domain.Product, error)
	Search(ctx context.Context, q catalog.Query) ([]domain.Product, error)
	Categories(ctx context.Context) ([]catalog.Category, error)
}

type ProductHandler struct {
	products ProductService
	log      *logger.Logger
	timeout  time.Duration
}

func NewProductHandler(products ProductService, log *logger.Logger, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		products: products,
		log:      log,
		timeout:  timeout,
	}
}

type ProductsResponse struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
}

type CategoriesResponse struct {
	Categories []catalog.Category `json:"categories"`
}

func productsResponse(products []domain.Product) *ProductsResponse {
	if products == nil {
		products = []domain.Product{}
	}
	return &ProductsResponse{Products: products, Total: len(products)}
}

// GET /api/v1/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q, field, ok := parseProductQuery(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_"+field, field+" is malformed")
		return
	}

	products, err := h.products.Search(ctx, q)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, productsResponse(products))
}

// parseProductQuery reads the listing filters. On failure it returns the
// name of the offending parameter.
func parseProductQuery(r *http.Request) (catalog.Query, string, bool) {
	v := r.URL.Query()
	q := catalog.Query{
		Subcategory: v.Get("subcategory"),
		Sort:        catalog.ParseSortOrder(v.Get("sort")),
	}

	for _, raw := range v["category"] {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				q.Categories = append(q.Categories, c)
			}
		}
	}

	if s := v.Get("min_price"); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return q, "min_price", false
		}
		q.MinPrice = &d
	}
	if s := v.Get("max_price"); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return q, "max_price", false
		}
		q.MaxPrice = &d
	}
	if s := v.Get("min_rating"); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return q, "min_rating", false
		}
		q.MinRating = f
	}
	if s := v.Get("in_stock"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return q, "in_stock", false
		}
		q.InStockOnly = b
	}
	if s := v.Get("sale"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return q, "sale", false
		}
		q.SaleOnly = b
	}
	return q, "", true
}

// GET /api/v1/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	p, err := h.products.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// GET /api/v1/products/featured
func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.products.Featured(ctx)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, productsResponse(products))
}

// GET /api/v1/products/sale
func (h *ProductHandler) Sale(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.products.Sale(ctx)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, productsResponse(products))
}

// GET /api/v1/categories
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	categories, err := h.products.Categories(ctx)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	if categories == nil {
		categories = []catalog.Category{}
	}
	respondJSON(w, http.StatusOK, &CategoriesResponse{Categories: categories})
}

// GET /api/v1/categories/{category}?subcategory=
func (h *ProductHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.products.ByCategory(ctx, chi.URLParam(r, "category"), r.URL.Query().Get("subcategory"))
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, productsResponse(products))
}
