package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Handlers struct {
	Products *ProductHandler
	Carts    *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
}

// NewRouter mounts every route under /api/v1 behind the shared middleware
// chain and wraps the result with OpenTelemetry instrumentation.
func NewRouter(h Handlers, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(MockAuthMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.List)
			r.Get("/featured", h.Products.Featured)
			r.Get("/sale", h.Products.Sale)
			r.Get("/{id}", h.Products.Get)
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.Products.Categories)
			r.Get("/{category}", h.Products.ByCategory)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Carts.GetCart)
			r.Delete("/", h.Carts.ClearCart)
			r.Post("/items", h.Carts.AddItem)
			r.Put("/items/{product_id}", h.Carts.UpdateQuantity)
			r.Delete("/items/{product_id}", h.Carts.RemoveItem)
			r.Post("/promo", h.Carts.ApplyPromo)
			r.Delete("/promo", h.Carts.RemovePromo)
		})
		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", h.Carts.GetWishlist)
			r.Post("/{product_id}", h.Carts.ToggleWishlist)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", h.Checkout.GetState)
			r.Put("/step", h.Checkout.GoToStep)
			r.Post("/shipping", h.Checkout.SubmitShipping)
			r.Post("/payment", h.Checkout.SubmitPayment)
			r.Post("/order", h.Checkout.PlaceOrder)
		})
		r.Post("/login", h.Orders.Login)
		r.Get("/profile", h.Orders.Profile)
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Orders.ListOrders)
			r.Get("/{id}", h.Orders.GetOrder)
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
