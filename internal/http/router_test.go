package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fjod/go_storefront/internal/account"
	"github.com/fjod/go_storefront/internal/cache"
	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/events"
	"github.com/fjod/go_storefront/internal/logger"
	"github.com/fjod/go_storefront/internal/orders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter wires the whole API against the in-memory backends.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	log := logger.Nop()
	timeout := 5 * time.Second

	products := catalog.New(catalog.NewMemoryRepository(catalog.SeedProducts()))
	carts := cart.NewService(cart.NewMemoryRepository(), cache.Noop{}, products, log)
	orderSvc := orders.NewService(orders.NewMemoryRepository(orders.SeedOrders()...), events.Noop{}, log)
	checkoutSvc := checkout.NewService(carts, orderSvc, log)

	return NewRouter(Handlers{
		Products: NewProductHandler(products, log, timeout),
		Carts:    NewCartHandler(carts, log, timeout),
		Checkout: NewCheckoutHandler(checkoutSvc, log, timeout),
		Orders:   NewOrdersHandler(orderSvc, account.New(account.DemoUser), log, timeout),
	}, timeout)
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	h.ServeHTTP(recorder, request)
	return recorder
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRequestIDMiddleware_EchoesHeader(t *testing.T) {
	h := newTestRouter(t)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/health", nil)
	request.Header.Set("X-Request-ID", "req-42")

	h.ServeHTTP(recorder, request)

	assert.Equal(t, "req-42", recorder.Header().Get("X-Request-ID"))
}

func TestMockAuthMiddleware(t *testing.T) {
	var seen string
	h := MockAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = getUserIDFromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, account.DemoUser.ID, seen)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-User-ID", "guest-7")
	h.ServeHTTP(httptest.NewRecorder(), request)
	assert.Equal(t, "guest-7", seen)
}

func TestUnknownRoute(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/api/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
