package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/logger"
	"github.com/go-chi/chi/v5"
)

type OrderService interface {
	List(ctx context.Context, userID string) ([]*domain.Order, error)
	Get(ctx context.Context, userID, orderID string) (*domain.Order, error)
}

type AccountService interface {
	Login(email, password string) (*domain.User, error)
	User(id string) (*domain.User, error)
}

type OrdersHandler struct {
	orders   OrderService
	accounts AccountService
	log      *logger.Logger
	timeout  time.Duration
}

func NewOrdersHandler(orders OrderService, accounts AccountService, log *logger.Logger, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		orders:   orders,
		accounts: accounts,
		log:      log,
		timeout:  timeout,
	}
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type OrdersResponseDTO struct {
	Orders []*domain.Order `json:"orders"`
}

type ProfileResponseDTO struct {
	User   *domain.User    `json:"user"`
	Orders []*domain.Order `json:"orders"`
}

// POST /api/v1/login
func (h *OrdersHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := h.accounts.Login(req.Email, req.Password)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// GET /api/v1/profile
func (h *OrdersHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	user, err := h.accounts.User(userID)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	list, err := h.orders.List(ctx, userID)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, &ProfileResponseDTO{User: user, Orders: nonNilOrders(list)})
}

// GET /api/v1/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	list, err := h.orders.List(ctx, userID)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, &OrdersResponseDTO{Orders: nonNilOrders(list)})
}

// GET /api/v1/orders/{id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	order, err := h.orders.Get(ctx, userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func nonNilOrders(list []*domain.Order) []*domain.Order {
	if list == nil {
		return []*domain.Order{}
	}
	return list
}
