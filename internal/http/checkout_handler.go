package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/logger"
)

type CheckoutService interface {
	State(ctx context.Context, userID string) (*checkout.State, error)
	GoTo(ctx context.Context, userID string, step checkout.Step) (*checkout.State, error)
	SubmitShipping(ctx context.Context, userID string, info checkout.ShippingInfo, method string) (*checkout.State, error)
	SubmitPayment(ctx context.Context, userID, method string, sameAsBilling bool) (*checkout.State, error)
	PlaceOrder(ctx context.Context, userID string) (*domain.Order, error)
}

type CheckoutHandler struct {
	checkout CheckoutService
	log      *logger.Logger
	timeout  time.Duration
}

func NewCheckoutHandler(svc CheckoutService, log *logger.Logger, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: svc,
		log:      log,
		timeout:  timeout,
	}
}

type StepRequestDTO struct {
	Step int `json:"step"`
}

type ShippingRequestDTO struct {
	checkout.ShippingInfo
	ShippingMethod string `json:"shipping_method"`
}

type PaymentRequestDTO struct {
	PaymentMethod string `json:"payment_method"`
	SameAsBilling *bool  `json:"same_as_billing"`
}

// GET /api/v1/checkout
func (h *CheckoutHandler) GetState(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	state, err := h.checkout.State(ctx, userID)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// PUT /api/v1/checkout/step
func (h *CheckoutHandler) GoToStep(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req StepRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	state, err := h.checkout.GoTo(ctx, userID, checkout.Step(req.Step))
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// POST /api/v1/checkout/shipping
func (h *CheckoutHandler) SubmitShipping(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req ShippingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	state, err := h.checkout.SubmitShipping(ctx, userID, req.ShippingInfo, req.ShippingMethod)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// POST /api/v1/checkout/payment
func (h *CheckoutHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req PaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	sameAsBilling := true
	if req.SameAsBilling != nil {
		sameAsBilling = *req.SameAsBilling
	}

	state, err := h.checkout.SubmitPayment(ctx, userID, req.PaymentMethod, sameAsBilling)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// POST /api/v1/checkout/order
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	order, err := h.checkout.PlaceOrder(ctx, userID)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}
