package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fjod/go_storefront/internal/account"
	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/logger"
	"github.com/fjod/go_storefront/internal/orders"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already out; a failed write only means the client left.
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

var errorStatuses = []struct {
	err    error
	status int
	code   string
}{
	{catalog.ErrProductNotFound, http.StatusNotFound, "product_not_found"},
	{cart.ErrItemNotFound, http.StatusNotFound, "item_not_found"},
	{cart.ErrOutOfStock, http.StatusConflict, "out_of_stock"},
	{orders.ErrOrderNotFound, http.StatusNotFound, "order_not_found"},
	{checkout.ErrEmptyCart, http.StatusConflict, "empty_cart"},
	{checkout.ErrIllegalStep, http.StatusConflict, "illegal_step"},
	{checkout.ErrMissingField, http.StatusBadRequest, "missing_field"},
	{checkout.ErrInvalidEmail, http.StatusBadRequest, "invalid_email"},
	{checkout.ErrUnknownShipping, http.StatusBadRequest, "invalid_shipping_method"},
	{checkout.ErrUnknownPayment, http.StatusBadRequest, "invalid_payment_method"},
	{account.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{account.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "timeout"},
}

// handleServiceError converts service errors to HTTP responses. Anything
// unrecognized is logged and reported as an internal error.
func handleServiceError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			respondJSON(w, e.status, ErrorResponse{
				Error:   e.err.Error(),
				Code:    e.code,
				Details: err.Error(),
			})
			return
		}
	}

	log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", getRequestID(r.Context())),
		zap.Error(err))
	respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}
