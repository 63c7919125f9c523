package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/andreasstove999/ecommerce-system/burger-grill-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/burger-grill-go/internal/order"
)

const (
	codeInvalidRequest    = "invalid_request"
	codeNotFound          = "not_found"
	codeEmptyCart         = "empty_cart"
	codeInsufficientStock = "insufficient_stock"
	codeUnauthorized      = "unauthorized"
	codeInternal          = "internal"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId,omitempty"`
	ProductID int64  `json:"productId,omitempty"`
	Available *int   `json:"available,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, status, errorResponse{
		Error:     msg,
		Code:      code,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// writeServiceError maps domain errors to responses. fallback is the message
// used for unexpected failures.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var stockErr *order.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		available := stockErr.Available
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:     stockErr.Error(),
			Code:      codeInsufficientStock,
			RequestID: middleware.GetReqID(r.Context()),
			ProductID: stockErr.ProductID,
			Available: &available,
		})
	case errors.Is(err, order.ErrEmptyCart):
		writeError(w, r, http.StatusConflict, codeEmptyCart, "your cart is empty")
	case errors.Is(err, order.ErrNotFound), errors.Is(err, catalog.ErrNotFound):
		writeError(w, r, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, order.ErrInvalidQuantity), errors.Is(err, catalog.ErrInvalidName):
		writeError(w, r, http.StatusBadRequest, codeInvalidRequest, err.Error())
	case errors.Is(err, order.ErrUnauthorized):
		writeError(w, r, http.StatusUnauthorized, codeUnauthorized, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, codeInternal, fallback)
	}
}
