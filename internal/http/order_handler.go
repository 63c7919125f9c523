package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.orders.ListOrders(ctx, GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "failed to load orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.orders.GetOrder(ctx, GetUserID(r.Context()), chi.URLParam(r, "orderId"))
	if err != nil {
		writeServiceError(w, r, err, "failed to load order")
		return
	}
	writeJSON(w, http.StatusOK, o)
}
