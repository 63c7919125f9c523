package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

type addItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

func (h *Handler) ViewCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.orders.ViewCart(ctx, GetSessionID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "failed to load cart")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var body addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, codeInvalidRequest, "invalid json")
		return
	}
	if body.ProductID <= 0 {
		writeError(w, r, http.StatusBadRequest, codeInvalidRequest, "productId is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.orders.AddItem(ctx, GetSessionID(r.Context()), body.ProductID, body.Quantity)
	if err != nil {
		writeServiceError(w, r, err, "failed to update cart")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.orders.ClearCart(ctx, GetSessionID(r.Context())); err != nil {
		writeServiceError(w, r, err, "failed to clear cart")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.orders.Checkout(ctx, GetSessionID(r.Context()), GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "failed to place order, please retry")
		return
	}
	writeJSON(w, http.StatusCreated, o)
}
