package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/burger-grill-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/burger-grill-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/burger-grill-go/internal/order"
)

// OrderService is the cart and checkout surface used by the handlers.
type OrderService interface {
	AddItem(ctx context.Context, sessionID string, productID int64, quantity int) (*cart.Cart, error)
	ViewCart(ctx context.Context, sessionID string) (*cart.Cart, error)
	ClearCart(ctx context.Context, sessionID string) error
	Checkout(ctx context.Context, sessionID, userID string) (*order.Order, error)
	ListOrders(ctx context.Context, userID string) ([]order.Order, error)
	GetOrder(ctx context.Context, userID, orderID string) (*order.Order, error)
}

type Handler struct {
	orders  OrderService
	catalog catalog.Repository
}

func NewHandler(orders OrderService, catalog catalog.Repository) *Handler {
	return &Handler{orders: orders, catalog: catalog}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "burger-grill",
	})
}

func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
