package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/burger-grill-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/burger-grill-go/internal/catalog"
)

type ProductLookup interface {
	GetProduct(ctx context.Context, productID int64) (catalog.Product, error)
}

type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, o Order) error
}

// Service owns the session cart and turns it into an order on checkout.
// Every operation takes the session id explicitly.
type Service struct {
	products ProductLookup
	carts    cart.Store
	orders   Repository
	events   EventPublisher
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService wires the service. events may be nil to disable publishing.
func NewService(products ProductLookup, carts cart.Store, orders Repository, events EventPublisher, logger zerolog.Logger) *Service {
	return &Service{
		products: products,
		carts:    carts,
		orders:   orders,
		events:   events,
		logger:   logger.With().Str("component", "order-service").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) AddItem(ctx context.Context, sessionID string, productID int64, quantity int) (*cart.Cart, error) {
	if quantity <= 0 || quantity > cart.MaxLineQuantity {
		return nil, ErrInvalidQuantity
	}

	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, &ProductNotFoundError{ProductID: productID}
		}
		return nil, fmt.Errorf("load product %d: %w", productID, err)
	}

	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	now := s.now()
	if c == nil {
		c = cart.New(now)
	}
	if !c.CanAdd(p.ID, quantity) {
		return nil, ErrInvalidQuantity
	}

	c.Add(p.ID, p.Name, p.Price, quantity, now)

	if err := s.carts.Set(ctx, sessionID, c); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return c, nil
}

func (s *Service) ViewCart(ctx context.Context, sessionID string) (*cart.Cart, error) {
	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	return c, nil
}

func (s *Service) ClearCart(ctx context.Context, sessionID string) error {
	if err := s.carts.Remove(ctx, sessionID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Checkout places an order from the session cart. On any failure the cart is
// left in the session untouched.
func (s *Service) Checkout(ctx context.Context, sessionID, userID string) (*Order, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	o := newOrderFromCart(userID, c, s.now())

	if err := s.orders.Place(ctx, o); err != nil {
		var stockErr *InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			s.logger.Info().
				Str("userId", userID).
				Int64("productId", stockErr.ProductID).
				Int("available", stockErr.Available).
				Int("requested", stockErr.Requested).
				Msg("checkout rejected: insufficient stock")
		case errors.Is(err, ErrNotFound):
			s.logger.Info().Str("userId", userID).Err(err).Msg("checkout rejected")
		default:
			s.logger.Error().Str("userId", userID).Err(err).Msg("checkout failed")
		}
		return nil, err
	}

	// The order is committed; a failure to drop the cart must not be
	// reported as a failed checkout.
	if err := s.carts.Remove(ctx, sessionID); err != nil {
		s.logger.Error().Str("orderId", o.ID).Err(err).Msg("failed to clear cart after checkout")
	}

	s.logger.Info().
		Str("orderId", o.ID).
		Str("userId", userID).
		Str("totalAmount", o.TotalAmount.StringFixed(2)).
		Int("lines", len(o.Items)).
		Msg("order placed")

	if s.events != nil {
		if err := s.events.PublishOrderPlaced(ctx, *o); err != nil {
			s.logger.Warn().Str("orderId", o.ID).Err(err).Msg("failed to publish order placed event")
		}
	}

	return o, nil
}

func newOrderFromCart(userID string, c *cart.Cart, now time.Time) *Order {
	o := &Order{
		ID:          uuid.NewString(),
		UserID:      userID,
		OrderDate:   now,
		TotalAmount: decimal.Zero,
		Items:       make([]Line, 0, len(c.Items)),
	}
	for _, it := range c.Items {
		o.Items = append(o.Items, Line{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
		o.TotalAmount = o.TotalAmount.Add(it.LineTotal())
	}
	return o
}

func (s *Service) ListOrders(ctx context.Context, userID string) ([]Order, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetOrder returns one of the user's orders. Orders owned by someone else are
// reported as ErrNotFound.
func (s *Service) GetOrder(ctx context.Context, userID, orderID string) (*Order, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, ErrNotFound
	}

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if o.UserID != userID {
		return nil, ErrNotFound
	}
	return o, nil
}
