package order

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/burger-grill-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/burger-grill-go/internal/catalog"
)

type memCatalog struct {
	products map[int64]catalog.Product
	err      error
}

func (m *memCatalog) GetProduct(_ context.Context, productID int64) (catalog.Product, error) {
	if m.err != nil {
		return catalog.Product{}, m.err
	}
	p, ok := m.products[productID]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

type memStore struct {
	carts   map[string]*cart.Cart
	sets    int
	removes int
}

func newMemStore() *memStore {
	return &memStore{carts: map[string]*cart.Cart{}}
}

func copyCart(c *cart.Cart) *cart.Cart {
	cp := *c
	cp.Items = append([]cart.Item(nil), c.Items...)
	return &cp
}

func (m *memStore) Get(_ context.Context, sessionID string) (*cart.Cart, error) {
	c, ok := m.carts[sessionID]
	if !ok {
		return nil, nil
	}
	return copyCart(c), nil
}

func (m *memStore) Set(_ context.Context, sessionID string, c *cart.Cart) error {
	m.sets++
	m.carts[sessionID] = copyCart(c)
	return nil
}

func (m *memStore) Remove(_ context.Context, sessionID string) error {
	m.removes++
	delete(m.carts, sessionID)
	return nil
}

// memOrders applies the same validate-then-commit rules as the Postgres
// repository against an in-memory stock table.
type memOrders struct {
	stock    map[int64]int
	names    map[int64]string
	orders   []Order
	placeErr error
	placed   int
}

func (m *memOrders) Place(_ context.Context, o *Order) error {
	m.placed++
	if m.placeErr != nil {
		return m.placeErr
	}
	for _, l := range o.Items {
		available, ok := m.stock[l.ProductID]
		if !ok {
			return &ProductNotFoundError{ProductID: l.ProductID}
		}
		if available < l.Quantity {
			return &InsufficientStockError{ProductID: l.ProductID, ProductName: m.names[l.ProductID], Available: available, Requested: l.Quantity}
		}
	}
	for _, l := range o.Items {
		m.stock[l.ProductID] -= l.Quantity
	}
	m.orders = append(m.orders, *o)
	return nil
}

func (m *memOrders) GetByID(_ context.Context, orderID string) (*Order, error) {
	for i := range m.orders {
		if m.orders[i].ID == orderID {
			o := m.orders[i]
			return &o, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memOrders) ListByUser(_ context.Context, userID string) ([]Order, error) {
	out := []Order{}
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	published []Order
	err       error
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, o Order) error {
	p.published = append(p.published, o)
	return p.err
}

type fixture struct {
	svc       *Service
	catalog   *memCatalog
	store     *memStore
	orders    *memOrders
	publisher *recordingPublisher
}

func newFixture() *fixture {
	f := &fixture{
		catalog: &memCatalog{products: map[int64]catalog.Product{
			1: {ID: 1, Name: "Hamburger", Price: decimal.RequireFromString("3.49"), Stock: 100},
			2: {ID: 2, Name: "Cheeseburger", Price: decimal.RequireFromString("3.99"), Stock: 1},
			6: {ID: 6, Name: "French fries", Price: decimal.RequireFromString("2.79"), Stock: 350},
		}},
		store: newMemStore(),
		orders: &memOrders{
			stock: map[int64]int{1: 100, 2: 1, 6: 350},
			names: map[int64]string{1: "Hamburger", 2: "Cheeseburger", 6: "French fries"},
		},
		publisher: &recordingPublisher{},
	}
	f.svc = NewService(f.catalog, f.store, f.orders, f.publisher, zerolog.Nop())
	f.svc.now = func() time.Time { return time.Date(2026, 10, 14, 18, 0, 0, 0, time.UTC) }
	return f
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		f := newFixture()
		for _, q := range []int{0, -1} {
			_, err := f.svc.AddItem(ctx, "s1", 1, q)
			require.ErrorIs(t, err, ErrInvalidQuantity)
		}
		assert.Equal(t, 0, f.store.sets)
	})

	t.Run("rejects quantities that would overflow the line", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.AddItem(ctx, "s1", 1, math.MaxInt)
		require.ErrorIs(t, err, ErrInvalidQuantity)

		_, err = f.svc.AddItem(ctx, "s1", 1, cart.MaxLineQuantity)
		require.NoError(t, err)

		_, err = f.svc.AddItem(ctx, "s1", 1, 2)
		require.ErrorIs(t, err, ErrInvalidQuantity)

		c, err := f.svc.ViewCart(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, c.Items, 1)
		assert.Equal(t, cart.MaxLineQuantity, c.Items[0].Quantity)
		assert.True(t, c.TotalAmount.IsPositive())
		assert.Equal(t, 1, f.store.sets)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.AddItem(ctx, "s1", 42, 1)
		require.ErrorIs(t, err, ErrNotFound)

		var pnf *ProductNotFoundError
		require.ErrorAs(t, err, &pnf)
		assert.Equal(t, int64(42), pnf.ProductID)
		assert.Equal(t, 0, f.store.sets)
	})

	t.Run("catalog failure is not a not-found", func(t *testing.T) {
		f := newFixture()
		f.catalog.err = errors.New("db down")
		_, err := f.svc.AddItem(ctx, "s1", 1, 1)
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("repeat add accumulates and keeps the first price", func(t *testing.T) {
		f := newFixture()

		c, err := f.svc.AddItem(ctx, "s1", 1, 2)
		require.NoError(t, err)
		assert.True(t, c.TotalAmount.Equal(decimal.RequireFromString("6.98")))

		p := f.catalog.products[1]
		p.Price = decimal.RequireFromString("9.99")
		f.catalog.products[1] = p

		c, err = f.svc.AddItem(ctx, "s1", 1, 3)
		require.NoError(t, err)
		require.Len(t, c.Items, 1)
		assert.Equal(t, 5, c.Items[0].Quantity)
		assert.True(t, c.Items[0].UnitPrice.Equal(decimal.RequireFromString("3.49")))
		assert.True(t, c.TotalAmount.Equal(decimal.RequireFromString("17.45")))

		stored, _ := f.store.Get(ctx, "s1")
		assert.Equal(t, c.Items, stored.Items)
	})

	t.Run("sessions do not share carts", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.AddItem(ctx, "a", 1, 1)
		require.NoError(t, err)

		_, err = f.svc.ViewCart(ctx, "b")
		require.ErrorIs(t, err, ErrEmptyCart)
	})
}

func TestViewAndClearCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.ViewCart(ctx, "s1")
	require.ErrorIs(t, err, ErrEmptyCart)

	_, err = f.svc.AddItem(ctx, "s1", 6, 2)
	require.NoError(t, err)

	c, err := f.svc.ViewCart(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, c.TotalAmount.Equal(decimal.RequireFromString("5.58")))

	require.NoError(t, f.svc.ClearCart(ctx, "s1"))
	require.NoError(t, f.svc.ClearCart(ctx, "s1"))

	_, err = f.svc.ViewCart(ctx, "s1")
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a user", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Checkout(ctx, "s1", "")
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("empty cart performs no writes", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Checkout(ctx, "s1", "u1")
		require.ErrorIs(t, err, ErrEmptyCart)

		assert.Equal(t, 0, f.orders.placed)
		assert.Equal(t, 0, f.store.sets)
		assert.Equal(t, 0, f.store.removes)
		assert.Empty(t, f.publisher.published)
	})

	t.Run("insufficient stock leaves everything untouched", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.AddItem(ctx, "s1", 1, 2)
		require.NoError(t, err)
		_, err = f.svc.AddItem(ctx, "s1", 2, 2)
		require.NoError(t, err)

		_, err = f.svc.Checkout(ctx, "s1", "u1")
		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, int64(2), stockErr.ProductID)
		assert.Equal(t, 1, stockErr.Available)
		assert.Equal(t, "Not enough stock for product Cheeseburger. Only 1 left.", stockErr.Error())

		assert.Equal(t, 100, f.orders.stock[1])
		assert.Equal(t, 1, f.orders.stock[2])
		assert.Empty(t, f.orders.orders)
		assert.Equal(t, 0, f.store.removes)

		c, err := f.svc.ViewCart(ctx, "s1")
		require.NoError(t, err)
		assert.Len(t, c.Items, 2)
		assert.Empty(t, f.publisher.published)
	})

	t.Run("repository failure keeps the cart", func(t *testing.T) {
		f := newFixture()
		f.orders.placeErr = errors.New("serialization failure")
		_, err := f.svc.AddItem(ctx, "s1", 1, 1)
		require.NoError(t, err)

		_, err = f.svc.Checkout(ctx, "s1", "u1")
		require.Error(t, err)

		_, err = f.svc.ViewCart(ctx, "s1")
		require.NoError(t, err)
	})

	t.Run("success decrements stock and freezes the cart", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.AddItem(ctx, "s1", 1, 2)
		require.NoError(t, err)
		_, err = f.svc.AddItem(ctx, "s1", 6, 3)
		require.NoError(t, err)

		p := f.catalog.products[6]
		p.Price = decimal.RequireFromString("4.00")
		f.catalog.products[6] = p

		o, err := f.svc.Checkout(ctx, "s1", "u1")
		require.NoError(t, err)

		assert.NotEmpty(t, o.ID)
		assert.Equal(t, "u1", o.UserID)
		assert.Equal(t, time.Date(2026, 10, 14, 18, 0, 0, 0, time.UTC), o.OrderDate)
		require.Len(t, o.Items, 2)
		assert.True(t, o.Items[1].UnitPrice.Equal(decimal.RequireFromString("2.79")))

		sum := decimal.Zero
		for _, l := range o.Items {
			sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		assert.True(t, o.TotalAmount.Equal(sum))
		assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("15.35")))

		assert.Equal(t, 98, f.orders.stock[1])
		assert.Equal(t, 347, f.orders.stock[6])
		assert.Equal(t, 1, f.orders.stock[2])

		_, err = f.svc.ViewCart(ctx, "s1")
		require.ErrorIs(t, err, ErrEmptyCart)

		require.Len(t, f.publisher.published, 1)
		assert.Equal(t, o.ID, f.publisher.published[0].ID)
	})

	t.Run("publish failure does not fail checkout", func(t *testing.T) {
		f := newFixture()
		f.publisher.err = errors.New("broker unavailable")
		_, err := f.svc.AddItem(ctx, "s1", 1, 1)
		require.NoError(t, err)

		o, err := f.svc.Checkout(ctx, "s1", "u1")
		require.NoError(t, err)
		require.NotNil(t, o)
		assert.Len(t, f.orders.orders, 1)
	})

	t.Run("without a publisher", func(t *testing.T) {
		f := newFixture()
		svc := NewService(f.catalog, f.store, f.orders, nil, zerolog.Nop())
		_, err := svc.AddItem(ctx, "s1", 1, 1)
		require.NoError(t, err)

		_, err = svc.Checkout(ctx, "s1", "u1")
		require.NoError(t, err)
	})
}

func TestListAndGetOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	place := func(session, user string, productID int64) *Order {
		t.Helper()
		_, err := f.svc.AddItem(ctx, session, productID, 1)
		require.NoError(t, err)
		o, err := f.svc.Checkout(ctx, session, user)
		require.NoError(t, err)
		return o
	}

	a1 := place("sa", "alice", 1)
	place("sb", "bob", 6)
	a2 := place("sa", "alice", 6)

	_, err := f.svc.ListOrders(ctx, "")
	require.ErrorIs(t, err, ErrUnauthorized)

	orders, err := f.svc.ListOrders(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, a1.ID, orders[0].ID)
	assert.Equal(t, a2.ID, orders[1].ID)
	for _, o := range orders {
		assert.Equal(t, "alice", o.UserID)
	}

	none, err := f.svc.ListOrders(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, none)

	got, err := f.svc.GetOrder(ctx, "alice", a1.ID)
	require.NoError(t, err)
	assert.Equal(t, a1.ID, got.ID)

	_, err = f.svc.GetOrder(ctx, "bob", a1.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.GetOrder(ctx, "alice", "not-a-uuid")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.GetOrder(ctx, "", a1.ID)
	require.ErrorIs(t, err, ErrUnauthorized)
}
