package order

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/andreasstove999/ecommerce-system/burger-grill-go/internal/cart"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type Repository interface {
	// Place validates stock for every line, decrements it and stores the
	// order in one transaction. Nothing is written when any line fails.
	Place(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

type lockedProduct struct {
	name  string
	stock int
}

func (r *PostgresRepository) Place(ctx context.Context, o *Order) (err error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	locked, err := lockProducts(ctx, tx, o.Items)
	if err != nil {
		return err
	}

	// Validate every line before touching stock. First failure in cart order wins.
	for i, line := range o.Items {
		if line.Quantity <= 0 || line.Quantity > cart.MaxLineQuantity {
			return ErrInvalidQuantity
		}
		p, ok := locked[line.ProductID]
		if !ok {
			return &ProductNotFoundError{ProductID: line.ProductID}
		}
		if p.stock < line.Quantity {
			return &InsufficientStockError{
				ProductID:   line.ProductID,
				ProductName: p.name,
				Available:   p.stock,
				Requested:   line.Quantity,
			}
		}
		if line.ProductName == "" {
			o.Items[i].ProductName = p.name
		}
	}

	for _, line := range o.Items {
		tag, execErr := tx.Exec(ctx, `
			UPDATE products
			SET stock = stock - $2, updated_at = now()
			WHERE id=$1 AND stock >= $2
		`, line.ProductID, line.Quantity)
		if execErr != nil {
			return fmt.Errorf("decrement stock for product %d: %w", line.ProductID, execErr)
		}
		if tag.RowsAffected() != 1 {
			p := locked[line.ProductID]
			return &InsufficientStockError{
				ProductID:   line.ProductID,
				ProductName: p.name,
				Available:   p.stock,
				Requested:   line.Quantity,
			}
		}
	}

	if _, err = tx.Exec(ctx,
		`INSERT INTO orders (id, user_id, order_date, total_amount) VALUES ($1, $2, $3, $4)`,
		o.ID, o.UserID, o.OrderDate, o.TotalAmount,
	); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, line := range o.Items {
		if _, err = tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, price) VALUES ($1, $2, $3, $4)`,
			o.ID, line.ProductID, line.Quantity, line.UnitPrice,
		); err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// lockProducts takes row locks on every product referenced by lines, in
// ascending id order so concurrent checkouts sharing products cannot deadlock.
func lockProducts(ctx context.Context, tx pgx.Tx, lines []Line) (map[int64]lockedProduct, error) {
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rows, err := tx.Query(ctx, `
		SELECT id, name, stock
		FROM products
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}
	defer rows.Close()

	locked := make(map[int64]lockedProduct, len(ids))
	for rows.Next() {
		var (
			id int64
			p  lockedProduct
		)
		if err := rows.Scan(&id, &p.name, &p.stock); err != nil {
			return nil, fmt.Errorf("scan locked product: %w", err)
		}
		locked[id] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return locked, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	err := r.pool.QueryRow(ctx,
		`SELECT id::text, user_id, order_date, total_amount FROM orders WHERE id = $1`,
		orderID,
	).Scan(&o.ID, &o.UserID, &o.OrderDate, &o.TotalAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	o.Items, err = r.loadLines(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id::text, user_id, order_date, total_amount
         FROM orders WHERE user_id = $1 ORDER BY order_date, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}

	orders := []Order{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.OrderDate, &o.TotalAmount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	for i := range orders {
		orders[i].Items, err = r.loadLines(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *PostgresRepository) loadLines(ctx context.Context, orderID string) ([]Line, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT oi.product_id, p.name, oi.quantity, oi.price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("select order_items: %w", err)
	}
	defer rows.Close()

	lines := []Line{}
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order_item: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return lines, nil
}
