package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidName = errors.New("name is required")
)

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	ListProducts(ctx context.Context, categoryID int64) ([]Product, error)
	GetProduct(ctx context.Context, productID int64) (Product, error)
	GetProductDetails(ctx context.Context, productID int64) (Product, error)

	ListIngredients(ctx context.Context) ([]Ingredient, error)
	GetIngredient(ctx context.Context, ingredientID int64) (Ingredient, error)
	CreateIngredient(ctx context.Context, name string) (Ingredient, error)
	UpdateIngredient(ctx context.Context, ing Ingredient) error
	DeleteIngredient(ctx context.Context, ingredientID int64) error
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const productColumns = `id, name, description, price, stock, category_id, image_url`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CategoryID, &p.ImageURL)
	return p, err
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListProducts returns the whole catalog, or one category when categoryID > 0.
func (r *PostgresRepository) ListProducts(ctx context.Context, categoryID int64) ([]Product, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if categoryID > 0 {
		rows, err = r.pool.Query(ctx, `SELECT `+productColumns+` FROM products WHERE category_id=$1 ORDER BY id`, categoryID)
	} else {
		rows, err = r.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	}
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetProduct(ctx context.Context, productID int64) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("select product %d: %w", productID, err)
	}
	return p, nil
}

func (r *PostgresRepository) GetProductDetails(ctx context.Context, productID int64) (Product, error) {
	p, err := r.GetProduct(ctx, productID)
	if err != nil {
		return Product{}, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT i.id, i.name
		FROM product_ingredients pi
		JOIN ingredients i ON i.id = pi.ingredient_id
		WHERE pi.product_id=$1
		ORDER BY i.id
	`, productID)
	if err != nil {
		return Product{}, fmt.Errorf("select product ingredients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ing Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name); err != nil {
			return Product{}, fmt.Errorf("scan ingredient: %w", err)
		}
		p.Ingredients = append(p.Ingredients, ing)
	}
	return p, rows.Err()
}

func (r *PostgresRepository) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM ingredients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select ingredients: %w", err)
	}
	defer rows.Close()

	out := []Ingredient{}
	for rows.Next() {
		var ing Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetIngredient(ctx context.Context, ingredientID int64) (Ingredient, error) {
	var ing Ingredient
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM ingredients WHERE id=$1`, ingredientID).Scan(&ing.ID, &ing.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Ingredient{}, ErrNotFound
		}
		return Ingredient{}, fmt.Errorf("select ingredient %d: %w", ingredientID, err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.name
		FROM product_ingredients pi
		JOIN products p ON p.id = pi.product_id
		WHERE pi.ingredient_id=$1
		ORDER BY p.id
	`, ingredientID)
	if err != nil {
		return Ingredient{}, fmt.Errorf("select ingredient products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ref ProductRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return Ingredient{}, fmt.Errorf("scan product ref: %w", err)
		}
		ing.Products = append(ing.Products, ref)
	}
	return ing, rows.Err()
}

func (r *PostgresRepository) CreateIngredient(ctx context.Context, name string) (Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Ingredient{}, ErrInvalidName
	}

	ing := Ingredient{Name: name}
	if err := r.pool.QueryRow(ctx, `INSERT INTO ingredients (name) VALUES ($1) RETURNING id`, name).Scan(&ing.ID); err != nil {
		return Ingredient{}, fmt.Errorf("insert ingredient: %w", err)
	}
	return ing, nil
}

func (r *PostgresRepository) UpdateIngredient(ctx context.Context, ing Ingredient) error {
	name := strings.TrimSpace(ing.Name)
	if name == "" {
		return ErrInvalidName
	}

	tag, err := r.pool.Exec(ctx, `UPDATE ingredients SET name=$2 WHERE id=$1`, ing.ID, name)
	if err != nil {
		return fmt.Errorf("update ingredient %d: %w", ing.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteIngredient removes the ingredient and its product links.
func (r *PostgresRepository) DeleteIngredient(ctx context.Context, ingredientID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ingredients WHERE id=$1`, ingredientID)
	if err != nil {
		return fmt.Errorf("delete ingredient %d: %w", ingredientID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
