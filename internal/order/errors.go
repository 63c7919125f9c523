package order

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrUnauthorized    = errors.New("user is not signed in")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// ProductNotFoundError is returned when a cart line references a product
// that no longer exists. It matches ErrNotFound.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

func (e *ProductNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Not enough stock for product %s. Only %d left.", e.ProductName, e.Available)
}
