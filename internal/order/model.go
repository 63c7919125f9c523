package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Line struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

type Order struct {
	ID          string          `json:"orderId"`
	UserID      string          `json:"userId"`
	OrderDate   time.Time       `json:"orderDate"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Items       []Line          `json:"items"`
}
