package cart

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity is the largest quantity a single line may hold. It matches
// the INTEGER quantity column orders are written to.
const MaxLineQuantity = math.MaxInt32

type Item struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
}

func (it Item) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

type Cart struct {
	Items       []Item          `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func New(now time.Time) *Cart {
	return &Cart{Items: []Item{}, TotalAmount: decimal.Zero, UpdatedAt: now}
}

// CanAdd reports whether adding quantity of the product keeps its line within
// 1..MaxLineQuantity.
func (c *Cart) CanAdd(productID int64, quantity int) bool {
	if quantity <= 0 || quantity > MaxLineQuantity {
		return false
	}
	for _, it := range c.Items {
		if it.ProductID == productID {
			return it.Quantity <= MaxLineQuantity-quantity
		}
	}
	return true
}

// Add accumulates quantity onto an existing line for the product, keeping the
// price snapshot taken when the line was created. A new line snapshots the
// given name and price.
func (c *Cart) Add(productID int64, name string, price decimal.Decimal, quantity int, now time.Time) {
	updated := false
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			updated = true
			break
		}
	}
	if !updated {
		c.Items = append(c.Items, Item{
			ProductID:   productID,
			ProductName: name,
			UnitPrice:   price,
			Quantity:    quantity,
		})
	}

	c.Recalculate()
	c.UpdatedAt = now
}

func (c *Cart) Recalculate() {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.LineTotal())
	}
	c.TotalAmount = total
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}
