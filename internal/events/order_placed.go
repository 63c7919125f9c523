package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/burger-grill-go/internal/order"
)

const (
	OrderPlacedEventName    = "OrderPlaced"
	orderPlacedEventVersion = 1
)

type OrderPlacedPayload struct {
	OrderID     string          `json:"orderId"`
	UserID      string          `json:"userId"`
	OrderDate   time.Time       `json:"orderDate"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Items       []PlacedLine    `json:"items"`
}

type PlacedLine struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type OrderPlacedEnvelope = EventEnvelope[OrderPlacedPayload]

// BuildOrderPlacedEnvelope keys the event by order id. A missing
// correlation id is replaced with a fresh one.
func BuildOrderPlacedEnvelope(o order.Order, correlationID string, occurredAt time.Time) OrderPlacedEnvelope {
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	items := make([]PlacedLine, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, PlacedLine{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	return OrderPlacedEnvelope{
		EventName:     OrderPlacedEventName,
		EventVersion:  orderPlacedEventVersion,
		EventID:       uuid.NewString(),
		CorrelationID: correlationID,
		Producer:      producerName,
		PartitionKey:  o.ID,
		OccurredAt:    occurredAt,
		Payload: OrderPlacedPayload{
			OrderID:     o.ID,
			UserID:      o.UserID,
			OrderDate:   o.OrderDate,
			TotalAmount: o.TotalAmount,
			Items:       items,
		},
	}
}

// encodeOrderPlaced returns the validated OrderPlaced event body.
func encodeOrderPlaced(o order.Order, correlationID string, occurredAt time.Time) ([]byte, error) {
	env := BuildOrderPlacedEnvelope(o, correlationID, occurredAt)
	if err := env.Validate(OrderPlacedEventName, orderPlacedEventVersion); err != nil {
		return nil, fmt.Errorf("invalid OrderPlaced envelope: %w", err)
	}
	body, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal OrderPlaced envelope: %w", err)
	}
	return body, nil
}
