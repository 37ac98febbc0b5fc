package orders

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
)

// Envelope is the wire format for order events on the stream.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID     string          `json:"order_id"`
	UserID      int64           `json:"user_id"`
	ProductID   int64           `json:"product_id"`
	TokenNumber string          `json:"token_number"`
	Price       decimal.Decimal `json:"price"`
}

type OrderStatusChangedPayload struct {
	OrderID     string `json:"order_id"`
	Status      Status `json:"status"`
	TokenNumber string `json:"token_number"`
}
