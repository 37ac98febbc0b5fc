package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the resolved reference to the order's owner.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProductRef is the resolved reference to the ordered product. Price here
// is the product's current price; the purchase price lives on the order
// itself as an immutable snapshot.
type ProductRef struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

type Order struct {
	ID            int64           `json:"-"`
	OrderID       string          `json:"order_id"`
	User          User            `json:"user"`
	Product       ProductRef      `json:"product"`
	Price         decimal.Decimal `json:"price"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	TokenNumber   string          `json:"token_number"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
