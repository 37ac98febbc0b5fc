package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Creator is the resolved reference to the user who added a product.
type Creator struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Product struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Availability bool            `json:"availability"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	CreatedBy    Creator         `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Patch carries a partial product update; nil fields are left untouched.
type Patch struct {
	Name         *string
	Price        *decimal.Decimal
	Availability *bool
	Description  *string
	Category     *string
}
