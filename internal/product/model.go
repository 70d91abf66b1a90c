package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64
	Name        string
	Price       decimal.Decimal
	Description string
	Image       string
	CreatedAt   time.Time
}

// NewProduct is the admin input for creating a catalog entry. Price is raw form text.
type NewProduct struct {
	Name        string
	Price       string
	Description string
}
