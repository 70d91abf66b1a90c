package order

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID        int64
	UserID    string
	Total     decimal.Decimal
	Status    Status
	CreatedAt time.Time
	Items     []OrderItem
}

type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID *int64
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

// CatalogMode selects how a submitted line names what it buys.
type CatalogMode string

const (
	// CatalogSnapshot stores the submitted name and price inline.
	CatalogSnapshot CatalogMode = "snapshot"
	// CatalogReference resolves name and price from the products table at write time.
	CatalogReference CatalogMode = "reference"
)

// TotalPolicy selects how the declared total is treated.
type TotalPolicy string

const (
	TotalTrust  TotalPolicy = "trust"
	TotalVerify TotalPolicy = "verify"
)

type Rules struct {
	Catalog CatalogMode
	Total   TotalPolicy
}

// Scalar is a JSON scalar kept as text, so both 12.5 and "12.5" decode.
type Scalar string

func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(str)
		return nil
	}
	*s = Scalar(data)
	return nil
}

// SubmittedItem is one line exactly as the client sent it.
type SubmittedItem struct {
	ProductID Scalar `json:"productId"`
	Name      Scalar `json:"name"`
	Price     Scalar `json:"price"`
	Quantity  Scalar `json:"quantity"`
	Qty       Scalar `json:"qty"`
}

// Submission is a raw order placement request body.
type Submission struct {
	Items []SubmittedItem
	Total Scalar
}

// Draft is a validated order ready for the writer.
type Draft struct {
	UserID string
	Items  []DraftItem
	Total  decimal.Decimal
	// VerifyTotal asks the writer to re-check the total after resolving catalog prices.
	VerifyTotal bool
}

type DraftItem struct {
	// ProductID is non-zero only in reference mode.
	ProductID int64
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

func (i DraftItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Placement is the outcome of a successful order placement.
type Placement struct {
	OrderID  int64
	Items    int
	Replayed bool
}

type StatusChange struct {
	OrderID int64
	From    Status
	To      Status
}
