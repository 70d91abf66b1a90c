package order

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type OrderItemResponse struct {
	ProductID *int64      `json:"productId,omitempty"`
	Name      string      `json:"name"`
	Price     json.Number `json:"price"`
	Quantity  int         `json:"quantity"`
}

type OrderResponse struct {
	ID        int64               `json:"id"`
	UserID    string              `json:"userId"`
	Total     json.Number         `json:"total"`
	Status    Status              `json:"status"`
	CreatedAt string              `json:"createdAt"`
	Items     []OrderItemResponse `json:"items"`
}

// Money renders a decimal as a bare JSON number.
func Money(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func MapOrderToResponse(o *Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     Money(it.Price),
			Quantity:  it.Quantity,
		})
	}

	return OrderResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		Total:     Money(o.Total),
		Status:    o.Status,
		CreatedAt: o.CreatedAt.UTC().Format(time.RFC3339),
		Items:     items,
	}
}

func MapOrdersToResponse(orders []*Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, MapOrderToResponse(o))
	}
	return out
}
