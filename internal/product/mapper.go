package product

import (
	"encoding/json"
	"time"
)

type ProductResponse struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Price       json.Number `json:"price"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	CreatedAt   string      `json:"createdAt"`
}

func MapProductToResponse(p *Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       json.Number(p.Price.String()),
		Description: p.Description,
		Image:       p.Image,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func MapProductsToResponse(products []*Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, MapProductToResponse(p))
	}
	return out
}
