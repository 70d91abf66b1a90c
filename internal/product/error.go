package product

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNameRequired    = errors.New("product name is required")
	ErrInvalidPrice    = errors.New("product price must be a positive number")
)
