package service

import (
	"fmt"
	"strings"

	"product-cart-store/store"
)

var (
	ErrProductNotFound = fmt.Errorf("product not found: %w", store.ErrNotFound)
	ErrCartNotFound    = fmt.Errorf("cart not found: %w", store.ErrNotFound)
)

// ValidationError lists the request fields that are missing or invalid.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}
