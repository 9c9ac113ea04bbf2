package service

import (
	"context"

	models "product-cart-store/model"
)

type ServiceInterface interface {
	ListProducts(ctx context.Context, limit *int) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
	CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error)
	ReplaceProduct(ctx context.Context, id string, in models.ProductInput) (models.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	CreateCart(ctx context.Context) (models.Cart, error)
	GetCart(ctx context.Context, id string) (models.Cart, error)
	AddProductToCart(ctx context.Context, cartID, productID string, quantity float64) (models.Cart, error)
}
