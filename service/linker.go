package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	models "product-cart-store/model"
	"product-cart-store/store"
)

// Linker adds products to carts. It writes only the cart collection; the
// product collection is read to validate the product and copy its title.
type Linker struct {
	carts    *store.Collection[models.Cart]
	products *store.Collection[models.Product]
	logger   *zap.Logger
}

func NewLinker(carts *store.Collection[models.Cart], products *store.Collection[models.Product], logger *zap.Logger) *Linker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Linker{carts: carts, products: products, logger: logger}
}

// AddProductToCart merges quantity of productID into the cart. An existing
// line-item for the product has its quantity increased; otherwise a new one
// is appended with the product's current title. The quantity is not
// validated.
func (l *Linker) AddProductToCart(ctx context.Context, cartID, productID models.ID, quantity float64) (models.Cart, error) {
	cart, err := l.carts.Modify(ctx, cartID, func(cart models.Cart) (models.Cart, error) {
		product, err := l.products.Get(ctx, productID)
		if errors.Is(err, store.ErrNotFound) {
			return cart, ErrProductNotFound
		}
		if err != nil {
			return cart, err
		}
		cart.Products = mergeLineItem(cart.Items(), productID, product.Title, quantity)
		return cart, nil
	})
	switch {
	case errors.Is(err, ErrProductNotFound):
		return models.Cart{}, err
	case errors.Is(err, store.ErrNotFound):
		return models.Cart{}, ErrCartNotFound
	case err != nil:
		return models.Cart{}, err
	}

	l.logger.Debug("product added to cart",
		zap.Stringer("cart_id", cartID),
		zap.Stringer("product_id", productID),
		zap.Float64("quantity", quantity),
	)
	return cart, nil
}

func mergeLineItem(items []models.LineItem, productID models.ID, title string, quantity float64) []models.LineItem {
	for i := range items {
		if store.StrictMatch(items[i].Product, productID) {
			items[i].Quantity += quantity
			return items
		}
	}
	return append(items, models.LineItem{Product: productID, Title: title, Quantity: quantity})
}
