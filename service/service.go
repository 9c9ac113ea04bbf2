package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	models "product-cart-store/model"
	"product-cart-store/store"
)

type Service struct {
	products *store.Collection[models.Product]
	carts    *store.Collection[models.Cart]
	linker   *Linker
	defaults models.ProductDefaults
	logger   *zap.Logger
}

type Option func(*Service)

// WithProductDefaults overrides the values used for optional product fields.
func WithProductDefaults(d models.ProductDefaults) Option {
	return func(s *Service) { s.defaults = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(products *store.Collection[models.Product], carts *store.Collection[models.Cart], opts ...Option) *Service {
	s := &Service{
		products: products,
		carts:    carts,
		defaults: models.DefaultProductDefaults(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.linker = NewLinker(carts, products, s.logger)
	return s
}

// NewCollections builds the two collections with their id and matching
// rules: products get sequential ids and loose lookups, carts get random
// string ids and strict lookups.
func NewCollections(products, carts store.Backend, logger *zap.Logger) (*store.Collection[models.Product], *store.Collection[models.Cart]) {
	p := store.NewCollection[models.Product]("products", products, store.Options{
		IDs:    store.Sequential{},
		Match:  store.LooseMatch,
		Logger: logger,
	})
	c := store.NewCollection[models.Cart]("carts", carts, store.Options{
		IDs:    store.NewRandomString(),
		Match:  store.StrictMatch,
		Logger: logger,
	})
	return p, c
}

// EnsureExists creates both backing documents if needed.
func (s *Service) EnsureExists(ctx context.Context) error {
	if err := s.products.EnsureExists(ctx); err != nil {
		return err
	}
	return s.carts.EnsureExists(ctx)
}

// ListProducts returns the products in insertion order. A nil limit returns
// all of them; otherwise limit behaves as the end of a slice taken from the
// start: 0 gives none, n > 0 the first n, n < 0 all but the last -n.
func (s *Service) ListProducts(ctx context.Context, limit *int) ([]models.Product, error) {
	if limit != nil && *limit > 0 {
		return s.products.List(ctx, *limit)
	}
	ps, err := s.products.List(ctx, 0)
	if err != nil || limit == nil {
		return ps, err
	}
	return ps[:max(len(ps)+*limit, 0)], nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (models.Product, error) {
	p, err := s.products.Get(ctx, models.ParseID(id))
	if errors.Is(err, store.ErrNotFound) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (s *Service) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	if missing := in.MissingFields(); len(missing) > 0 {
		return models.Product{}, &ValidationError{Fields: missing}
	}
	p, err := s.products.Insert(ctx, in.Product(s.defaults))
	if err != nil {
		return models.Product{}, err
	}
	s.logger.Info("product created", zap.Stringer("product_id", p.ID), zap.String("code", p.Code))
	return p, nil
}

// ReplaceProduct stores in as the new content of product id. Mandatory
// fields are not enforced; optional ones get their defaults.
func (s *Service) ReplaceProduct(ctx context.Context, id string, in models.ProductInput) (models.Product, error) {
	p, err := s.products.Replace(ctx, models.ParseID(id), in.Product(s.defaults))
	if errors.Is(err, store.ErrNotFound) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	err := s.products.Delete(ctx, models.ParseID(id))
	if errors.Is(err, store.ErrNotFound) {
		return ErrProductNotFound
	}
	if err == nil {
		s.logger.Info("product deleted", zap.String("product_id", id))
	}
	return err
}

func (s *Service) CreateCart(ctx context.Context) (models.Cart, error) {
	c, err := s.carts.Insert(ctx, models.NewCart())
	if err != nil {
		return models.Cart{}, err
	}
	s.logger.Info("cart created", zap.Stringer("cart_id", c.ID))
	return c, nil
}

// GetCart looks the cart up by its exact string id.
func (s *Service) GetCart(ctx context.Context, id string) (models.Cart, error) {
	c, err := s.carts.Get(ctx, models.StringID(id))
	if errors.Is(err, store.ErrNotFound) {
		return models.Cart{}, ErrCartNotFound
	}
	if err != nil {
		return models.Cart{}, err
	}
	c.Products = c.Items()
	return c, nil
}

func (s *Service) AddProductToCart(ctx context.Context, cartID, productID string, quantity float64) (models.Cart, error) {
	return s.linker.AddProductToCart(ctx, models.StringID(cartID), models.StringID(productID), quantity)
}
