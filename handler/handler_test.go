package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "product-cart-store/model"
	"product-cart-store/service"
	"product-cart-store/store"
)

// ---- fakeService implementing service.ServiceInterface for tests ----
type fakeService struct {
	ListProductsFn     func(limit *int) ([]models.Product, error)
	GetProductFn       func(id string) (models.Product, error)
	CreateProductFn    func(in models.ProductInput) (models.Product, error)
	ReplaceProductFn   func(id string, in models.ProductInput) (models.Product, error)
	DeleteProductFn    func(id string) error
	CreateCartFn       func() (models.Cart, error)
	GetCartFn          func(id string) (models.Cart, error)
	AddProductToCartFn func(cartID, productID string, quantity float64) (models.Cart, error)
}

func (f *fakeService) ListProducts(ctx context.Context, limit *int) ([]models.Product, error) {
	return f.ListProductsFn(limit)
}
func (f *fakeService) GetProduct(ctx context.Context, id string) (models.Product, error) {
	return f.GetProductFn(id)
}
func (f *fakeService) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	return f.CreateProductFn(in)
}
func (f *fakeService) ReplaceProduct(ctx context.Context, id string, in models.ProductInput) (models.Product, error) {
	return f.ReplaceProductFn(id, in)
}
func (f *fakeService) DeleteProduct(ctx context.Context, id string) error { return f.DeleteProductFn(id) }
func (f *fakeService) CreateCart(ctx context.Context) (models.Cart, error) {
	return f.CreateCartFn()
}
func (f *fakeService) GetCart(ctx context.Context, id string) (models.Cart, error) {
	return f.GetCartFn(id)
}
func (f *fakeService) AddProductToCart(ctx context.Context, cartID, productID string, quantity float64) (models.Cart, error) {
	return f.AddProductToCartFn(cartID, productID, quantity)
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp["error"]
}

// ---- Tests ----

func TestListProducts_LimitParsing(t *testing.T) {
	var gotLimit *int
	h := NewRouter(NewHandler(&fakeService{
		ListProductsFn: func(limit *int) ([]models.Product, error) {
			gotLimit = limit
			return []models.Product{}, nil
		},
	}, nil, 0), nil)

	rec := do(t, h, "GET", "/products?limit=2", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotLimit)
	assert.Equal(t, 2, *gotLimit)

	rec = do(t, h, "GET", "/products", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, gotLimit)
	assert.JSONEq(t, `[]`, rec.Body.String())

	cases := map[string]int{"abc": 0, "0": 0, "-3": -3}
	for raw, want := range cases {
		rec = do(t, h, "GET", "/products?limit="+raw, nil)
		assert.Equal(t, http.StatusOK, rec.Code, "limit=%s", raw)
		require.NotNil(t, gotLimit, "limit=%s", raw)
		assert.Equal(t, want, *gotLimit, "limit=%s", raw)
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"product missing", service.ErrProductNotFound, http.StatusNotFound, "product not found"},
		{"cart missing", service.ErrCartNotFound, http.StatusNotFound, "cart not found"},
		{"validation", &service.ValidationError{Fields: []string{"title"}}, http.StatusBadRequest, "missing required fields: title"},
		{"storage", &store.StorageError{Collection: "products", Op: "read", Err: errors.New("io")}, http.StatusInternalServerError, "failed to get product"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewRouter(NewHandler(&fakeService{
				GetProductFn: func(string) (models.Product, error) { return models.Product{}, tc.err },
			}, nil, 0), nil)

			rec := do(t, h, "GET", "/products/1", nil)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.msg, errorBody(t, rec))
		})
	}
}

func TestCreateProduct_InvalidJSON(t *testing.T) {
	called := false
	h := NewRouter(NewHandler(&fakeService{
		CreateProductFn: func(models.ProductInput) (models.Product, error) {
			called = true
			return models.Product{}, nil
		},
	}, nil, 0), nil)

	rec := do(t, h, "POST", "/products", "{broken")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid json", errorBody(t, rec))
	assert.False(t, called)
}

func TestCreateProduct_BodyTooLarge(t *testing.T) {
	h := NewRouter(NewHandler(&fakeService{}, nil, 16), nil)

	rec := do(t, h, "POST", "/products", map[string]string{"title": "a very long title that overflows the limit"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddProductToCart_MissingQuantityAddsZero(t *testing.T) {
	var gotQty float64 = -1
	h := NewRouter(NewHandler(&fakeService{
		AddProductToCartFn: func(cartID, productID string, quantity float64) (models.Cart, error) {
			gotQty = quantity
			return models.NewCart(), nil
		},
	}, nil, 0), nil)

	rec := do(t, h, "POST", "/carts/1/product/1", map[string]string{})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0.0, gotQty)

	gotQty = -1
	rec = do(t, h, "POST", "/carts/1/product/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0.0, gotQty)

	rec = do(t, h, "POST", "/carts/1/product/1", "{broken")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddProductToCart_ForwardsPathAndQuantity(t *testing.T) {
	var gotCart, gotProduct string
	var gotQty float64
	h := NewRouter(NewHandler(&fakeService{
		AddProductToCartFn: func(cartID, productID string, quantity float64) (models.Cart, error) {
			gotCart, gotProduct, gotQty = cartID, productID, quantity
			return models.NewCart(), nil
		},
	}, nil, 0), nil)

	rec := do(t, h, "POST", "/carts/482913/product/7", map[string]float64{"quantity": 2.5})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "482913", gotCart)
	assert.Equal(t, "7", gotProduct)
	assert.Equal(t, 2.5, gotQty)
}

func TestRequestIDHeader(t *testing.T) {
	h := NewRouter(NewHandler(&fakeService{}, nil, 0), nil)

	rec := do(t, h, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestPanicIsRecovered(t *testing.T) {
	h := NewRouter(NewHandler(&fakeService{
		CreateCartFn: func() (models.Cart, error) { panic("boom") },
	}, nil, 0), nil)

	rec := do(t, h, "POST", "/carts", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestEndToEnd_WidgetScenario(t *testing.T) {
	dir := t.TempDir()
	products, carts := service.NewCollections(
		store.NewFileBackend(filepath.Join(dir, "products.json")),
		store.NewFileBackend(filepath.Join(dir, "carts.json")),
		nil,
	)
	svc := service.NewService(products, carts)
	require.NoError(t, svc.EnsureExists(context.Background()))
	h := NewRouter(NewHandler(svc, nil, 1<<20), nil)

	rec := do(t, h, "POST", "/products", map[string]interface{}{
		"title": "Widget", "description": "d", "code": "W1", "price": 10, "stock": 5, "category": "tools",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"id":1,"title":"Widget","description":"d","code":"W1","price":10,"stock":5,"category":"tools","status":true,"thumbnails":[]}`, rec.Body.String())

	rec = do(t, h, "POST", "/products", map[string]interface{}{"title": "No price"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, "GET", "/products?limit=0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, "POST", "/carts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cart struct {
		ID       string            `json:"id"`
		Products []json.RawMessage `json:"products"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cart))
	assert.NotEmpty(t, cart.ID)
	assert.LessOrEqual(t, len(cart.ID), 6)
	assert.NotNil(t, cart.Products)
	assert.Empty(t, cart.Products)

	rec = do(t, h, "POST", "/carts/"+cart.ID+"/product/1", map[string]int{"quantity": 3})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"`+cart.ID+`","products":[{"product":"1","title":"Widget","quantity":3}]}`, rec.Body.String())

	rec = do(t, h, "POST", "/carts/"+cart.ID+"/product/1", map[string]int{"quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, "GET", "/carts/"+cart.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"product":"1","title":"Widget","quantity":5}]`, rec.Body.String())

	rec = do(t, h, "POST", "/carts/"+cart.ID+"/product/99", map[string]int{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "product not found", errorBody(t, rec))

	rec = do(t, h, "GET", "/carts/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "cart not found", errorBody(t, rec))

	rec = do(t, h, "PUT", "/products/1", map[string]interface{}{"id": 50, "title": "Gadget", "price": 12})
	require.Equal(t, http.StatusOK, rec.Code)
	var replaced models.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&replaced))
	assert.Equal(t, models.IntID(1), replaced.ID)
	assert.Equal(t, "Gadget", replaced.Title)

	rec = do(t, h, "DELETE", "/products/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"product deleted"}`, rec.Body.String())

	rec = do(t, h, "GET", "/products/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, h, "DELETE", "/products/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
