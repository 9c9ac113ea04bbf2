package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	models "product-cart-store/model"
	"product-cart-store/service"
)

// Handler is the HTTP layer that talks to service.Service
type Handler struct {
	svc     service.ServiceInterface
	logger  *zap.Logger
	maxBody int64
}

// NewHandler returns a Handler instance
func NewHandler(s service.ServiceInterface, logger *zap.Logger, maxBody int64) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: s, logger: logger, maxBody: maxBody}
}

// RegisterRoutes registers all routes on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods("GET")

	// Products
	r.HandleFunc("/products", h.ListProducts).Methods("GET")
	r.HandleFunc("/products", h.CreateProduct).Methods("POST")
	r.HandleFunc("/products/{id}", h.GetProduct).Methods("GET")
	r.HandleFunc("/products/{id}", h.ReplaceProduct).Methods("PUT")
	r.HandleFunc("/products/{id}", h.DeleteProduct).Methods("DELETE")

	// Carts
	r.HandleFunc("/carts", h.CreateCart).Methods("POST")
	r.HandleFunc("/carts/{cid}", h.GetCart).Methods("GET")
	r.HandleFunc("/carts/{cid}/product/{pid}", h.AddProductToCart).Methods("POST")
}

// --- request / response shapes ---
type addProductReq struct {
	Quantity float64 `json:"quantity"`
}

// --- helpers ---
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	return h.decodeBody(w, r, v, false)
}

// decodeBody reads a JSON body into v. With allowEmpty an empty body leaves
// v untouched.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}, allowEmpty bool) bool {
	body := r.Body
	if h.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}
	err := json.NewDecoder(body).Decode(v)
	if allowEmpty && errors.Is(err, io.EOF) {
		return true
	}
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// fail maps service errors to status codes. Anything unknown is a storage
// failure: logged, answered with a generic message.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		writeErr(w, http.StatusNotFound, "product not found")
	case errors.Is(err, service.ErrCartNotFound):
		writeErr(w, http.StatusNotFound, "cart not found")
	case errors.As(err, &verr):
		writeErr(w, http.StatusBadRequest, verr.Error())
	default:
		h.logger.Error(msg,
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.Error(err),
		)
		writeErr(w, http.StatusInternalServerError, msg)
	}
}

// --- Handler ---

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListProducts handles GET /products?limit=N
// A limit that is not an integer selects nothing.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var limit *int
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, _ := strconv.Atoi(raw)
		limit = &n
	}

	ps, err := h.svc.ListProducts(r.Context(), limit)
	if err != nil {
		h.fail(w, r, err, "failed to list products")
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

// GetProduct handles GET /products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err, "failed to get product")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreateProduct handles POST /products
// body: { "title": "...", "description": "...", "code": "...", "price": 10, "stock": 5, "category": "...", "status"?: true, "thumbnails"?: [] }
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.ProductInput
	if !h.decode(w, r, &req) {
		return
	}
	p, err := h.svc.CreateProduct(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, "failed to create product")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ReplaceProduct handles PUT /products/{id}
func (h *Handler) ReplaceProduct(w http.ResponseWriter, r *http.Request) {
	var req models.ProductInput
	if !h.decode(w, r, &req) {
		return
	}
	p, err := h.svc.ReplaceProduct(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		h.fail(w, r, err, "failed to update product")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProduct handles DELETE /products/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProduct(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err, "failed to delete product")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// CreateCart handles POST /carts
func (h *Handler) CreateCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.CreateCart(r.Context())
	if err != nil {
		h.fail(w, r, err, "failed to create cart")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// GetCart handles GET /carts/{cid} and answers with the cart's line-items.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCart(r.Context(), mux.Vars(r)["cid"])
	if err != nil {
		h.fail(w, r, err, "failed to get cart")
		return
	}
	writeJSON(w, http.StatusOK, c.Items())
}

// AddProductToCart handles POST /carts/{cid}/product/{pid}
// body: { "quantity": 3 }, a missing quantity adds 0
func (h *Handler) AddProductToCart(w http.ResponseWriter, r *http.Request) {
	var req addProductReq
	if !h.decodeBody(w, r, &req, true) {
		return
	}
	vars := mux.Vars(r)
	c, err := h.svc.AddProductToCart(r.Context(), vars["cid"], vars["pid"], req.Quantity)
	if err != nil {
		h.fail(w, r, err, "failed to add product to cart")
		return
	}
	writeJSON(w, http.StatusOK, c)
}
