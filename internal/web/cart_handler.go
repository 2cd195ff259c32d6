package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hami-market/storefront/internal/cart"
	"github.com/hami-market/storefront/internal/catalog"
	"github.com/hami-market/storefront/internal/domain"
)

// CartHandler renders cart state and forwards mutation requests to the
// engine. It holds no state of its own.
type CartHandler struct {
	engine  *cart.Engine
	catalog *catalog.Service
}

func NewCartHandler(engine *cart.Engine, svc *catalog.Service) *CartHandler {
	return &CartHandler{
		engine:  engine,
		catalog: svc,
	}
}

type AddItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	Items   []domain.CartItem `json:"items"`
	Summary domain.Summary    `json:"summary"`
}

type CartCountResponse struct {
	Count int `json:"count"`
}

// Get handles GET /api/v1/cart and returns the full cart view.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cartView())
}

// Count handles GET /api/v1/cart/count, the counter badge read.
func (h *CartHandler) Count(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, CartCountResponse{Count: h.engine.ItemCount()})
}

// AddItem handles POST /api/v1/cart/items. The catalog is consulted at
// add time; the cart keeps the snapshotted product data afterwards.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	product, err := h.catalog.Get(r.Context(), req.ProductID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		return
	}

	if err := h.engine.AddItem(r.Context(), *product, req.Quantity); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, h.cartView())
}

// UpdateQuantity handles PUT /api/v1/cart/items/{id}. A quantity of
// zero removes the line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return
	}

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must not exceed 99")
		return
	}

	h.engine.SetQuantity(r.Context(), productID, req.Quantity)
	respondJSON(w, http.StatusOK, h.cartView())
}

// RemoveItem handles DELETE /api/v1/cart/items/{id}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return
	}

	h.engine.RemoveItem(r.Context(), productID)
	respondJSON(w, http.StatusOK, h.cartView())
}

// Clear handles DELETE /api/v1/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.engine.Clear(r.Context())
	respondJSON(w, http.StatusOK, h.cartView())
}

func (h *CartHandler) cartView() CartResponse {
	items := h.engine.Items()
	if items == nil {
		items = []domain.CartItem{}
	}
	return CartResponse{
		Items:   items,
		Summary: h.engine.Summary(),
	}
}
