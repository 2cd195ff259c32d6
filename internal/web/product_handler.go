package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hami-market/storefront/internal/catalog"
)

type ProductHandler struct {
	catalog *catalog.Service
}

func NewProductHandler(svc *catalog.Service) *ProductHandler {
	return &ProductHandler{catalog: svc}
}

type ProductsResponse struct {
	Products []ProductResponse `json:"products"`
	Count    int               `json:"count"`
}

type ProductResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Badge       string  `json:"badge,omitempty"`
}

// List handles GET /api/v1/products with optional search, category,
// max_price and sort query parameters.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := catalog.Query{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
		Sort:     r.URL.Query().Get("sort"),
	}

	if raw := r.URL.Query().Get("max_price"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil || maxPrice < 0 {
			respondError(w, http.StatusBadRequest, "invalid_max_price", "max_price must be a non-negative number")
			return
		}
		q.MaxPrice = maxPrice
	}

	products, err := h.catalog.Find(r.Context(), q)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load products")
		return
	}

	res := ProductsResponse{Products: make([]ProductResponse, len(products)), Count: len(products)}
	for i, p := range products {
		res.Products[i] = ProductResponse{
			ID:          p.ID,
			Name:        p.Name,
			Category:    p.Category,
			Price:       p.Price,
			Description: p.Description,
			Image:       p.Image,
			Badge:       p.Badge,
		}
	}

	respondJSON(w, http.StatusOK, res)
}

// Get handles GET /api/v1/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return
	}

	product, err := h.catalog.Get(r.Context(), id)
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		return
	}

	respondJSON(w, http.StatusOK, ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Category:    product.Category,
		Price:       product.Price,
		Description: product.Description,
		Image:       product.Image,
		Badge:       product.Badge,
	})
}
