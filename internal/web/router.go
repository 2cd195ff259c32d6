package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the HTTP surface of the storefront.
func NewRouter(products *ProductHandler, carts *CartHandler, notifications *NotificationsHandler, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.List)
			r.Get("/{id}", products.Get)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", carts.Get)
			r.Get("/count", carts.Count)
			r.Delete("/", carts.Clear)
			r.Post("/items", carts.AddItem)
			r.Put("/items/{id}", carts.UpdateQuantity)
			r.Delete("/items/{id}", carts.RemoveItem)
		})
		r.Get("/notifications", notifications.Drain)
	})

	return r
}
