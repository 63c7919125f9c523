package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func NewRouter(h *Handler, logger zerolog.Logger, sessionTTL time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(UserID)

		r.Get("/categories", h.ListCategories)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Get("/{productId}", h.GetProduct)
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", h.ListIngredients)
			r.Post("/", h.CreateIngredient)
			r.Get("/{ingredientId}", h.GetIngredient)
			r.Put("/{ingredientId}", h.UpdateIngredient)
			r.Delete("/{ingredientId}", h.DeleteIngredient)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(RequireUser)
			r.Use(Session(sessionTTL))
			r.Get("/", h.ViewCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddItem)
			r.Post("/checkout", h.Checkout)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(RequireUser)
			r.Get("/", h.ListOrders)
			r.Get("/{orderId}", h.GetOrder)
		})
	})

	return r
}
