package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Routes wires the dashboard endpoints onto a chi router
func (h *Handlers) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", h.HandleIndex)
	r.Get("/health", h.HandleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", h.HandleSearch)
		r.Post("/weather", h.HandleWeather)
		r.Get("/view", h.HandleView)
		r.Post("/unit/toggle", h.HandleToggleUnit)

		r.Get("/favorites", h.HandleListFavorites)
		r.Post("/favorites", h.HandleAddFavorite)
		r.Post("/favorites/toggle", h.HandleToggleFavorite)
		r.Delete("/favorites/{name}", h.HandleRemoveFavorite)
	})

	return r
}

// RequestID tags each request with an X-Request-ID, keeping one supplied by the client
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
			r.Header.Set("X-Request-ID", reqID)
		}
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r)
	})
}
