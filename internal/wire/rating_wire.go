package wire

import (
	"net/http"

	"streaming-catalog/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireRating(
	r chi.Router,
	ratingHandler *adaptor.RatingHandler,
	auth func(http.Handler) http.Handler,
) {
	r.Route("/api/ratings", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Get("/get-by-content/{contentId}", ratingHandler.GetByContent)

		// ==================== PROTECTED ROUTES ====================
		r.With(auth).Post("/rate", ratingHandler.Rate)
		r.With(auth).Delete("/delete/{contentId}", ratingHandler.Delete)
	})
}

// wireDiscover proxies the metadata provider; the token never leaves the server.
func wireDiscover(r chi.Router, discoverHandler *adaptor.DiscoverHandler) {
	r.Route("/api/discover", func(r chi.Router) {
		r.Get("/search", discoverHandler.Search)
		r.Get("/details/{media}/{id}", discoverHandler.Details)
		r.Get("/{list}", discoverHandler.List)
	})
}
