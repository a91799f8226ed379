package wire

import (
	"net/http"

	"streaming-catalog/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireContent(
	r chi.Router,
	contentHandler *adaptor.ContentHandler,
	auth, admin func(http.Handler) http.Handler,
) {
	r.Route("/api/contents", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Get("/get", contentHandler.GetAll)
		r.Get("/get-details/{id}", contentHandler.GetDetails)

		// ==================== ADMIN ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(auth, admin)
			r.Post("/create", contentHandler.Create)
			r.Put("/update/{id}", contentHandler.Update)
			r.Delete("/delete/{id}", contentHandler.Delete)
		})
	})
}

func wireEpisode(
	r chi.Router,
	episodeHandler *adaptor.EpisodeHandler,
	auth, admin func(http.Handler) http.Handler,
) {
	r.Route("/api/episodes", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Get("/get-by-content/{contentId}", episodeHandler.GetByContent)
		r.Get("/get/{id}", episodeHandler.GetByID)

		// ==================== ADMIN ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(auth, admin)
			r.Post("/add", episodeHandler.Add)
			r.Put("/update/{id}", episodeHandler.Update)
			r.Delete("/delete/{id}", episodeHandler.Delete)
		})
	})
}
