package wire

import (
	"net/http"

	"streaming-catalog/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireCatalog mounts franchises, genres and collections, which share one route shape.
func wireCatalog(
	r chi.Router,
	handler *adaptor.Handler,
	auth, admin func(http.Handler) http.Handler,
) {
	r.Route("/api/franchises", func(r chi.Router) {
		r.Get("/get", handler.Franchise.GetAll)
		r.Get("/get-details/{id}", handler.Franchise.GetDetails)

		r.With(auth, admin).Post("/create", handler.Franchise.Create)
		r.With(auth, admin).Put("/update/{id}", handler.Franchise.Update)
		r.With(auth, admin).Delete("/delete/{id}", handler.Franchise.Delete)
	})

	r.Route("/api/genres", func(r chi.Router) {
		r.Get("/get", handler.Genre.GetAll)
		r.Get("/get/{id}", handler.Genre.GetByID)

		r.With(auth, admin).Post("/create", handler.Genre.Create)
		r.With(auth, admin).Put("/update/{id}", handler.Genre.Update)
		r.With(auth, admin).Delete("/delete/{id}", handler.Genre.Delete)
	})

	r.Route("/api/collections", func(r chi.Router) {
		r.Get("/get", handler.Collection.GetAll)
		r.Get("/get/{id}", handler.Collection.GetByID)

		r.With(auth, admin).Post("/create", handler.Collection.Create)
		r.With(auth, admin).Put("/update/{id}", handler.Collection.Update)
		r.With(auth, admin).Delete("/delete/{id}", handler.Collection.Delete)
	})
}
