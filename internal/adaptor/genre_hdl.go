package adaptor

import (
	"net/http"

	"streaming-catalog/internal/dto/request"
	"streaming-catalog/internal/usecase"
	"streaming-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type GenreHandler struct {
	service usecase.GenreService
	log     *zap.Logger
}

func NewGenreHandler(service usecase.GenreService, log *zap.Logger) *GenreHandler {
	return &GenreHandler{
		service: service,
		log:     log.With(zap.String("handler", "genre")),
	}
}

// GetAll handles GET /api/genres/get
func (h *GenreHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	genres, err := h.service.GetAll(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get genres")
		return
	}

	utils.ResponseSuccess(w, "Genres retrieved successfully", genres)
}

// GetByID handles GET /api/genres/get/{id}
func (h *GenreHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	genre, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get genre")
		return
	}

	utils.ResponseSuccess(w, "Genre retrieved successfully", genre)
}

// Create handles POST /api/genres/create
func (h *GenreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.NameRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	genre, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create genre")
		return
	}

	utils.ResponseCreated(w, "Genre created successfully", genre)
}

// Update handles PUT /api/genres/update/{id}
func (h *GenreHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.NameRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	genre, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update genre")
		return
	}

	utils.ResponseSuccess(w, "Genre updated successfully", genre)
}

// Delete handles DELETE /api/genres/delete/{id}
func (h *GenreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete genre")
		return
	}

	utils.ResponseSuccess(w, "Genre deleted successfully", nil)
}
