package adaptor

import (
	"net/http"

	"streaming-catalog/internal/dto/request"
	"streaming-catalog/internal/usecase"
	"streaming-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CollectionHandler struct {
	service usecase.CollectionService
	log     *zap.Logger
}

func NewCollectionHandler(service usecase.CollectionService, log *zap.Logger) *CollectionHandler {
	return &CollectionHandler{
		service: service,
		log:     log.With(zap.String("handler", "collection")),
	}
}

// GetAll handles GET /api/collections/get
func (h *CollectionHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	collections, err := h.service.GetAll(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get collections")
		return
	}

	utils.ResponseSuccess(w, "Collections retrieved successfully", collections)
}

// GetByID handles GET /api/collections/get/{id}
func (h *CollectionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	collection, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get collection")
		return
	}

	utils.ResponseSuccess(w, "Collection retrieved successfully", collection)
}

// Create handles POST /api/collections/create
func (h *CollectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.NameRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	collection, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create collection")
		return
	}

	utils.ResponseCreated(w, "Collection created successfully", collection)
}

// Update handles PUT /api/collections/update/{id}
func (h *CollectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.NameRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	collection, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update collection")
		return
	}

	utils.ResponseSuccess(w, "Collection updated successfully", collection)
}

// Delete handles DELETE /api/collections/delete/{id}
func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete collection")
		return
	}

	utils.ResponseSuccess(w, "Collection deleted successfully", nil)
}
