package adaptor

import (
	"net/http"

	"streaming-catalog/internal/dto/request"
	"streaming-catalog/internal/usecase"
	"streaming-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type FranchiseHandler struct {
	service usecase.FranchiseService
	log     *zap.Logger
}

func NewFranchiseHandler(service usecase.FranchiseService, log *zap.Logger) *FranchiseHandler {
	return &FranchiseHandler{
		service: service,
		log:     log.With(zap.String("handler", "franchise")),
	}
}

// GetAll handles GET /api/franchises/get?page=1&perPage=10
func (h *FranchiseHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	req := pageQuery(r)

	franchises, err := h.service.GetAll(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "get franchises")
		return
	}

	utils.ResponseSuccess(w, "Franchises retrieved successfully", franchises)
}

// GetDetails handles GET /api/franchises/get-details/{id}
func (h *FranchiseHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	franchise, err := h.service.GetDetails(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get franchise details")
		return
	}

	utils.ResponseSuccess(w, "Franchise retrieved successfully", franchise)
}

// Create handles POST /api/franchises/create
func (h *FranchiseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.NameRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	franchise, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create franchise")
		return
	}

	utils.ResponseCreated(w, "Franchise created successfully", franchise)
}

// Update handles PUT /api/franchises/update/{id}
func (h *FranchiseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.NameRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	franchise, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update franchise")
		return
	}

	utils.ResponseSuccess(w, "Franchise updated successfully", franchise)
}

// Delete handles DELETE /api/franchises/delete/{id}
func (h *FranchiseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete franchise")
		return
	}

	utils.ResponseSuccess(w, "Franchise deleted successfully", nil)
}
