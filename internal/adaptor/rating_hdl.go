package adaptor

import (
	"net/http"

	"streaming-catalog/internal/dto/request"
	"streaming-catalog/internal/usecase"
	"streaming-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RatingHandler struct {
	service usecase.RatingService
	log     *zap.Logger
}

func NewRatingHandler(service usecase.RatingService, log *zap.Logger) *RatingHandler {
	return &RatingHandler{
		service: service,
		log:     log.With(zap.String("handler", "rating")),
	}
}

// Rate handles POST /api/ratings/rate
func (h *RatingHandler) Rate(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.RateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	summary, err := h.service.Rate(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "rate content")
		return
	}

	utils.ResponseSuccess(w, "Rating saved", summary)
}

// GetByContent handles GET /api/ratings/get-by-content/{contentId}?page=1&perPage=10
func (h *RatingHandler) GetByContent(w http.ResponseWriter, r *http.Request) {
	req := pageQuery(r)

	ratings, err := h.service.GetByContent(r.Context(), chi.URLParam(r, "contentId"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "get ratings")
		return
	}

	utils.ResponseSuccess(w, "Ratings retrieved successfully", ratings)
}

// Delete handles DELETE /api/ratings/delete/{contentId}
func (h *RatingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "contentId")); err != nil {
		handleServiceError(w, h.log, err, "delete rating")
		return
	}

	utils.ResponseSuccess(w, "Rating deleted", nil)
}
