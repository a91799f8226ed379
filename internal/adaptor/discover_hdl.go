package adaptor

import (
	"net/http"

	"streaming-catalog/internal/usecase"
	"streaming-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type DiscoverHandler struct {
	service usecase.DiscoverService
	log     *zap.Logger
}

func NewDiscoverHandler(service usecase.DiscoverService, log *zap.Logger) *DiscoverHandler {
	return &DiscoverHandler{
		service: service,
		log:     log.With(zap.String("handler", "discover")),
	}
}

// List handles GET /api/discover/{list}?media=movie|tv&page=1
func (h *DiscoverHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	body, err := h.service.List(r.Context(), chi.URLParam(r, "list"), query.Get("media"), utils.ParseInt(query.Get("page"), 1))
	if err != nil {
		handleServiceError(w, h.log, err, "discover list")
		return
	}

	utils.ResponseSuccess(w, "Titles retrieved successfully", body)
}

// Search handles GET /api/discover/search?query=&media=&page=
func (h *DiscoverHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	body, err := h.service.Search(r.Context(), query.Get("media"), query.Get("query"), utils.ParseInt(query.Get("page"), 1))
	if err != nil {
		handleServiceError(w, h.log, err, "discover search")
		return
	}

	utils.ResponseSuccess(w, "Titles retrieved successfully", body)
}

// Details handles GET /api/discover/details/{media}/{id}
func (h *DiscoverHandler) Details(w http.ResponseWriter, r *http.Request) {
	body, err := h.service.Details(r.Context(), chi.URLParam(r, "media"), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "discover details")
		return
	}

	utils.ResponseSuccess(w, "Title retrieved successfully", body)
}
