package adaptor

import (
	"net/http"

	"streaming-catalog/internal/dto/request"
	"streaming-catalog/internal/usecase"
	"streaming-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type EpisodeHandler struct {
	service   usecase.EpisodeService
	maxUpload int64
	log       *zap.Logger
}

func NewEpisodeHandler(service usecase.EpisodeService, maxUpload int64, log *zap.Logger) *EpisodeHandler {
	return &EpisodeHandler{
		service:   service,
		maxUpload: maxUpload,
		log:       log.With(zap.String("handler", "episode")),
	}
}

// GetByContent handles GET /api/episodes/get-by-content/{contentId}
func (h *EpisodeHandler) GetByContent(w http.ResponseWriter, r *http.Request) {
	episodes, err := h.service.GetByContent(r.Context(), chi.URLParam(r, "contentId"))
	if err != nil {
		handleServiceError(w, h.log, err, "get episodes")
		return
	}

	utils.ResponseSuccess(w, "Episodes retrieved successfully", episodes)
}

// GetByID handles GET /api/episodes/get/{id}
func (h *EpisodeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	episode, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get episode")
		return
	}

	utils.ResponseSuccess(w, "Episode retrieved successfully", episode)
}

// Add handles POST /api/episodes/add (multipart, optional "video")
func (h *EpisodeHandler) Add(w http.ResponseWriter, r *http.Request) {
	form, ok := parseUploadForm(w, r, h.maxUpload)
	if !ok {
		return
	}
	defer form.close()

	req := request.EpisodeRequest{
		ContentID:       form.value("contentId"),
		Number:          form.number("number"),
		Title:           form.value("title"),
		DurationMinutes: form.number("durationMinutes"),
		Status:          form.value("status"),
	}
	if !form.openFiles(w, map[string]**request.File{"video": &req.Video}) {
		return
	}

	episode, err := h.service.Add(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "add episode")
		return
	}

	utils.ResponseCreated(w, "Episode added successfully", episode)
}

// Update handles PUT /api/episodes/update/{id} (multipart)
func (h *EpisodeHandler) Update(w http.ResponseWriter, r *http.Request) {
	form, ok := parseUploadForm(w, r, h.maxUpload)
	if !ok {
		return
	}
	defer form.close()

	req := request.EpisodeUpdateRequest{
		Number:          form.number("number"),
		Title:           form.value("title"),
		DurationMinutes: form.number("durationMinutes"),
		Status:          form.value("status"),
	}
	if !form.openFiles(w, map[string]**request.File{"video": &req.Video}) {
		return
	}

	episode, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update episode")
		return
	}

	utils.ResponseSuccess(w, "Episode updated successfully", episode)
}

// Delete handles DELETE /api/episodes/delete/{id}
func (h *EpisodeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete episode")
		return
	}

	utils.ResponseSuccess(w, "Episode deleted successfully", nil)
}
