package adaptor

import (
	"net/http"

	"streaming-catalog/internal/dto/request"
	"streaming-catalog/internal/usecase"
	"streaming-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ContentHandler struct {
	service   usecase.ContentService
	maxUpload int64
	log       *zap.Logger
}

func NewContentHandler(service usecase.ContentService, maxUpload int64, log *zap.Logger) *ContentHandler {
	return &ContentHandler{
		service:   service,
		maxUpload: maxUpload,
		log:       log.With(zap.String("handler", "content")),
	}
}

// GetAll handles GET /api/contents/get?page=&perPage=&type=&genreId=&collectionId=&franchiseId=&year=&search=
func (h *ContentHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.ContentQuery{
		PaginatedRequest: pageQuery(r),
		Type:             query.Get("type"),
		GenreID:          query.Get("genreId"),
		CollectionID:     query.Get("collectionId"),
		FranchiseID:      query.Get("franchiseId"),
		Year:             utils.ParseInt(query.Get("year"), 0),
		Search:           query.Get("search"),
	}

	contents, err := h.service.GetAll(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get contents")
		return
	}

	utils.ResponseSuccess(w, "Contents retrieved successfully", contents)
}

// GetDetails handles GET /api/contents/get-details/{id}
func (h *ContentHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.GetDetails(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get content details")
		return
	}

	utils.ResponseSuccess(w, "Content retrieved successfully", details)
}

// Create handles POST /api/contents/create (multipart)
func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, ok := parseUploadForm(w, r, h.maxUpload)
	if !ok {
		return
	}
	defer form.close()

	req := request.ContentRequest{
		Title:          form.value("title"),
		Description:    form.value("description"),
		ReleaseYear:    form.number("releaseYear"),
		AgeLimit:       form.number("ageLimit"),
		Rating:         form.decimal("rating"),
		Type:           form.value("type"),
		FranchiseID:    form.value("franchiseId"),
		FranchiseOrder: form.optionalInt("franchiseOrder"),
		GenreIDs:       form.ids("genreIds"),
		CollectionIDs:  form.ids("collectionIds"),
	}
	if !form.openFiles(w, map[string]**request.File{
		"poster":   &req.Poster,
		"backdrop": &req.Backdrop,
		"video":    &req.Video,
	}) {
		return
	}

	id, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create content")
		return
	}

	utils.ResponseCreated(w, "Content created successfully", map[string]string{"id": id.String()})
}

// Update handles PUT /api/contents/update/{id} (multipart)
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	form, ok := parseUploadForm(w, r, h.maxUpload)
	if !ok {
		return
	}
	defer form.close()

	req := request.ContentUpdateRequest{
		Title:          form.value("title"),
		Description:    form.value("description"),
		ReleaseYear:    form.number("releaseYear"),
		AgeLimit:       form.number("ageLimit"),
		Rating:         form.decimal("rating"),
		Type:           form.value("type"),
		FranchiseID:    form.value("franchiseId"),
		FranchiseOrder: form.optionalInt("franchiseOrder"),
		GenreIDs:       form.presentIDs("genreIds"),
		CollectionIDs:  form.presentIDs("collectionIds"),
	}
	if !form.openFiles(w, map[string]**request.File{
		"poster":   &req.Poster,
		"backdrop": &req.Backdrop,
		"video":    &req.Video,
	}) {
		return
	}

	if err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &req); err != nil {
		handleServiceError(w, h.log, err, "update content")
		return
	}

	utils.ResponseSuccess(w, "Content updated successfully", nil)
}

// Delete handles DELETE /api/contents/delete/{id}
func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete content")
		return
	}

	utils.ResponseSuccess(w, "Content deleted successfully", nil)
}
