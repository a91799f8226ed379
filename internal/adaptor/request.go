package adaptor

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"streaming-catalog/internal/dto/request"
	"streaming-catalog/pkg/utils"
)

// multipart parts above this stay on disk instead of memory
const formMemory = 32 << 20

// decodeJSON reads the body into dst, answering 400 itself when it cannot.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

func pageQuery(r *http.Request) request.PaginatedRequest {
	query := r.URL.Query()
	perPage := query.Get("perPage")
	if perPage == "" {
		perPage = query.Get("per_page")
	}
	return request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(perPage, 10),
	}
}

// uploadForm is a parsed multipart request whose files must be released with close.
type uploadForm struct {
	form  *multipart.Form
	files []multipart.File
}

// parseUploadForm caps the body at maxBytes and parses it; it writes the error response on failure.
func parseUploadForm(w http.ResponseWriter, r *http.Request, maxBytes int64) (*uploadForm, bool) {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	if err := r.ParseMultipartForm(formMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.ResponseTooLarge(w, "Upload exceeds the size limit of "+strconv.FormatInt(tooLarge.Limit>>20, 10)+" MB")
			return nil, false
		}
		utils.ResponseBadRequest(w, "Expected a multipart/form-data body", nil)
		return nil, false
	}

	return &uploadForm{form: r.MultipartForm}, true
}

func (f *uploadForm) close() {
	for _, file := range f.files {
		file.Close()
	}
	f.form.RemoveAll()
}

func (f *uploadForm) value(field string) string {
	if values := f.form.Value[field]; len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

func (f *uploadForm) number(field string) int {
	return utils.ParseInt(f.value(field), 0)
}

func (f *uploadForm) decimal(field string) float64 {
	n, err := strconv.ParseFloat(f.value(field), 64)
	if err != nil {
		return 0
	}
	return n
}

func (f *uploadForm) optionalInt(field string) *int {
	raw := f.value(field)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		// negative numbers fail validation downstream
		n = -1
	}
	return &n
}

// ids accepts repeated fields and comma separated lists alike.
func (f *uploadForm) ids(field string) []string {
	var ids []string
	for _, value := range f.form.Value[field] {
		for _, id := range strings.Split(value, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// presentIDs is nil when the field was not sent at all, so updates can keep existing links.
func (f *uploadForm) presentIDs(field string) *[]string {
	if _, ok := f.form.Value[field]; !ok {
		return nil
	}
	ids := f.ids(field)
	if ids == nil {
		ids = []string{}
	}
	return &ids
}

// file opens the first part named field, or returns nil when there is none.
func (f *uploadForm) file(field string) (*request.File, error) {
	headers := f.form.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	header := headers[0]

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	f.files = append(f.files, file)

	return &request.File{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	}, nil
}

// openFiles opens several parts at once, answering 400 when one cannot be read.
func (f *uploadForm) openFiles(w http.ResponseWriter, targets map[string]**request.File) bool {
	for field, target := range targets {
		file, err := f.file(field)
		if err != nil {
			utils.ResponseBadRequest(w, "Could not read uploaded file", map[string]string{field: err.Error()})
			return false
		}
		*target = file
	}
	return true
}
