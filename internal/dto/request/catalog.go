package request

// NameRequest is the body shared by genres, collections and franchises.
type NameRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}
