package request

// ContentRequest is the multipart body of POST /api/contents/create.
type ContentRequest struct {
	Title          string   `form:"title" validate:"required,max=200"`
	Description    string   `form:"description" validate:"max=4000"`
	ReleaseYear    int      `form:"releaseYear" validate:"required,gte=1888,lte=2100"`
	AgeLimit       int      `form:"ageLimit" validate:"gte=0,lte=21"`
	Rating         float64  `form:"rating" validate:"gte=0,lte=10"`
	Type           string   `form:"type" validate:"required"`
	FranchiseID    string   `form:"franchiseId" validate:"omitempty,uuid"`
	FranchiseOrder *int     `form:"franchiseOrder" validate:"omitempty,gte=1"`
	GenreIDs       []string `form:"genreIds"`
	CollectionIDs  []string `form:"collectionIds"`

	Poster   *File `form:"poster" validate:"required"`
	Backdrop *File `form:"backdrop" validate:"required"`
	Video    *File `form:"video"`
}

// ContentUpdateRequest is the multipart body of PUT /api/contents/update/{id}.
// Nil id lists leave the current links untouched; a present list replaces them.
type ContentUpdateRequest struct {
	Title          string    `form:"title" validate:"required,max=200"`
	Description    string    `form:"description" validate:"max=4000"`
	ReleaseYear    int       `form:"releaseYear" validate:"required,gte=1888,lte=2100"`
	AgeLimit       int       `form:"ageLimit" validate:"gte=0,lte=21"`
	Rating         float64   `form:"rating" validate:"gte=0,lte=10"`
	Type           string    `form:"type" validate:"required"`
	FranchiseID    string    `form:"franchiseId" validate:"omitempty,uuid"`
	FranchiseOrder *int      `form:"franchiseOrder" validate:"omitempty,gte=1"`
	GenreIDs       *[]string `form:"genreIds"`
	CollectionIDs  *[]string `form:"collectionIds"`

	Poster   *File `form:"poster"`
	Backdrop *File `form:"backdrop"`
	Video    *File `form:"video"`
}

type ContentQuery struct {
	PaginatedRequest
	Type         string `json:"type"`
	GenreID      string `json:"genreId" validate:"omitempty,uuid"`
	CollectionID string `json:"collectionId" validate:"omitempty,uuid"`
	FranchiseID  string `json:"franchiseId" validate:"omitempty,uuid"`
	Year         int    `json:"year" validate:"omitempty,gte=1888,lte=2100"`
	Search       string `json:"search" validate:"max=100"`
}
