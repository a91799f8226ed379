package response

import (
	"time"

	"streaming-catalog/internal/data/entity"
)

type ContentResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	PosterURL      string    `json:"posterUrl"`
	BackdropURL    string    `json:"backdropUrl"`
	VideoURL       string    `json:"videoUrl,omitempty"`
	Rating         float64   `json:"rating"`
	AgeLimit       int       `json:"ageLimit"`
	ReleaseYear    int       `json:"releaseYear"`
	Type           string    `json:"type"`
	FranchiseID    *string   `json:"franchiseId,omitempty"`
	FranchiseOrder *int      `json:"franchiseOrder,omitempty"`
	Genres         []string  `json:"genres"`
	CreatedAt      time.Time `json:"createdAt"`
}

type ContentDetailResponse struct {
	ContentResponse
	GenreList   []GenreResponse      `json:"genreList"`
	Collections []CollectionResponse `json:"collections"`
	Franchise   *FranchiseResponse   `json:"franchise,omitempty"`
	Episodes    []EpisodeResponse    `json:"episodes"`
	RatingCount int64                `json:"ratingCount"`
}

func ContentToResponse(content *entity.Content, genreNames []string) ContentResponse {
	if genreNames == nil {
		genreNames = []string{}
	}

	resp := ContentResponse{
		ID:             content.ID.String(),
		Title:          content.Title,
		Description:    content.Description,
		PosterURL:      content.PosterURL,
		BackdropURL:    content.BackdropURL,
		VideoURL:       content.VideoURL,
		Rating:         content.Rating,
		AgeLimit:       content.AgeLimit,
		ReleaseYear:    content.ReleaseYear,
		Type:           string(content.Type),
		FranchiseOrder: content.FranchiseOrder,
		Genres:         genreNames,
		CreatedAt:      content.CreatedAt,
	}

	if content.FranchiseID != nil {
		id := content.FranchiseID.String()
		resp.FranchiseID = &id
	}

	return resp
}

func ContentToDetailResponse(
	content *entity.Content,
	genres []*entity.Genre,
	collections []*entity.Collection,
	franchise *entity.Franchise,
	episodes []*entity.Episode,
	ratingCount int64,
) ContentDetailResponse {
	names := make([]string, len(genres))
	for i, g := range genres {
		names[i] = g.Name
	}

	detail := ContentDetailResponse{
		ContentResponse: ContentToResponse(content, names),
		GenreList:       GenresToResponse(genres),
		Collections:     CollectionsToResponse(collections),
		Episodes:        EpisodesToResponse(episodes),
		RatingCount:     ratingCount,
	}

	if franchise != nil {
		f := FranchiseToResponse(franchise)
		detail.Franchise = &f
	}

	return detail
}
