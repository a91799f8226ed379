package response

import (
	"time"

	"streaming-catalog/internal/data/entity"
)

type RatingResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	ContentID string    `json:"contentId"`
	Score     int       `json:"score"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RatingSummary is returned after a rate call so clients can refresh the average in place.
type RatingSummary struct {
	Rating        RatingResponse `json:"rating"`
	AverageRating float64        `json:"averageRating"`
	RatingCount   int64          `json:"ratingCount"`
}

func RatingToResponse(rating *entity.Rating, username string) RatingResponse {
	return RatingResponse{
		ID:        rating.ID.String(),
		UserID:    rating.UserID.String(),
		Username:  username,
		ContentID: rating.ContentID.String(),
		Score:     rating.Score,
		Comment:   rating.Comment,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}
}
