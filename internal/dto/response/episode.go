package response

import (
	"streaming-catalog/internal/data/entity"
)

type EpisodeResponse struct {
	ID              string `json:"id"`
	ContentID       string `json:"contentId"`
	Number          int    `json:"number"`
	Title           string `json:"title"`
	VideoURL        string `json:"videoUrl,omitempty"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`
}

func EpisodeToResponse(episode *entity.Episode) EpisodeResponse {
	return EpisodeResponse{
		ID:              episode.ID.String(),
		ContentID:       episode.ContentID.String(),
		Number:          episode.Number,
		Title:           episode.Title,
		VideoURL:        episode.VideoURL,
		DurationMinutes: episode.DurationMinutes,
		Status:          string(episode.Status),
	}
}

func EpisodesToResponse(episodes []*entity.Episode) []EpisodeResponse {
	out := make([]EpisodeResponse, len(episodes))
	for i, e := range episodes {
		out[i] = EpisodeToResponse(e)
	}
	return out
}
