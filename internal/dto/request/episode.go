package request

type EpisodeRequest struct {
	ContentID       string `form:"contentId" validate:"required,uuid"`
	Number          int    `form:"number" validate:"required,gte=1"`
	Title           string `form:"title" validate:"required,max=200"`
	DurationMinutes int    `form:"durationMinutes" validate:"gte=0,lte=1000"`
	Status          string `form:"status" validate:"omitempty,oneof=draft published Draft Published"`
	Video           *File  `form:"video"`
}

type EpisodeUpdateRequest struct {
	Number          int    `form:"number" validate:"required,gte=1"`
	Title           string `form:"title" validate:"required,max=200"`
	DurationMinutes int    `form:"durationMinutes" validate:"gte=0,lte=1000"`
	Status          string `form:"status" validate:"omitempty,oneof=draft published Draft Published"`
	Video           *File  `form:"video"`
}
