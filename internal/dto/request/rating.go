package request

type RateRequest struct {
	ContentID string  `json:"contentId" validate:"required,uuid"`
	Score     int     `json:"score" validate:"required,min=1,max=10"`
	Comment   *string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}
