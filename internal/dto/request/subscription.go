package request

type PlanRequest struct {
	Name         string  `json:"name" validate:"required,max=100"`
	Price        float64 `json:"price" validate:"gte=0"`
	Quality      string  `json:"quality" validate:"required,oneof=SD HD FullHD 4K"`
	MaxDevices   int     `json:"maxDevices" validate:"required,gte=1,lte=20"`
	DurationDays int     `json:"durationDays" validate:"omitempty,gte=1,lte=3660"`
}

type SubscribeRequest struct {
	PlanID    string `json:"planId" validate:"required,uuid"`
	AutoRenew bool   `json:"autoRenew"`
}

type AssignSubscriptionRequest struct {
	UserID    string `json:"userId" validate:"required,uuid"`
	PlanID    string `json:"planId" validate:"required,uuid"`
	AutoRenew bool   `json:"autoRenew"`
}
