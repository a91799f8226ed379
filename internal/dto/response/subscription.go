package response

import (
	"time"

	"streaming-catalog/internal/data/entity"
)

type PlanResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Quality      string  `json:"quality"`
	MaxDevices   int     `json:"maxDevices"`
	DurationDays int     `json:"durationDays"`
}

type SubscriptionResponse struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	Plan      *PlanResponse `json:"plan,omitempty"`
	StartDate time.Time     `json:"startDate"`
	EndDate   time.Time     `json:"endDate"`
	AutoRenew bool          `json:"autoRenew"`
	IsActive  bool          `json:"isActive"`
}

func PlanToResponse(plan *entity.SubscriptionPlan) PlanResponse {
	return PlanResponse{
		ID:           plan.ID.String(),
		Name:         plan.Name,
		Price:        plan.Price,
		Quality:      string(plan.Quality),
		MaxDevices:   plan.MaxDevices,
		DurationDays: plan.DurationDays,
	}
}

// SubscriptionToResponse evaluates activity at now; plan may be nil when it could not be loaded.
func SubscriptionToResponse(sub *entity.UserSubscription, plan *entity.SubscriptionPlan, now time.Time) SubscriptionResponse {
	resp := SubscriptionResponse{
		ID:        sub.ID.String(),
		UserID:    sub.UserID.String(),
		StartDate: sub.StartDate,
		EndDate:   sub.EndDate,
		AutoRenew: sub.AutoRenew,
		IsActive:  sub.IsActive(now),
	}

	if plan != nil {
		p := PlanToResponse(plan)
		resp.Plan = &p
	}

	return resp
}
