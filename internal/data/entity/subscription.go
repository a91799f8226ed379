package entity

import (
	"time"

	"github.com/google/uuid"
)

type VideoQuality string

const (
	QualitySD     VideoQuality = "SD"
	QualityHD     VideoQuality = "HD"
	QualityFullHD VideoQuality = "FullHD"
	Quality4K     VideoQuality = "4K"
)

type SubscriptionPlan struct {
	Base
	Name         string       `db:"name"`
	Price        float64      `db:"price"`
	Quality      VideoQuality `db:"quality"`
	MaxDevices   int          `db:"max_devices"`
	DurationDays int          `db:"duration_days"`
}

type UserSubscription struct {
	Base
	UserID    uuid.UUID `db:"user_id"`
	PlanID    uuid.UUID `db:"plan_id"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	AutoRenew bool      `db:"auto_renew"`
}

// IsActive reports whether now falls inside [StartDate, EndDate).
func (s *UserSubscription) IsActive(now time.Time) bool {
	return !now.Before(s.StartDate) && now.Before(s.EndDate)
}
