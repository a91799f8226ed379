package entity

import (
	"github.com/google/uuid"
)

type EpisodeStatus string

const (
	EpisodeStatusDraft     EpisodeStatus = "draft"
	EpisodeStatusPublished EpisodeStatus = "published"
)

type Episode struct {
	Base
	ContentID       uuid.UUID     `db:"content_id"`
	Number          int           `db:"number"`
	Title           string        `db:"title"`
	VideoURL        string        `db:"video_url"`
	DurationMinutes int           `db:"duration_minutes"`
	Status          EpisodeStatus `db:"status"`
}
