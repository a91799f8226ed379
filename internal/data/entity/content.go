package entity

import (
	"strings"

	"github.com/google/uuid"
)

type ContentType string

const (
	ContentTypeMovie  ContentType = "movie"
	ContentTypeSeries ContentType = "series"
)

// ParseContentType accepts the enum names case-insensitively ("Movie", "series").
func ParseContentType(value string) (ContentType, bool) {
	switch ContentType(strings.ToLower(strings.TrimSpace(value))) {
	case ContentTypeMovie:
		return ContentTypeMovie, true
	case ContentTypeSeries:
		return ContentTypeSeries, true
	}
	return "", false
}

type Content struct {
	Base
	Title          string      `db:"title"`
	Description    string      `db:"description"`
	PosterURL      string      `db:"poster_url"`
	BackdropURL    string      `db:"backdrop_url"`
	VideoURL       string      `db:"video_url"`
	Rating         float64     `db:"rating"`
	AgeLimit       int         `db:"age_limit"`
	ReleaseYear    int         `db:"release_year"`
	Type           ContentType `db:"type"`
	FranchiseID    *uuid.UUID  `db:"franchise_id"`
	FranchiseOrder *int        `db:"franchise_order"`
}

// ContentFilter narrows catalog listings; zero values mean "no filter".
type ContentFilter struct {
	Type         ContentType
	GenreID      *uuid.UUID
	CollectionID *uuid.UUID
	FranchiseID  *uuid.UUID
	ReleaseYear  int
	Search       string
}
