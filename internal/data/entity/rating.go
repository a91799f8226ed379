package entity

import (
	"github.com/google/uuid"
)

type Rating struct {
	Base
	UserID    uuid.UUID `db:"user_id"`
	ContentID uuid.UUID `db:"content_id"`
	Score     int       `db:"score"` // 1-10
	Comment   *string   `db:"comment"`
}
