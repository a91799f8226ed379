package entity

import (
	"time"
)

const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

type User struct {
	Base
	Username          string     `db:"username"`
	Email             string     `db:"email"`
	PasswordHash      string     `db:"password"`
	DateOfBirth       *time.Time `db:"date_of_birth"`
	AvatarURL         string     `db:"avatar_url"`
	AccessFailedCount int        `db:"access_failed_count"`
	LockoutEnd        *time.Time `db:"lockout_end"`
}

// IsLockedOut reports whether the account is locked at the given instant.
func (u *User) IsLockedOut(now time.Time) bool {
	return u.LockoutEnd != nil && u.LockoutEnd.After(now)
}

type Role struct {
	BaseSimple
	Name string `db:"name"`
}
