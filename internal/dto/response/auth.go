package response

import (
	"time"

	"streaming-catalog/internal/data/entity"
)

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

type UserResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	DateOfBirth *string    `json:"dateOfBirth,omitempty"`
	AvatarURL   string     `json:"avatarUrl"`
	Roles       []string   `json:"roles"`
	LockoutEnd  *time.Time `json:"lockoutEnd,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Helper converters
func UserToResponse(user *entity.User, roles []string) UserResponse {
	if roles == nil {
		roles = []string{}
	}

	resp := UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
		Roles:     roles,
		CreatedAt: user.CreatedAt,
	}

	if user.DateOfBirth != nil {
		dob := user.DateOfBirth.Format("2006-01-02")
		resp.DateOfBirth = &dob
	}
	if user.IsLockedOut(time.Now()) {
		resp.LockoutEnd = user.LockoutEnd
	}

	return resp
}

func AuthToResponse(user *entity.User, roles []string, token string, expiresAt time.Time) AuthResponse {
	return AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      UserToResponse(user, roles),
	}
}
