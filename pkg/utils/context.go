package utils

import (
	"context"
	"slices"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UserNameKey contextKey = "user_name"
	RolesKey    contextKey = "roles"
)

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

func GetUserNameFromContext(ctx context.Context) string {
	name, _ := ctx.Value(UserNameKey).(string)
	return name
}

func GetRolesFromContext(ctx context.Context) []string {
	roles, _ := ctx.Value(RolesKey).([]string)
	return roles
}

// HasRole reports whether the authenticated caller carries role.
func HasRole(ctx context.Context, role string) bool {
	return slices.Contains(GetRolesFromContext(ctx), role)
}

func SetUserContext(ctx context.Context, userID uuid.UUID, name string, roles []string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, UserNameKey, name)
	ctx = context.WithValue(ctx, RolesKey, roles)
	return ctx
}
