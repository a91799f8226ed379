package usecase

import (
	"context"
	"strings"
	"testing"

	"streaming-catalog/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Profile(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	neo := h.userID(t, "neo")
	h.userID(t, "trinity")

	profile, err := h.svc.User.UpdateProfile(ctx, neo, &request.UpdateProfileRequest{Username: "theone", DateOfBirth: "1971-09-13"})
	require.NoError(t, err)
	assert.Equal(t, "theone", profile.Username)

	_, err = h.svc.User.UpdateProfile(ctx, neo, &request.UpdateProfileRequest{Username: "trinity"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")

	_, err = h.svc.User.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_ChangePassword(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	neo := h.userID(t, "neo")

	err := h.svc.User.ChangePassword(ctx, neo, &request.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "brandnew"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "currentPassword")

	require.NoError(t, h.svc.User.ChangePassword(ctx, neo, &request.ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "brandnew"}))
	_, err = h.svc.Auth.Login(ctx, &request.LoginRequest{Email: "neo@example.com", Password: "brandnew"})
	assert.NoError(t, err)
}

func TestUserService_ChangePasswordRejectsOverlongPassword(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	neo := h.userID(t, "neo")

	for _, password := range []string{strings.Repeat("a", 73), strings.Repeat("é", 40)} {
		err := h.svc.User.ChangePassword(ctx, neo, &request.ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: password})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "newPassword")
	}

	_, err := h.svc.Auth.Login(ctx, &request.LoginRequest{Email: "neo@example.com", Password: "secret1"})
	assert.NoError(t, err, "the old password still works")
}

func TestUserService_AvatarReplacesOldFile(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	neo := h.userID(t, "neo")

	first, err := h.svc.User.UploadAvatar(ctx, neo, &request.AvatarRequest{Avatar: file("me.png")})
	require.NoError(t, err)
	assert.True(t, h.store.has(first.AvatarURL))

	second, err := h.svc.User.UploadAvatar(ctx, neo, &request.AvatarRequest{Avatar: file("me2.png")})
	require.NoError(t, err)
	assert.False(t, h.store.has(first.AvatarURL))
	assert.True(t, h.store.has(second.AvatarURL))

	require.NoError(t, h.svc.User.DeleteUser(ctx, neo.String()))
	assert.Zero(t, h.store.count())
}

func TestUserService_AdminOperations(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	neo := h.userID(t, "neo").String()
	h.userID(t, "smith")

	require.NoError(t, h.svc.User.AssignRole(ctx, neo, &request.AssignRoleRequest{Role: "Admin"}))
	user, err := h.svc.User.GetUser(ctx, neo)
	require.NoError(t, err)
	assert.Equal(t, []string{"Admin", "User"}, user.Roles)

	require.NoError(t, h.svc.User.RemoveRole(ctx, neo, "Admin"))
	assert.ErrorIs(t, h.svc.User.RemoveRole(ctx, neo, "Admin"), ErrNotFound)
	assert.ErrorIs(t, h.svc.User.RemoveRole(ctx, neo, "Wizard"), ErrNotFound)

	require.NoError(t, h.svc.User.LockUser(ctx, neo, &request.LockUserRequest{Minutes: 60}))
	_, err = h.svc.Auth.Login(ctx, &request.LoginRequest{Email: "neo@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrLockedOut)

	require.NoError(t, h.svc.User.UnlockUser(ctx, neo))
	_, err = h.svc.Auth.Login(ctx, &request.LoginRequest{Email: "neo@example.com", Password: "secret1"})
	assert.NoError(t, err)

	page, err := h.svc.User.GetAllUsers(ctx, &request.UserQuery{Search: "smi"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Pagination.Total)
	assert.Equal(t, "smith", page.Data[0].Username)

	assert.ErrorIs(t, h.svc.User.DeleteUser(ctx, "bogus"), ErrInvalidInput)
}
