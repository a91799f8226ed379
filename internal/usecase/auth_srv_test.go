package usecase

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"streaming-catalog/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (h *harness) register(t *testing.T, username, email, password string) string {
	t.Helper()
	resp, err := h.svc.Auth.Register(context.Background(), &request.RegisterRequest{
		Username: username, Email: email, Password: password,
	})
	require.NoError(t, err)
	return resp.User.ID
}

func (h *harness) clock(at time.Time) {
	h.svc.Auth.(*authService).now = func() time.Time { return at }
}

func TestAuthService_Register(t *testing.T) {
	h := newHarness()

	resp, err := h.svc.Auth.Register(context.Background(), &request.RegisterRequest{
		Username: "neo", Email: "neo@matrix.io", Password: "followthewhiterabbit", DateOfBirth: "1971-09-13",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "neo", resp.User.Username)
	assert.Equal(t, []string{"User"}, resp.User.Roles)
	require.NotNil(t, resp.User.DateOfBirth)
	assert.Equal(t, "1971-09-13", *resp.User.DateOfBirth)

	assert.Eventually(t, func() bool {
		return len(h.mailer.bySubject("Welcome")) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestAuthService_RegisterDuplicates(t *testing.T) {
	h := newHarness()
	h.register(t, "trinity", "trinity@matrix.io", "secret123")

	_, err := h.svc.Auth.Register(context.Background(), &request.RegisterRequest{
		Username: "other", Email: "TRINITY@matrix.io", Password: "secret123",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")

	_, err = h.svc.Auth.Register(context.Background(), &request.RegisterRequest{
		Username: "trinity", Email: "new@matrix.io", Password: "secret123",
	})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")
}

func TestAuthService_RegisterValidation(t *testing.T) {
	h := newHarness()

	_, err := h.svc.Auth.Register(context.Background(), &request.RegisterRequest{
		Username: "ab", Email: "not-an-email", Password: "123",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")
}

func TestAuthService_Login(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.register(t, "morpheus", "morpheus@matrix.io", "redpill!")

	resp, err := h.svc.Auth.Login(ctx, &request.LoginRequest{Email: "morpheus@matrix.io", Password: "redpill!"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = h.svc.Auth.Login(ctx, &request.LoginRequest{Email: "nobody@matrix.io", Password: "redpill!"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_LockoutAfterRepeatedFailures(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.register(t, "smith", "smith@matrix.io", "inevitable")
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h.clock(now)

	bad := &request.LoginRequest{Email: "smith@matrix.io", Password: "wrong"}
	for i := 1; i < 5; i++ {
		_, err := h.svc.Auth.Login(ctx, bad)
		require.ErrorIs(t, err, ErrInvalidCredentials, "attempt %d", i)
	}

	_, err := h.svc.Auth.Login(ctx, bad)
	assert.ErrorIs(t, err, ErrLockedOut, "the fifth failure locks the account")

	good := &request.LoginRequest{Email: "smith@matrix.io", Password: "inevitable"}
	_, err = h.svc.Auth.Login(ctx, good)
	assert.ErrorIs(t, err, ErrLockedOut, "the right password does not bypass the lock")

	h.clock(now.Add(16 * time.Minute))
	resp, err := h.svc.Auth.Login(ctx, good)
	require.NoError(t, err)

	user, err := h.db.repository().User.FindByEmail(ctx, "smith@matrix.io")
	require.NoError(t, err)
	assert.Zero(t, user.AccessFailedCount)
	assert.Nil(t, user.LockoutEnd)
	assert.Equal(t, user.ID.String(), resp.User.ID)
}

func TestAuthService_SuccessResetsFailureCount(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.register(t, "oracle", "oracle@matrix.io", "cookies")

	for i := 0; i < 4; i++ {
		_, _ = h.svc.Auth.Login(ctx, &request.LoginRequest{Email: "oracle@matrix.io", Password: "nope"})
	}
	_, err := h.svc.Auth.Login(ctx, &request.LoginRequest{Email: "oracle@matrix.io", Password: "cookies"})
	require.NoError(t, err)

	// four more failures stay under the limit again
	for i := 0; i < 4; i++ {
		_, err = h.svc.Auth.Login(ctx, &request.LoginRequest{Email: "oracle@matrix.io", Password: "nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
}

var codePattern = regexp.MustCompile(`code is (\d+)`)

func TestAuthService_PasswordReset(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.register(t, "tank", "tank@matrix.io", "operator")

	require.NoError(t, h.svc.Auth.ForgotPassword(ctx, &request.ForgotPasswordRequest{Email: "ghost@matrix.io"}))
	assert.Empty(t, h.mailer.bySubject("Reset your password"), "unknown emails get nothing")

	require.NoError(t, h.svc.Auth.ForgotPassword(ctx, &request.ForgotPasswordRequest{Email: "tank@matrix.io"}))
	mails := h.mailer.bySubject("Reset your password")
	require.Len(t, mails, 1)
	match := codePattern.FindStringSubmatch(mails[0].body)
	require.Len(t, match, 2)
	code := match[1]
	assert.Len(t, code, 6)

	err := h.svc.Auth.ResetPassword(ctx, &request.ResetPasswordRequest{Email: "tank@matrix.io", Code: "000000x", NewPassword: "newpass"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	require.NoError(t, h.svc.Auth.ResetPassword(ctx, &request.ResetPasswordRequest{
		Email: "tank@matrix.io", Code: code, NewPassword: "newpass",
	}))

	_, err = h.svc.Auth.Login(ctx, &request.LoginRequest{Email: "tank@matrix.io", Password: "newpass"})
	require.NoError(t, err)

	err = h.svc.Auth.ResetPassword(ctx, &request.ResetPasswordRequest{Email: "tank@matrix.io", Code: code, NewPassword: "again1"})
	require.ErrorAs(t, err, &verr, "a code works once")
	assert.Contains(t, verr.Fields, "code")
}

func TestAuthService_RegisterRejectsOverlongPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "too many characters", password: strings.Repeat("a", 80)},
		{name: "multibyte over 72 bytes", password: strings.Repeat("é", 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			_, err := h.svc.Auth.Register(context.Background(), &request.RegisterRequest{
				Username: "mouse", Email: "mouse@matrix.io", Password: tt.password,
			})
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, "password")
		})
	}

	h := newHarness()
	h.register(t, "mouse", "mouse@matrix.io", strings.Repeat("a", 72))
}

func TestAuthService_ResetPasswordRejectsOverlongPassword(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.register(t, "dozer", "dozer@matrix.io", "operator")

	require.NoError(t, h.svc.Auth.ForgotPassword(ctx, &request.ForgotPasswordRequest{Email: "dozer@matrix.io"}))
	mails := h.mailer.bySubject("Reset your password")
	require.Len(t, mails, 1)
	code := codePattern.FindStringSubmatch(mails[0].body)[1]

	err := h.svc.Auth.ResetPassword(ctx, &request.ResetPasswordRequest{
		Email: "dozer@matrix.io", Code: code, NewPassword: strings.Repeat("é", 40),
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "newPassword")

	require.NoError(t, h.svc.Auth.ResetPassword(ctx, &request.ResetPasswordRequest{
		Email: "dozer@matrix.io", Code: code, NewPassword: "newpass",
	}), "a rejected password does not consume the code")
}
