package token

import (
	"testing"
	"time"

	"streaming-catalog/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() utils.JWTConfig {
	return utils.JWTConfig{
		Secret:      "this_is_a_very_long_secret_key_for_testing_purposes_12345",
		Issuer:      "streaming-catalog",
		Audience:    "streaming-catalog-clients",
		ExpiryHours: 1,
	}
}

func TestNewManager(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*utils.JWTConfig)
		wantErr bool
	}{
		{name: "valid", mutate: func(*utils.JWTConfig) {}},
		{name: "empty secret", mutate: func(c *utils.JWTConfig) { c.Secret = "" }, wantErr: true},
		{name: "zero expiry", mutate: func(c *utils.JWTConfig) { c.ExpiryHours = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			manager, err := NewManager(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, manager)
		})
	}
}

func TestGenerateAndValidate(t *testing.T) {
	manager, err := NewManager(testConfig())
	require.NoError(t, err)

	userID := uuid.New()
	signed, expiresAt, err := manager.Generate(userID, "alice", []string{"User", "Admin"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := manager.Validate(signed)
	require.NoError(t, err)

	gotID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, "alice", claims.Name)
	assert.Equal(t, []string{"User", "Admin"}, claims.Roles)
	assert.Equal(t, "streaming-catalog", claims.Issuer)
}

func TestValidate_Rejects(t *testing.T) {
	manager, err := NewManager(testConfig())
	require.NoError(t, err)

	otherCfg := testConfig()
	otherCfg.Secret = "another_secret_that_is_also_long_enough_1234567"
	other, err := NewManager(otherCfg)
	require.NoError(t, err)

	wrongAudCfg := testConfig()
	wrongAudCfg.Audience = "someone-else"
	wrongAud, err := NewManager(wrongAudCfg)
	require.NoError(t, err)

	expired, err := NewManager(testConfig())
	require.NoError(t, err)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	signedOther, _, err := other.Generate(uuid.New(), "bob", nil)
	require.NoError(t, err)
	signedAud, _, err := wrongAud.Generate(uuid.New(), "bob", nil)
	require.NoError(t, err)
	signedExpired, _, err := expired.Generate(uuid.New(), "bob", nil)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": uuid.NewString()})
	signedNone, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "wrong secret", token: signedOther},
		{name: "wrong audience", token: signedAud},
		{name: "expired", token: signedExpired},
		{name: "alg none", token: signedNone},
		{name: "garbage", token: "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manager.Validate(tt.token)
			assert.Error(t, err)
		})
	}
}
