package middleware

import (
	"net/http"
	"strings"

	"streaming-catalog/pkg/token"
	"streaming-catalog/pkg/utils"

	"go.uber.org/zap"
)

// TokenValidator is satisfied by *token.Manager.
type TokenValidator interface {
	Validate(tokenString string) (*token.Claims, error)
}

// Authenticate validates the bearer JWT and puts the caller identity in the request context.
func Authenticate(validator TokenValidator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			scheme, tokenString, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenString) == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			claims, err := validator.Validate(strings.TrimSpace(tokenString))
			if err != nil {
				logger.Warn("Rejected bearer token",
					zap.Error(err),
					zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			// Validate already checked the subject parses
			userID, _ := claims.UserID()
			ctx := utils.SetUserContext(r.Context(), userID, claims.Name, claims.Roles)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets the request through when the caller holds any of roles.
// Must run after Authenticate.
func RequireRole(logger *zap.Logger, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			for _, role := range roles {
				if utils.HasRole(r.Context(), role) {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.Warn("Role check failed",
				zap.String("user_id", userID.String()),
				zap.Strings("required", roles),
				zap.String("path", r.URL.Path))
			utils.ResponseForbidden(w, "Insufficient permissions")
		})
	}
}
