package wire

import (
	"net/http"

	"streaming-catalog/internal/adaptor"
	"streaming-catalog/pkg/middleware"
	"streaming-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	auth func(http.Handler) http.Handler,
	config *utils.Config,
) {
	r.Route("/api/Auth", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		// Credential endpoints share one per-IP budget
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(config.RateLimit))
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)
		})

		// ==================== PROTECTED ROUTES ====================
		r.With(auth).Get("/me", authHandler.Me)
	})
}
