package wire

import (
	"net/http"

	"streaming-catalog/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireUser configures profile routes and admin user management
func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	auth, admin func(http.Handler) http.Handler,
) {
	// ==================== PROTECTED USER ROUTES ====================
	r.With(auth).Route("/api/users", func(r chi.Router) {
		r.Get("/profile", userHandler.GetProfile)
		r.Put("/profile", userHandler.UpdateProfile)
		r.Put("/avatar", userHandler.UploadAvatar)
		r.Put("/password", userHandler.ChangePassword)
	})

	// ==================== ADMIN ROUTES ====================
	// Admin user management - requires both authentication AND admin role
	r.With(auth, admin).Route("/api/admin/users", func(r chi.Router) {
		r.Get("/", userHandler.GetAllUsers)       // GET /api/admin/users?page=1&perPage=10&search=
		r.Get("/{id}", userHandler.GetUser)       // GET /api/admin/users/{id}
		r.Delete("/{id}", userHandler.DeleteUser) // DELETE /api/admin/users/{id}
		r.Post("/{id}/roles", userHandler.AssignRole)
		r.Delete("/{id}/roles/{role}", userHandler.RemoveRole)
		r.Post("/{id}/lock", userHandler.LockUser)
		r.Post("/{id}/unlock", userHandler.UnlockUser)
	})
}
