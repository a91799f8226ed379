package adaptor

import (
	"net/http"

	"streaming-catalog/internal/dto/request"
	"streaming-catalog/internal/usecase"
	"streaming-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	service   usecase.UserService
	maxUpload int64
	log       *zap.Logger
}

func NewUserHandler(service usecase.UserService, maxUpload int64, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service:   service,
		maxUpload: maxUpload,
		log:       log.With(zap.String("handler", "user")),
	}
}

// GetProfile handles GET /api/users/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	// Get user ID from context (set by auth middleware)
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved successfully", profile)
}

// UpdateProfile handles PUT /api/users/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update profile")
		return
	}

	utils.ResponseSuccess(w, "Profile updated successfully", profile)
}

// ChangePassword handles PUT /api/users/password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ChangePassword(r.Context(), userID, &req); err != nil {
		handleServiceError(w, h.log, err, "change password")
		return
	}

	utils.ResponseSuccess(w, "Password changed successfully", nil)
}

// UploadAvatar handles PUT /api/users/avatar (multipart, field "avatar")
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	form, ok := parseUploadForm(w, r, h.maxUpload)
	if !ok {
		return
	}
	defer form.close()

	var req request.AvatarRequest
	if !form.openFiles(w, map[string]**request.File{"avatar": &req.Avatar}) {
		return
	}

	profile, err := h.service.UploadAvatar(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "upload avatar")
		return
	}

	utils.ResponseSuccess(w, "Avatar updated successfully", profile)
}

// ==================== ADMIN ====================

// GetAllUsers handles GET /api/admin/users?page=1&perPage=10&search=
func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	req := &request.UserQuery{
		PaginatedRequest: pageQuery(r),
		Search:           r.URL.Query().Get("search"),
	}

	users, err := h.service.GetAllUsers(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get all users")
		return
	}

	utils.ResponseSuccess(w, "Users retrieved successfully", users)
}

// GetUser handles GET /api/admin/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get user")
		return
	}

	utils.ResponseSuccess(w, "User retrieved successfully", user)
}

// DeleteUser handles DELETE /api/admin/users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	// Admins cannot remove themselves
	if current, ok := utils.GetUserIDFromContext(r.Context()); ok && current.String() == userID {
		utils.ResponseBadRequest(w, "You cannot delete your own account", nil)
		return
	}

	if err := h.service.DeleteUser(r.Context(), userID); err != nil {
		handleServiceError(w, h.log, err, "delete user")
		return
	}

	utils.ResponseSuccess(w, "User deleted successfully", nil)
}

// AssignRole handles POST /api/admin/users/{id}/roles
func (h *UserHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	var req request.AssignRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.AssignRole(r.Context(), chi.URLParam(r, "id"), &req); err != nil {
		handleServiceError(w, h.log, err, "assign role")
		return
	}

	utils.ResponseSuccess(w, "Role assigned successfully", nil)
}

// RemoveRole handles DELETE /api/admin/users/{id}/roles/{role}
func (h *UserHandler) RemoveRole(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveRole(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "role")); err != nil {
		handleServiceError(w, h.log, err, "remove role")
		return
	}

	utils.ResponseSuccess(w, "Role removed successfully", nil)
}

// LockUser handles POST /api/admin/users/{id}/lock
func (h *UserHandler) LockUser(w http.ResponseWriter, r *http.Request) {
	var req request.LockUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.LockUser(r.Context(), chi.URLParam(r, "id"), &req); err != nil {
		handleServiceError(w, h.log, err, "lock user")
		return
	}

	utils.ResponseSuccess(w, "User locked", nil)
}

// UnlockUser handles POST /api/admin/users/{id}/unlock
func (h *UserHandler) UnlockUser(w http.ResponseWriter, r *http.Request) {
	if err := h.service.UnlockUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "unlock user")
		return
	}

	utils.ResponseSuccess(w, "User unlocked", nil)
}
