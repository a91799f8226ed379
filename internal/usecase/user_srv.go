package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"streaming-catalog/internal/data/entity"
	"streaming-catalog/internal/data/repository"
	"streaming-catalog/internal/dto/request"
	"streaming-catalog/internal/dto/response"
	"streaming-catalog/internal/media"
	"streaming-catalog/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	// Profile of the signed-in user
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *request.ChangePasswordRequest) error
	UploadAvatar(ctx context.Context, userID uuid.UUID, req *request.AvatarRequest) (*response.UserResponse, error)

	// Admin
	GetAllUsers(ctx context.Context, req *request.UserQuery) (*response.PaginatedResponse[response.UserResponse], error)
	GetUser(ctx context.Context, userID string) (*response.UserResponse, error)
	DeleteUser(ctx context.Context, userID string) error
	AssignRole(ctx context.Context, userID string, req *request.AssignRoleRequest) error
	RemoveRole(ctx context.Context, userID, role string) error
	LockUser(ctx context.Context, userID string, req *request.LockUserRequest) error
	UnlockUser(ctx context.Context, userID string) error
}

type userService struct {
	repo   *repository.Repository
	images media.ImageService
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewUserService(repo *repository.Repository, images media.ImageService, config *utils.Config, log *zap.Logger) UserService {
	return &userService{
		repo:   repo,
		images: images,
		config: config,
		log:    log.With(zap.String("service", "user")),
		now:    time.Now,
	}
}

func (us *userService) load(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := us.repo.User.FindByID(ctx, id)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", id.String()))
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, notFound("user")
	}
	return user, nil
}

func (us *userService) toResponse(ctx context.Context, user *entity.User) (*response.UserResponse, error) {
	roles, err := us.repo.Role.FindNamesByUserID(ctx, user.ID)
	if err != nil {
		us.log.Error("Failed to load roles", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("load roles: %w", err)
	}
	resp := response.UserToResponse(user, roles)
	return &resp, nil
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := us.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return us.toResponse(ctx, user)
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	// 1. Validate
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := us.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 2. Username must stay unique
	username := strings.TrimSpace(req.Username)
	if !strings.EqualFold(username, user.Username) {
		taken, err := us.repo.User.FindByUsername(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if taken != nil && taken.ID != user.ID {
			return nil, newValidationError("username", "Username is already taken")
		}
	}

	// 3. Apply
	user.Username = username
	user.DateOfBirth = nil
	if req.DateOfBirth != "" {
		dob, err := time.Parse(dateLayout, req.DateOfBirth)
		if err != nil {
			return nil, newValidationError("dateOfBirth", "Must be a date in YYYY-MM-DD format")
		}
		user.DateOfBirth = &dob
	}
	user.UpdatedAt = us.now()

	if err := us.repo.User.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newValidationError("username", "Username is already taken")
		}
		us.log.Error("Failed to update profile", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("update user: %w", err)
	}

	us.log.Info("Profile updated", zap.String("user_id", user.ID.String()))
	return us.toResponse(ctx, user)
}

func (us *userService) ChangePassword(ctx context.Context, userID uuid.UUID, req *request.ChangePasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	user, err := us.load(ctx, userID)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return newValidationError("currentPassword", "Current password is incorrect")
	}

	hashed, err := hashPassword("newPassword", req.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashed
	user.UpdatedAt = us.now()

	if err := us.repo.User.Update(ctx, user); err != nil {
		us.log.Error("Failed to change password", zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("update user: %w", err)
	}

	us.log.Info("Password changed", zap.String("user_id", user.ID.String()))
	return nil
}

func (us *userService) UploadAvatar(ctx context.Context, userID uuid.UUID, req *request.AvatarRequest) (*response.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := us.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 1. Upload the new avatar
	uploads := newUploadBatch(us.images, nil, us.log)
	size := us.config.Media.AvatarSize
	path, err := uploads.image(ctx, "avatar", req.Avatar, media.ImageOptions{Folder: "avatars", MaxWidth: size, MaxHeight: size})
	if err != nil {
		return nil, err
	}

	// 2. Point the user at it
	oldPath := user.AvatarURL
	user.AvatarURL = path
	user.UpdatedAt = us.now()
	if err := us.repo.User.Update(ctx, user); err != nil {
		uploads.rollback()
		us.log.Error("Failed to save avatar", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("update user: %w", err)
	}

	// 3. Drop the previous file
	removeFiles(ctx, us.log, us.images, nil, []string{oldPath}, nil)

	us.log.Info("Avatar updated", zap.String("user_id", user.ID.String()), zap.String("path", path))
	return us.toResponse(ctx, user)
}

func (us *userService) GetAllUsers(ctx context.Context, req *request.UserQuery) (*response.PaginatedResponse[response.UserResponse], error) {
	normalizePage(&req.PaginatedRequest)
	if err := validate(req); err != nil {
		return nil, err
	}

	search := strings.TrimSpace(req.Search)
	users, err := us.repo.User.FindAll(ctx, req.Limit(), req.Offset(), search)
	if err != nil {
		us.log.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("list users: %w", err)
	}

	total, err := us.repo.User.CountAll(ctx, search)
	if err != nil {
		us.log.Error("Failed to count users", zap.Error(err))
		return nil, fmt.Errorf("count users: %w", err)
	}

	data := make([]response.UserResponse, 0, len(users))
	for _, user := range users {
		resp, err := us.toResponse(ctx, user)
		if err != nil {
			return nil, err
		}
		data = append(data, *resp)
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (us *userService) GetUser(ctx context.Context, userID string) (*response.UserResponse, error) {
	id, err := parseID(userID, "user id")
	if err != nil {
		return nil, err
	}
	return us.GetProfile(ctx, id)
}

func (us *userService) DeleteUser(ctx context.Context, userID string) error {
	id, err := parseID(userID, "user id")
	if err != nil {
		return err
	}

	user, err := us.load(ctx, id)
	if err != nil {
		return err
	}

	if err := us.repo.User.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("user")
		}
		us.log.Error("Failed to delete user", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("delete user: %w", err)
	}

	removeFiles(ctx, us.log, us.images, nil, []string{user.AvatarURL}, nil)

	us.log.Info("User deleted", zap.String("user_id", userID))
	return nil
}

func (us *userService) role(ctx context.Context, name string) (*entity.Role, error) {
	role, err := us.repo.Role.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find role: %w", err)
	}
	if role == nil {
		return nil, notFound("role")
	}
	return role, nil
}

func (us *userService) AssignRole(ctx context.Context, userID string, req *request.AssignRoleRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	id, err := parseID(userID, "user id")
	if err != nil {
		return err
	}
	if _, err := us.load(ctx, id); err != nil {
		return err
	}

	role, err := us.role(ctx, req.Role)
	if err != nil {
		return err
	}

	if err := us.repo.Role.AssignToUser(ctx, id, role.ID); err != nil {
		us.log.Error("Failed to assign role", zap.Error(err), zap.String("user_id", userID), zap.String("role", req.Role))
		return fmt.Errorf("assign role: %w", err)
	}

	us.log.Info("Role assigned", zap.String("user_id", userID), zap.String("role", role.Name))
	return nil
}

func (us *userService) RemoveRole(ctx context.Context, userID, roleName string) error {
	id, err := parseID(userID, "user id")
	if err != nil {
		return err
	}

	role, err := us.role(ctx, roleName)
	if err != nil {
		return err
	}

	if err := us.repo.Role.RemoveFromUser(ctx, id, role.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("role assignment")
		}
		us.log.Error("Failed to remove role", zap.Error(err), zap.String("user_id", userID), zap.String("role", roleName))
		return fmt.Errorf("remove role: %w", err)
	}

	us.log.Info("Role removed", zap.String("user_id", userID), zap.String("role", role.Name))
	return nil
}

func (us *userService) LockUser(ctx context.Context, userID string, req *request.LockUserRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	id, err := parseID(userID, "user id")
	if err != nil {
		return err
	}
	if _, err := us.load(ctx, id); err != nil {
		return err
	}

	end := us.now().Add(time.Duration(req.Minutes) * time.Minute)
	if err := us.repo.User.UpdateLockout(ctx, id, 0, &end); err != nil {
		us.log.Error("Failed to lock user", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("lock user: %w", err)
	}

	us.log.Info("User locked", zap.String("user_id", userID), zap.Time("lockout_end", end))
	return nil
}

func (us *userService) UnlockUser(ctx context.Context, userID string) error {
	id, err := parseID(userID, "user id")
	if err != nil {
		return err
	}
	if _, err := us.load(ctx, id); err != nil {
		return err
	}

	if err := us.repo.User.UpdateLockout(ctx, id, 0, nil); err != nil {
		us.log.Error("Failed to unlock user", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("unlock user: %w", err)
	}

	us.log.Info("User unlocked", zap.String("user_id", userID))
	return nil
}
