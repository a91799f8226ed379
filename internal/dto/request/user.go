package request

type UpdateProfileRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	DateOfBirth string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

type AvatarRequest struct {
	Avatar *File `form:"avatar" validate:"required"`
}

type AssignRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=User Admin"`
}

type LockUserRequest struct {
	Minutes int `json:"minutes" validate:"required,min=1,max=525600"`
}

type UserQuery struct {
	PaginatedRequest
	Search string `json:"search" validate:"max=100"`
}
