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
	"streaming-catalog/internal/mail"
	"streaming-catalog/pkg/metrics"
	"streaming-catalog/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error
}

type authService struct {
	repo   *repository.Repository // grouping user, role & otp repositories
	tokens TokenIssuer
	mailer mail.Mailer
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(
	repo *repository.Repository,
	tokens TokenIssuer,
	mailer mail.Mailer,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		tokens: tokens,
		mailer: mailer,
		config: config,
		log:    log.With(zap.String("service", "auth")),
		now:    time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	// 1. Validate input
	if err := validate(req); err != nil {
		s.log.Warn("Register validation failed", zap.Error(err))
		return nil, err
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	// 2. Email must be unused
	existing, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, newValidationError("email", "Email is already registered")
	}

	// 3. Username must be unused
	existing, err = s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error("Failed to check username", zap.Error(err), zap.String("username", req.Username))
		return nil, fmt.Errorf("check username: %w", err)
	}
	if existing != nil {
		return nil, newValidationError("username", "Username is already taken")
	}

	// 4. Hash password
	hashedPassword, err := hashPassword("password", req.Password)
	if err != nil {
		s.log.Warn("Failed to hash password", zap.Error(err))
		return nil, err
	}

	// 5. Build user
	now := s.now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse(dateLayout, req.DateOfBirth)
		if err != nil {
			return nil, newValidationError("dateOfBirth", "Must be a date in YYYY-MM-DD format")
		}
		if dob.After(now) {
			return nil, newValidationError("dateOfBirth", "Must not be in the future")
		}
		user.DateOfBirth = &dob
	}

	// 6. Default role
	role, err := s.repo.Role.FindByName(ctx, entity.RoleUser)
	if err != nil {
		s.log.Error("Failed to load default role", zap.Error(err))
		return nil, fmt.Errorf("load default role: %w", err)
	}
	if role == nil {
		s.log.Error("Default role is missing", zap.String("role", entity.RoleUser))
		return nil, fmt.Errorf("default role %q is not seeded", entity.RoleUser)
	}

	// 7. Save user, the unique constraints catch concurrent registrations
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			if strings.Contains(err.Error(), "email") {
				return nil, newValidationError("email", "Email is already registered")
			}
			return nil, newValidationError("username", "Username is already taken")
		}
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.repo.Role.AssignToUser(ctx, user.ID, role.ID); err != nil {
		s.log.Error("Failed to assign default role", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("assign default role: %w", err)
	}

	// 8. Welcome email (async)
	go s.sendWelcome(user.Email, user.Username)

	// 9. Sign in right away
	roles := []string{entity.RoleUser}
	token, expiresAt, err := s.tokens.Generate(user.ID, user.Username, roles)
	if err != nil {
		s.log.Error("Failed to issue token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	resp := response.AuthToResponse(user, roles, token, expiresAt)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	// 1. Validate
	if err := validate(req); err != nil {
		return nil, err
	}

	// 2. Find user
	user, err := s.repo.User.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		metrics.RecordLoginAttempt("invalid")
		s.log.Warn("Login for unknown email", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	// 3. A locked account stays locked, even for the right password
	now := s.now()
	if user.IsLockedOut(now) {
		metrics.RecordLoginAttempt("locked")
		s.log.Warn("Login on locked account",
			zap.String("user_id", user.ID.String()),
			zap.Time("lockout_end", *user.LockoutEnd))
		return nil, ErrLockedOut
	}

	// 4. Check password
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, s.registerFailure(ctx, user, now)
	}

	// 5. Reset failure bookkeeping
	if user.AccessFailedCount > 0 || user.LockoutEnd != nil {
		if err := s.repo.User.UpdateLockout(ctx, user.ID, 0, nil); err != nil {
			s.log.Warn("Failed to reset lockout counters", zap.Error(err), zap.String("user_id", user.ID.String()))
		}
		user.AccessFailedCount = 0
		user.LockoutEnd = nil
	}

	// 6. Issue token
	resp, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.RecordLoginAttempt("success")
	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return resp, nil
}

// registerFailure counts a bad password and locks the account once the limit is reached.
func (s *authService) registerFailure(ctx context.Context, user *entity.User, now time.Time) error {
	count := user.AccessFailedCount + 1
	var lockoutEnd *time.Time

	if count >= s.config.Lockout.MaxFailedAttempts {
		end := now.Add(time.Duration(s.config.Lockout.DurationMinutes) * time.Minute)
		lockoutEnd = &end
		count = 0
	}

	if err := s.repo.User.UpdateLockout(ctx, user.ID, count, lockoutEnd); err != nil {
		s.log.Error("Failed to record failed login", zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("record failed login: %w", err)
	}

	if lockoutEnd != nil {
		metrics.RecordLoginAttempt("locked")
		s.log.Warn("Account locked after repeated failures",
			zap.String("user_id", user.ID.String()),
			zap.Time("lockout_end", *lockoutEnd))
		return ErrLockedOut
	}

	metrics.RecordLoginAttempt("invalid")
	s.log.Warn("Invalid password",
		zap.String("user_id", user.ID.String()),
		zap.Int("failed_count", count))
	return ErrInvalidCredentials
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, notFound("user")
	}

	roles, err := s.repo.Role.FindNamesByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}

	resp := response.UserToResponse(user, roles)
	return &resp, nil
}

func (s *authService) ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) error {
	// 1. Validate
	if err := validate(req); err != nil {
		return err
	}

	// 2. Find user, unknown emails succeed silently
	user, err := s.repo.User.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		s.log.Error("Failed to find user for reset", zap.Error(err), zap.String("email", req.Email))
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		s.log.Info("Password reset requested for unknown email", zap.String("email", req.Email))
		return nil
	}

	// 3. Burn older codes
	if err := s.repo.OTP.InvalidateForUser(ctx, user.ID, entity.OTPTypePasswordReset); err != nil {
		s.log.Warn("Failed to invalidate previous codes", zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	// 4. Generate OTP
	code, err := utils.GenerateOTP(s.config.OTP.Length)
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	now := s.now()
	otp := &entity.OTP{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		Email:     user.Email,
		OTPCode:   code,
		OTPType:   entity.OTPTypePasswordReset,
		ExpiresAt: now.Add(time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute),
	}

	// 5. Save OTP
	if err := s.repo.OTP.Create(ctx, otp); err != nil {
		s.log.Error("Failed to save OTP", zap.Error(err), zap.String("email", user.Email))
		return fmt.Errorf("save otp: %w", err)
	}

	// 6. Email it
	body := fmt.Sprintf("Hi %s,\n\nYour password reset code is %s. It expires in %d minutes.\n\nIf you did not ask for this, ignore this email.",
		user.Username, code, s.config.OTP.ExpiryMinutes)
	if err := s.mailer.Send(ctx, user.Email, "Reset your password", body); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}

	s.log.Info("Password reset code issued",
		zap.String("user_id", user.ID.String()),
		zap.Time("expires_at", otp.ExpiresAt))
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error {
	// 1. Validate
	if err := validate(req); err != nil {
		return err
	}

	// 2. Find valid OTP
	otp, err := s.repo.OTP.FindValid(ctx, strings.TrimSpace(req.Email), req.Code, entity.OTPTypePasswordReset)
	if err != nil {
		s.log.Error("Failed to find OTP", zap.Error(err), zap.String("email", req.Email))
		return fmt.Errorf("find otp: %w", err)
	}
	if otp == nil {
		return newValidationError("code", "Invalid or expired code")
	}

	// 3. Find user
	user, err := s.repo.User.FindByID(ctx, otp.UserID)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return notFound("user")
	}

	// 4. Set password and clear lockout
	hashed, err := hashPassword("newPassword", req.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashed
	user.AccessFailedCount = 0
	user.LockoutEnd = nil
	user.UpdatedAt = s.now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to reset password", zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("update user: %w", err)
	}

	// 5. Consume OTP
	if err := s.repo.OTP.MarkAsUsed(ctx, otp.ID); err != nil {
		s.log.Warn("Failed to mark OTP as used", zap.Error(err), zap.String("otp_id", otp.ID.String()))
	}

	s.log.Info("Password reset", zap.String("user_id", user.ID.String()))
	return nil
}

// ==================== HELPER METHODS ====================

func (s *authService) issue(ctx context.Context, user *entity.User) (*response.AuthResponse, error) {
	roles, err := s.repo.Role.FindNamesByUserID(ctx, user.ID)
	if err != nil {
		s.log.Error("Failed to load roles", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("load roles: %w", err)
	}

	token, expiresAt, err := s.tokens.Generate(user.ID, user.Username, roles)
	if err != nil {
		s.log.Error("Failed to issue token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("issue token: %w", err)
	}

	resp := response.AuthToResponse(user, roles, token, expiresAt)
	return &resp, nil
}

func (s *authService) sendWelcome(email, username string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	body := fmt.Sprintf("Hi %s,\n\nWelcome aboard! Your account is ready.", username)
	if err := s.mailer.Send(ctx, email, "Welcome", body); err != nil {
		s.log.Warn("Failed to send welcome email", zap.Error(err), zap.String("email", email))
	}
}
