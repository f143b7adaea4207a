package services

import (
	"context"
	"errors"
	"strings"

	"rentify_backend/internal/auth"
	"rentify_backend/internal/logger"
	"rentify_backend/internal/models"
	"rentify_backend/internal/repositories"
	"rentify_backend/internal/services/dto"
	"rentify_backend/internal/validator"
	"rentify_backend/pkg/apperrors"
)

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
	// Authenticate resolves a bearer token into its claims.
	Authenticate(token string) (*auth.Claims, error)
	// EnsureAdmin creates the first admin account when no admin exists yet.
	EnsureAdmin(ctx context.Context, name, email, password string) error
}

type AuthServiceImpl struct {
	userRepo  repositories.UserRepository
	tokens    *auth.TokenManager
	validator *validator.Validator
}

func NewAuthService(userRepo repositories.UserRepository, tokens *auth.TokenManager, v *validator.Validator) AuthService {
	return &AuthServiceImpl{
		userRepo:  userRepo,
		tokens:    tokens,
		validator: v,
	}
}

// Register - регистрация нового пользователя
func (s *AuthServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := s.validator.ValidateApp(req); err != nil {
		return nil, err
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.FieldError("password", err.Error())
	}

	role := models.UserRole(req.Role)
	if role == "" {
		role = models.UserRoleTenant
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:               strings.TrimSpace(req.Name),
		Email:              req.Email,
		PasswordHash:       hash,
		Role:               role,
		Phone:              strings.TrimSpace(req.Phone),
		SubscriptionStatus: models.SubscriptionStatusInactive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return s.issue(user)
}

// Login - аутентификация пользователя
func (s *AuthServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if err := s.validator.ValidateApp(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.CtxWarn(ctx, "failed login attempt", "user_id", user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *AuthServiceImpl) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err, apperrors.ErrUserNotFound)
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *AuthServiceImpl) Authenticate(token string) (*auth.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, apperrors.ErrInvalidToken.WithError(err)
	}
	return claims, nil
}

func (s *AuthServiceImpl) EnsureAdmin(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	admins, err := s.userRepo.CountByRole(ctx, models.UserRoleAdmin)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if admins > 0 {
		return nil
	}
	if err := auth.ValidatePassword(password); err != nil {
		return apperrors.FieldError("first_admin_password", err.Error())
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if name == "" {
		name = "Administrator"
	}
	admin := &models.User{
		Name:               name,
		Email:              email,
		PasswordHash:       hash,
		Role:               models.UserRoleAdmin,
		IsVerified:         true,
		SubscriptionStatus: models.SubscriptionStatusInactive,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			// Учетка уже есть, но не админ: роль повышаем явно
			existing, findErr := s.userRepo.FindByEmail(ctx, email)
			if findErr != nil {
				return apperrors.InternalError(findErr)
			}
			if err := s.userRepo.UpdateRole(ctx, existing.ID, models.UserRoleAdmin); err != nil {
				return apperrors.InternalError(err)
			}
			logger.CtxWarn(ctx, "promoted existing account to first admin", "user_id", existing.ID)
			return nil
		}
		return apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "first admin created", "user_id", admin.ID)
	return nil
}

func (s *AuthServiceImpl) issue(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		User:        dto.NewUserResponse(user),
	}, nil
}
