package services

import (
	"context"

	"rentify_backend/internal/email"
	"rentify_backend/internal/logger"
	"rentify_backend/internal/models"
	"rentify_backend/internal/repositories"
	"rentify_backend/internal/services/dto"
	"rentify_backend/internal/validator"
	"rentify_backend/pkg/apperrors"
)

type AdminService interface {
	// Users
	ListUsers(ctx context.Context, actor Actor, req dto.UserListRequest) (*dto.PaginatedResponse[dto.UserResponse], error)
	UpdateUserRole(ctx context.Context, actor Actor, userID string, req *dto.UpdateUserRoleRequest) (*dto.UserResponse, error)

	// Moderation
	ListPendingProperties(ctx context.Context, actor Actor, page, limit int) (*dto.PaginatedResponse[dto.PropertyResponse], error)
	ApproveProperty(ctx context.Context, actor Actor, propertyID string, req *dto.SetApprovalRequest) (*dto.PropertyResponse, error)
	SetFeatured(ctx context.Context, actor Actor, propertyID string, req *dto.SetFeaturedRequest) (*dto.PropertyResponse, error)
}

type adminService struct {
	userRepo     repositories.UserRepository
	propertyRepo repositories.PropertyRepository
	notifier     *email.Notifier
	validator    *validator.Validator
}

func NewAdminService(
	userRepo repositories.UserRepository,
	propertyRepo repositories.PropertyRepository,
	notifier *email.Notifier,
	v *validator.Validator,
) AdminService {
	return &adminService{
		userRepo:     userRepo,
		propertyRepo: propertyRepo,
		notifier:     notifier,
		validator:    v,
	}
}

func (s *adminService) ListUsers(ctx context.Context, actor Actor, req dto.UserListRequest) (*dto.PaginatedResponse[dto.UserResponse], error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if req.Role != "" && !isOneOf(req.Role, models.UserRoles) {
		return nil, apperrors.FieldError("role", "Unknown role")
	}

	page := repositories.Page{Page: req.Page, Limit: req.Limit}.Normalize()
	users, total, err := s.userRepo.FindWithFilter(ctx, repositories.UserFilter{
		Role:   models.UserRole(req.Role),
		Search: req.Search,
		Page:   page,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return newPage(items, total, page), nil
}

func (s *adminService) UpdateUserRole(ctx context.Context, actor Actor, userID string, req *dto.UpdateUserRoleRequest) (*dto.UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if actor.UserID == userID {
		return nil, apperrors.ErrCannotModifySelf
	}
	if err := s.validator.ValidateApp(req); err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateRole(ctx, userID, models.UserRole(req.Role)); err != nil {
		return nil, mapRepoError(err, apperrors.ErrUserNotFound)
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err, apperrors.ErrUserNotFound)
	}
	logger.CtxInfo(ctx, "user role changed", "user_id", userID, "role", req.Role, "admin_id", actor.UserID)

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *adminService) ListPendingProperties(ctx context.Context, actor Actor, page, limit int) (*dto.PaginatedResponse[dto.PropertyResponse], error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	p := repositories.Page{Page: page, Limit: limit}.Normalize()
	properties, total, err := s.propertyRepo.FindPending(ctx, p)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return newPage(propertyResponses(properties, true), total, p), nil
}

func (s *adminService) ApproveProperty(ctx context.Context, actor Actor, propertyID string, req *dto.SetApprovalRequest) (*dto.PropertyResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if err := s.validator.ValidateApp(req); err != nil {
		return nil, err
	}

	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, mapRepoError(err, apperrors.ErrPropertyNotFound)
	}
	wasApproved := property.Approved

	if err := s.propertyRepo.SetApproved(ctx, propertyID, *req.Approved); err != nil {
		return nil, mapRepoError(err, apperrors.ErrPropertyNotFound)
	}
	property.Approved = *req.Approved
	logger.CtxInfo(ctx, "property moderation", "property_id", propertyID, "approved", property.Approved, "admin_id", actor.UserID)

	if property.Approved && !wasApproved && s.notifier != nil && property.Owner != nil {
		if err := s.notifier.SendPropertyApproved(ctx, property.Owner.Email, property.Owner.Name, property.Title); err != nil {
			logger.CtxWithError(ctx, "failed to send approval notice", err, "property_id", propertyID)
		}
	}

	resp := dto.NewPropertyResponse(property, true)
	return &resp, nil
}

func (s *adminService) SetFeatured(ctx context.Context, actor Actor, propertyID string, req *dto.SetFeaturedRequest) (*dto.PropertyResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if err := s.validator.ValidateApp(req); err != nil {
		return nil, err
	}
	if err := s.propertyRepo.SetFeatured(ctx, propertyID, *req.Featured); err != nil {
		return nil, mapRepoError(err, apperrors.ErrPropertyNotFound)
	}
	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, mapRepoError(err, apperrors.ErrPropertyNotFound)
	}
	resp := dto.NewPropertyResponse(property, true)
	return &resp, nil
}

func isOneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}
