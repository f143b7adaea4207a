package services

import (
	"errors"
	"time"

	"rentify_backend/internal/models"
	"rentify_backend/internal/repositories"
	"rentify_backend/internal/services/dto"
	"rentify_backend/pkg/apperrors"
)

// Actor - аутентифицированный пользователь, от имени которого выполняется операция.
type Actor struct {
	UserID string
	Role   models.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.UserRoleAdmin
}

// Clock returns the current time. Services always work in UTC.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return systemClock
	}
	return c
}

// mapRepoError translates a repository sentinel into the AppError the caller sees.
func mapRepoError(err error, notFound *apperrors.AppError) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, repositories.ErrPropertyNotFound),
		errors.Is(err, repositories.ErrUserNotFound),
		errors.Is(err, repositories.ErrSubscriptionNotFound),
		errors.Is(err, repositories.ErrReportNotFound),
		errors.Is(err, repositories.ErrPropertyViewNotFound):
		if notFound != nil {
			return notFound.WithError(err)
		}
		return apperrors.ErrNotFound(err, "resource", "Resource not found")
	case errors.Is(err, repositories.ErrLiveSubscriptionExists):
		return apperrors.ErrActiveSubscriptionExists.WithError(err)
	case errors.Is(err, repositories.ErrOpenReportExists):
		return apperrors.ErrReportAlreadyOpen.WithError(err)
	case errors.Is(err, repositories.ErrUserAlreadyExists):
		return apperrors.ErrEmailAlreadyExists.WithError(err)
	}
	return apperrors.InternalError(err)
}

func newPage[T any](items []T, total int64, page repositories.Page) *dto.PaginatedResponse[T] {
	if items == nil {
		items = []T{}
	}
	return &dto.PaginatedResponse[T]{
		Items: items,
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
		Pages: repositories.TotalPages(total, page.Limit),
	}
}

func propertyResponses(list []models.Property, contactVisible bool) []dto.PropertyResponse {
	out := make([]dto.PropertyResponse, 0, len(list))
	for i := range list {
		out = append(out, dto.NewPropertyResponse(&list[i], contactVisible))
	}
	return out
}
