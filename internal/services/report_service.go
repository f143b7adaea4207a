package services

import (
	"context"
	"strings"

	"rentify_backend/internal/logger"
	"rentify_backend/internal/models"
	"rentify_backend/internal/repositories"
	"rentify_backend/internal/services/dto"
	"rentify_backend/internal/validator"
	"rentify_backend/pkg/apperrors"
)

type ReportService interface {
	ReportProperty(ctx context.Context, actor Actor, propertyID string, req *dto.CreateReportRequest) (*dto.ReportResponse, error)
	ListReports(ctx context.Context, actor Actor, status string, page, limit int) (*dto.PaginatedResponse[dto.ReportResponse], error)
	ResolveReport(ctx context.Context, actor Actor, reportID string, req *dto.ResolveReportRequest) (*dto.ReportResponse, error)
}

type reportService struct {
	reportRepo   repositories.ReportRepository
	propertyRepo repositories.PropertyRepository
	validator    *validator.Validator
	now          Clock
}

func NewReportService(
	reportRepo repositories.ReportRepository,
	propertyRepo repositories.PropertyRepository,
	v *validator.Validator,
	clock Clock,
) ReportService {
	return &reportService{
		reportRepo:   reportRepo,
		propertyRepo: propertyRepo,
		validator:    v,
		now:          clockOrDefault(clock),
	}
}

func (s *reportService) ReportProperty(ctx context.Context, actor Actor, propertyID string, req *dto.CreateReportRequest) (*dto.ReportResponse, error) {
	if err := s.validator.ValidateApp(req); err != nil {
		return nil, err
	}

	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, mapRepoError(err, apperrors.ErrPropertyNotFound)
	}
	if property.OwnerID == actor.UserID {
		return nil, apperrors.ErrInvalidOperation("report", "You cannot report your own listing")
	}

	open, err := s.reportRepo.HasOpenReport(ctx, actor.UserID, propertyID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if open {
		return nil, apperrors.ErrReportAlreadyOpen
	}

	report := &models.Report{
		PropertyID: propertyID,
		ReporterID: actor.UserID,
		Reason:     models.ReportReason(req.Reason),
		Details:    strings.TrimSpace(req.Details),
		Status:     models.ReportStatusOpen,
	}
	// Гонку двух одновременных жалоб закрывает частичный уникальный индекс
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, mapRepoError(err, apperrors.ErrReportNotFound)
	}
	logger.CtxInfo(ctx, "property reported", "report_id", report.ID, "property_id", propertyID, "reason", report.Reason)

	resp := dto.NewReportResponse(report)
	return &resp, nil
}

func (s *reportService) ListReports(ctx context.Context, actor Actor, status string, page, limit int) (*dto.PaginatedResponse[dto.ReportResponse], error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if status != "" && !isOneOf(status, models.ReportStatuses) {
		return nil, apperrors.FieldError("status", "Must be one of: "+strings.Join(models.ReportStatuses, ", "))
	}

	p := repositories.Page{Page: page, Limit: limit}.Normalize()
	reports, total, err := s.reportRepo.FindWithFilter(ctx, models.ReportStatus(status), p)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		items = append(items, dto.NewReportResponse(&reports[i]))
	}
	return newPage(items, total, p), nil
}

func (s *reportService) ResolveReport(ctx context.Context, actor Actor, reportID string, req *dto.ResolveReportRequest) (*dto.ReportResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if err := s.validator.ValidateApp(req); err != nil {
		return nil, err
	}

	report, err := s.reportRepo.FindByID(ctx, reportID)
	if err != nil {
		return nil, mapRepoError(err, apperrors.ErrReportNotFound)
	}
	if report.Status != models.ReportStatusOpen {
		return nil, apperrors.ErrInvalidStatus("report", "Report is already closed")
	}

	now := s.now()
	status := models.ReportStatus(req.Status)
	if err := s.reportRepo.Resolve(ctx, reportID, status, actor.UserID, now); err != nil {
		return nil, mapRepoError(err, apperrors.ErrReportNotFound)
	}

	report.Status = status
	report.ResolvedBy = &actor.UserID
	report.ResolvedAt = &now
	resp := dto.NewReportResponse(report)
	return &resp, nil
}
