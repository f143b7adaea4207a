package repositories

import (
	"context"
	"errors"
	"time"

	"rentify_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrReportNotFound   = errors.New("report not found")
	ErrOpenReportExists = errors.New("open report already exists")
)

type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	FindByID(ctx context.Context, id string) (*models.Report, error)
	HasOpenReport(ctx context.Context, reporterID, propertyID string) (bool, error)
	FindWithFilter(ctx context.Context, status models.ReportStatus, page Page) ([]models.Report, int64, error)
	Resolve(ctx context.Context, id string, status models.ReportStatus, resolvedBy string, resolvedAt time.Time) error
}

type ReportRepositoryImpl struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &ReportRepositoryImpl{db: db}
}

func (r *ReportRepositoryImpl) Create(ctx context.Context, report *models.Report) error {
	if report.Status == "" {
		report.Status = models.ReportStatusOpen
	}
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		if IsDuplicateKey(err) {
			return ErrOpenReportExists
		}
		return err
	}
	return nil
}

func (r *ReportRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepositoryImpl) HasOpenReport(ctx context.Context, reporterID, propertyID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("reporter_id = ? AND property_id = ? AND status = ?", reporterID, propertyID, models.ReportStatusOpen).
		Count(&count).Error
	return count > 0, err
}

func (r *ReportRepositoryImpl) FindWithFilter(ctx context.Context, status models.ReportStatus, page Page) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	page = page.Normalize()
	query := r.db.WithContext(ctx).Model(&models.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&reports).Error

	return reports, total, err
}

func (r *ReportRepositoryImpl) Resolve(ctx context.Context, id string, status models.ReportStatus, resolvedBy string, resolvedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"resolved_by": resolvedBy,
			"resolved_at": resolvedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}
