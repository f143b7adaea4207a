package repositories

import (
	"context"
	"errors"
	"time"

	"rentify_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrPropertyViewNotFound = errors.New("property view not found")

type PropertyViewRepository interface {
	Find(ctx context.Context, userID, propertyID string) (*models.PropertyView, error)
	// Upsert records a view for (user, property), updating the existing row if any.
	Upsert(ctx context.Context, userID, propertyID string, status models.SubscriptionStatus, viewedAt time.Time) error
	CountByProperty(ctx context.Context, propertyID string) (int64, error)
}

type PropertyViewRepositoryImpl struct {
	db *gorm.DB
}

func NewPropertyViewRepository(db *gorm.DB) PropertyViewRepository {
	return &PropertyViewRepositoryImpl{db: db}
}

func (r *PropertyViewRepositoryImpl) Find(ctx context.Context, userID, propertyID string) (*models.PropertyView, error) {
	var view models.PropertyView
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		First(&view).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyViewNotFound
		}
		return nil, err
	}
	return &view, nil
}

func (r *PropertyViewRepositoryImpl) Upsert(ctx context.Context, userID, propertyID string, status models.SubscriptionStatus, viewedAt time.Time) error {
	view := &models.PropertyView{
		UserID:             userID,
		PropertyID:         propertyID,
		ViewedAt:           viewedAt,
		SubscriptionStatus: status,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "property_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"viewed_at", "subscription_status", "updated_at"}),
	}).Create(view).Error
}

func (r *PropertyViewRepositoryImpl) CountByProperty(ctx context.Context, propertyID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PropertyView{}).
		Where("property_id = ?", propertyID).
		Count(&count).Error
	return count, err
}
