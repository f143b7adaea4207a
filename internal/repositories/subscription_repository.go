package repositories

import (
	"context"
	"errors"
	"time"

	"rentify_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrLiveSubscriptionExists is returned when the one-live-subscription index rejects an insert.
	ErrLiveSubscriptionExists = errors.New("user already has an active or pending subscription")
)

type SubscriptionRepository interface {
	FindByID(ctx context.Context, id string) (*models.Subscription, error)
	// FindLiveByUser returns the user's active or pending subscription regardless of end date.
	FindLiveByUser(ctx context.Context, userID string) (*models.Subscription, error)
	// FindActiveByUser applies the live entitlement rule: status active and end date not passed.
	FindActiveByUser(ctx context.Context, userID string, now time.Time) (*models.Subscription, error)
	FindLatestByUser(ctx context.Context, userID string) (*models.Subscription, error)

	// CreateWithMirror inserts the subscription and mirrors it onto the user in one transaction.
	CreateWithMirror(ctx context.Context, sub *models.Subscription) error
	// UpdateStatusWithMirror changes the status and mirrors the result onto the user.
	UpdateStatusWithMirror(ctx context.Context, sub *models.Subscription, status models.SubscriptionStatus, cancelledAt *time.Time) error
	// ExpireLapsed moves active subscriptions with end_date < now to expired.
	ExpireLapsed(ctx context.Context, now time.Time) (int64, error)
}

type SubscriptionRepositoryImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &SubscriptionRepositoryImpl{db: db}
}

func (r *SubscriptionRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepositoryImpl) FindLiveByUser(ctx context.Context, userID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID, []models.SubscriptionStatus{
			models.SubscriptionStatusActive, models.SubscriptionStatusPending,
		}).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepositoryImpl) FindActiveByUser(ctx context.Context, userID string, now time.Time) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND end_date >= ?", userID, models.SubscriptionStatusActive, now).
		Order("end_date DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepositoryImpl) FindLatestByUser(ctx context.Context, userID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepositoryImpl) CreateWithMirror(ctx context.Context, sub *models.Subscription) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sub).Error; err != nil {
			return err
		}
		expiry := sub.EndDate
		return updateSubscriptionMirror(tx, sub.UserID, SubscriptionMirror{
			SubscriptionID: &sub.ID,
			Status:         sub.Status,
			Expiry:         &expiry,
		})
	})
	if IsDuplicateKey(err) {
		return ErrLiveSubscriptionExists
	}
	return err
}

func (r *SubscriptionRepositoryImpl) UpdateStatusWithMirror(ctx context.Context, sub *models.Subscription, status models.SubscriptionStatus, cancelledAt *time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": status}
		if cancelledAt != nil {
			updates["cancelled_at"] = *cancelledAt
		}
		result := tx.Model(&models.Subscription{}).Where("id = ?", sub.ID).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSubscriptionNotFound
		}

		if status.IsLive() {
			// живая подписка у пользователя одна (частичный индекс), она и есть текущая
			expiry := sub.EndDate
			return updateSubscriptionMirror(tx, sub.UserID, SubscriptionMirror{
				SubscriptionID: &sub.ID,
				Status:         status,
				Expiry:         &expiry,
			})
		}

		// Старая подписка не трогает зеркало, если пользователь уже на другой.
		return tx.Model(&models.User{}).
			Where("id = ? AND subscription_id = ?", sub.UserID, sub.ID).
			Updates(map[string]interface{}{
				"subscription_status": status,
				"subscription_expiry": nil,
			}).Error
	})
	if IsDuplicateKey(err) {
		return ErrLiveSubscriptionExists
	}
	if err != nil {
		return err
	}

	sub.Status = status
	if cancelledAt != nil {
		sub.CancelledAt = cancelledAt
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	var expired int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lapsed []models.Subscription
		if err := tx.Where("status = ? AND end_date < ?", models.SubscriptionStatusActive, now).
			Find(&lapsed).Error; err != nil {
			return err
		}
		if len(lapsed) == 0 {
			return nil
		}

		ids := make([]string, 0, len(lapsed))
		userIDs := make([]string, 0, len(lapsed))
		for _, s := range lapsed {
			ids = append(ids, s.ID)
			userIDs = append(userIDs, s.UserID)
		}

		result := tx.Model(&models.Subscription{}).Where("id IN ?", ids).
			Update("status", models.SubscriptionStatusExpired)
		if result.Error != nil {
			return result.Error
		}
		expired = result.RowsAffected

		// Only users whose mirror still points at a lapsed subscription.
		return tx.Model(&models.User{}).
			Where("id IN ? AND subscription_id IN ?", userIDs, ids).
			Updates(map[string]interface{}{
				"subscription_status": models.SubscriptionStatusExpired,
				"subscription_expiry": nil,
			}).Error
	})
	return expired, err
}
