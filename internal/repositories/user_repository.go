package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"rentify_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateRole(ctx context.Context, userID string, role models.UserRole) error
	UpdateSubscriptionMirror(ctx context.Context, userID string, mirror SubscriptionMirror) error
	FindWithFilter(ctx context.Context, filter UserFilter) ([]models.User, int64, error)
	CountByRole(ctx context.Context, role models.UserRole) (int64, error)
}

// SubscriptionMirror is the cached copy of the current subscription kept on the user row.
type SubscriptionMirror struct {
	SubscriptionID *string
	Status         models.SubscriptionStatus
	Expiry         *time.Time
}

type UserFilter struct {
	Role   models.UserRole
	Search string
	Page   Page
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.SubscriptionStatus == "" {
		user.SubscriptionStatus = models.SubscriptionStatusInactive
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if IsDuplicateKey(err) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepositoryImpl) UpdateRole(ctx context.Context, userID string, role models.UserRole) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdateSubscriptionMirror(ctx context.Context, userID string, mirror SubscriptionMirror) error {
	return updateSubscriptionMirror(r.db.WithContext(ctx), userID, mirror)
}

// updateSubscriptionMirror is shared with the subscription repository so the
// mirror can be written inside its transactions.
func updateSubscriptionMirror(db *gorm.DB, userID string, mirror SubscriptionMirror) error {
	updates := map[string]interface{}{
		"subscription_status": mirror.Status,
		"subscription_expiry": mirror.Expiry,
	}
	if mirror.SubscriptionID != nil {
		updates["subscription_id"] = *mirror.SubscriptionID
	}
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) FindWithFilter(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	page := filter.Page.Normalize()
	query := r.db.WithContext(ctx).Model(&models.User{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&users).Error

	return users, total, err
}

func (r *UserRepositoryImpl) CountByRole(ctx context.Context, role models.UserRole) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}
