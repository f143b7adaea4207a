package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"rentify_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrPropertyNotFound = errors.New("property not found")

type PropertyRepository interface {
	Create(ctx context.Context, property *models.Property) error
	FindByID(ctx context.Context, id string) (*models.Property, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error

	Search(ctx context.Context, criteria PropertySearchCriteria) ([]models.Property, int64, error)
	FindByOwner(ctx context.Context, ownerID string, page Page) ([]models.Property, int64, error)
	FindPending(ctx context.Context, page Page) ([]models.Property, int64, error)

	SetApproved(ctx context.Context, id string, approved bool) error
	SetFeatured(ctx context.Context, id string, featured bool) error
}

// PropertySearchCriteria is the typed, already-parsed filter set. Nil or empty
// fields impose no constraint.
type PropertySearchCriteria struct {
	Query   string
	City    string
	State   string
	Pincode string

	MinRent *float64
	MaxRent *float64
	MinArea *float64
	MaxArea *float64

	PropertyTypes []string
	BHK           []int
	Furnished     []string
	Amenities     []string

	Available  *bool
	IsFeatured *bool

	SortBy    string
	SortOrder string
	Page      Page
}

// sortColumns maps public sort keys onto columns. Anything else sorts by creation time.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"rent":      "rent_amount",
	"deposit":   "deposit",
	"bhk":       "bhk",
	"area":      "area_size",
	"views":     "views",
	"rating":    "rating_average",
	"title":     "title",
}

// SortKeys lists the accepted sortBy values.
func SortKeys() []string {
	keys := make([]string, 0, len(sortColumns))
	for k := range sortColumns {
		keys = append(keys, k)
	}
	return keys
}

type PropertyRepositoryImpl struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &PropertyRepositoryImpl{db: db}
}

// ownerSummary never loads the password hash.
func ownerSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email", "phone", "is_verified", "role")
}

func (r *PropertyRepositoryImpl) Create(ctx context.Context, property *models.Property) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(property).Error
}

func (r *PropertyRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).
		Preload("Owner", ownerSummary).
		First(&property, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &property, nil
}

// Update applies a column map. owner_id is never writable here.
func (r *PropertyRepositoryImpl) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	delete(updates, "owner_id")
	delete(updates, "id")
	if len(updates) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&models.Property{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

// Delete removes the listing together with its view and report rows.
func (r *PropertyRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", id).Delete(&models.PropertyView{}).Error; err != nil {
			return err
		}
		if err := tx.Where("property_id = ?", id).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Property{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPropertyNotFound
		}
		return nil
	})
}

// IncrementViews is a single atomic UPDATE; concurrent fetches never lose a count.
func (r *PropertyRepositoryImpl) IncrementViews(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&models.Property{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

func (r *PropertyRepositoryImpl) Search(ctx context.Context, criteria PropertySearchCriteria) ([]models.Property, int64, error) {
	var properties []models.Property
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Property{})

	// Публичная выдача: только одобренные и доступные объявления
	query = query.Where("approved = ? AND available = ?", true, true)
	query = applyPropertyFilters(query, criteria)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := criteria.Page.Normalize()
	err := query.
		Preload("Owner", ownerSummary).
		Order(sortClause(criteria.SortBy, criteria.SortOrder)).
		Order("id").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&properties).Error

	return properties, total, err
}

// FindByOwner bypasses the public baseline: owners see every listing they have.
func (r *PropertyRepositoryImpl) FindByOwner(ctx context.Context, ownerID string, page Page) ([]models.Property, int64, error) {
	var properties []models.Property
	var total int64

	page = page.Normalize()
	query := r.db.WithContext(ctx).Model(&models.Property{}).Where("owner_id = ?", ownerID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Owner", ownerSummary).
		Order("created_at DESC").
		Order("id").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&properties).Error

	return properties, total, err
}

func (r *PropertyRepositoryImpl) FindPending(ctx context.Context, page Page) ([]models.Property, int64, error) {
	var properties []models.Property
	var total int64

	page = page.Normalize()
	query := r.db.WithContext(ctx).Model(&models.Property{}).Where("approved = ?", false)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Owner", ownerSummary).
		Order("created_at ASC").
		Order("id").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&properties).Error

	return properties, total, err
}

func (r *PropertyRepositoryImpl) SetApproved(ctx context.Context, id string, approved bool) error {
	return r.setFlag(ctx, id, "approved", approved)
}

func (r *PropertyRepositoryImpl) SetFeatured(ctx context.Context, id string, featured bool) error {
	return r.setFlag(ctx, id, "is_featured", featured)
}

func (r *PropertyRepositoryImpl) setFlag(ctx context.Context, id, column string, value bool) error {
	result := r.db.WithContext(ctx).Model(&models.Property{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

func applyPropertyFilters(query *gorm.DB, c PropertySearchCriteria) *gorm.DB {
	// Text search
	if q := strings.TrimSpace(c.Query); q != "" {
		pattern := likePattern(q)
		query = query.Where(
			"LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\' OR LOWER(address_city) LIKE ? ESCAPE '\\' OR LOWER(address_state) LIKE ? ESCAPE '\\'",
			pattern, pattern, pattern, pattern,
		)
	}

	// Address
	if c.City != "" {
		query = query.Where("LOWER(address_city) LIKE ? ESCAPE '\\'", likePattern(c.City))
	}
	if c.State != "" {
		query = query.Where("LOWER(address_state) LIKE ? ESCAPE '\\'", likePattern(c.State))
	}
	if c.Pincode != "" {
		query = query.Where("address_pincode LIKE ? ESCAPE '\\'", likePattern(c.Pincode))
	}

	// Ranges
	if c.MinRent != nil {
		query = query.Where("rent_amount >= ?", *c.MinRent)
	}
	if c.MaxRent != nil {
		query = query.Where("rent_amount <= ?", *c.MaxRent)
	}
	if c.MinArea != nil {
		query = query.Where("area_size >= ?", *c.MinArea)
	}
	if c.MaxArea != nil {
		query = query.Where("area_size <= ?", *c.MaxArea)
	}

	// Set membership
	if len(c.PropertyTypes) > 0 {
		query = query.Where("property_type IN ?", c.PropertyTypes)
	}
	if len(c.BHK) > 0 {
		query = query.Where("bhk IN ?", c.BHK)
	}
	if len(c.Furnished) > 0 {
		query = query.Where("furnished IN ?", c.Furnished)
	}

	if len(c.Amenities) > 0 {
		query = whereAmenitiesContain(query, c.Amenities)
	}

	if c.Available != nil {
		query = query.Where("available = ?", *c.Available)
	}
	if c.IsFeatured != nil {
		query = query.Where("is_featured = ?", *c.IsFeatured)
	}

	return query
}

// whereAmenitiesContain requires every listed amenity to be present.
func whereAmenitiesContain(query *gorm.DB, amenities []string) *gorm.DB {
	if query.Dialector.Name() == "postgres" {
		payload, err := json.Marshal(amenities)
		if err != nil {
			_ = query.AddError(fmt.Errorf("encode amenities filter: %w", err))
			return query
		}
		return query.Where("amenities @> ?::jsonb", string(payload))
	}
	for _, amenity := range amenities {
		query = query.Where(
			"EXISTS (SELECT 1 FROM json_each(CAST(properties.amenities AS TEXT)) WHERE json_each.value = ?)",
			amenity,
		)
	}
	return query
}

func sortClause(sortBy, sortOrder string) string {
	column, ok := sortColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		direction = "ASC"
	}
	return column + " " + direction
}

// likePattern lower-cases the term and escapes LIKE wildcards.
func likePattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}
