package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"

	"rentify_backend/internal/logger"
	"rentify_backend/internal/metrics"
	"rentify_backend/internal/models"
	"rentify_backend/internal/repositories"
	"rentify_backend/internal/services/dto"
	"rentify_backend/internal/storage"
	"rentify_backend/internal/validator"
	"rentify_backend/pkg/apperrors"
)

const imageReleaseTimeout = 30 * time.Second

type PropertyService interface {
	// Public
	SearchProperties(ctx context.Context, req dto.PropertySearchRequest) (*dto.PaginatedResponse[dto.PropertyResponse], error)
	GetPropertyDetail(ctx context.Context, propertyID, viewerID string) (*dto.PropertyDetailResponse, error)
	CheckAccess(ctx context.Context, userID, propertyID string) (*dto.AccessResponse, error)

	// Owner
	CreateProperty(ctx context.Context, actor Actor, req *dto.CreatePropertyRequest, images []storage.ImageUpload) (*dto.PropertyResponse, error)
	UpdateProperty(ctx context.Context, actor Actor, propertyID string, req *dto.UpdatePropertyRequest) (*dto.PropertyResponse, error)
	DeleteProperty(ctx context.Context, actor Actor, propertyID string) error
	MyProperties(ctx context.Context, ownerID string, page, limit int) (*dto.PaginatedResponse[dto.PropertyResponse], error)
}

type propertyService struct {
	propertyRepo repositories.PropertyRepository
	access       *AccessPolicy
	images       storage.ImageStore
	validator    *validator.Validator
	metrics      *metrics.Metrics
	maxImages    int
}

func NewPropertyService(
	propertyRepo repositories.PropertyRepository,
	access *AccessPolicy,
	images storage.ImageStore,
	v *validator.Validator,
	m *metrics.Metrics,
	maxImages int,
) PropertyService {
	return &propertyService{
		propertyRepo: propertyRepo,
		access:       access,
		images:       images,
		validator:    v,
		metrics:      m,
		maxImages:    maxImages,
	}
}

// ================================
// Search
// ================================

func (s *propertyService) SearchProperties(ctx context.Context, req dto.PropertySearchRequest) (*dto.PaginatedResponse[dto.PropertyResponse], error) {
	page := repositories.Page{Page: req.Page, Limit: req.Limit}.Normalize()

	criteria := repositories.PropertySearchCriteria{
		Query:         req.Query,
		City:          req.City,
		State:         req.State,
		Pincode:       req.Pincode,
		MinRent:       req.MinRent,
		MaxRent:       req.MaxRent,
		MinArea:       req.MinArea,
		MaxArea:       req.MaxArea,
		PropertyTypes: req.PropertyTypes,
		BHK:           req.BHK,
		Furnished:     req.Furnished,
		Amenities:     req.Amenities,
		Available:     req.Available,
		IsFeatured:    req.IsFeatured,
		SortBy:        req.SortBy,
		SortOrder:     req.SortOrder,
		Page:          page,
	}

	properties, total, err := s.propertyRepo.Search(ctx, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	s.metrics.RecordSearch(total)

	return newPage(propertyResponses(properties, false), total, page), nil
}

func (s *propertyService) MyProperties(ctx context.Context, ownerID string, page, limit int) (*dto.PaginatedResponse[dto.PropertyResponse], error) {
	p := repositories.Page{Page: page, Limit: limit}.Normalize()
	properties, total, err := s.propertyRepo.FindByOwner(ctx, ownerID, p)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return newPage(propertyResponses(properties, true), total, p), nil
}

// ================================
// Detail & access
// ================================

func (s *propertyService) GetPropertyDetail(ctx context.Context, propertyID, viewerID string) (*dto.PropertyDetailResponse, error) {
	property, decision, err := s.evaluate(ctx, viewerID, propertyID)
	if err != nil {
		return nil, err
	}
	return &dto.PropertyDetailResponse{
		Property:       dto.NewPropertyResponse(property, decision.HasAccess),
		ContactVisible: decision.HasAccess,
	}, nil
}

func (s *propertyService) CheckAccess(ctx context.Context, userID, propertyID string) (*dto.AccessResponse, error) {
	if userID == "" {
		return nil, apperrors.NewUnauthorizedError("Authentication required")
	}
	_, decision, err := s.evaluate(ctx, userID, propertyID)
	if err != nil {
		return nil, err
	}
	return &dto.AccessResponse{
		HasAccess:     decision.HasAccess,
		Grandfathered: decision.Reason == AccessGrandfathered,
	}, nil
}

// evaluate loads the property first so a missing listing is NotFound and
// never a denied access.
func (s *propertyService) evaluate(ctx context.Context, viewerID, propertyID string) (*models.Property, AccessDecision, error) {
	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, AccessDecision{}, mapRepoError(err, apperrors.ErrPropertyNotFound)
	}
	decision, err := s.access.Evaluate(ctx, viewerID, property)
	if err != nil {
		return nil, AccessDecision{}, apperrors.InternalError(err)
	}
	return property, decision, nil
}

// ================================
// Lifecycle
// ================================

func (s *propertyService) CreateProperty(ctx context.Context, actor Actor, req *dto.CreatePropertyRequest, images []storage.ImageUpload) (*dto.PropertyResponse, error) {
	if !actor.Role.CanListProperties() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if err := s.validator.ValidateApp(req); err != nil {
		return nil, err
	}
	if err := checkFloors(req.Floor, req.TotalFloors); err != nil {
		return nil, err
	}
	if s.maxImages > 0 && len(images) > s.maxImages {
		return nil, apperrors.FieldError("images", "Too many images")
	}
	if req.PrimaryImage != nil && *req.PrimaryImage >= len(images) {
		return nil, apperrors.FieldError("primaryImage", "Must reference an uploaded image")
	}

	property := req.ToModel(actor.UserID)

	uploaded, err := s.uploadImages(ctx, images, req.PrimaryImage)
	if err != nil {
		return nil, err
	}
	property.Images = uploaded

	if err := s.propertyRepo.Create(ctx, property); err != nil {
		logger.CtxWithError(ctx, "property insert failed, uploaded images left in store", err,
			"provider_ids", providerIDs(uploaded))
		return nil, apperrors.InternalError(err)
	}

	s.metrics.RecordPropertyCreated()
	logger.CtxInfo(ctx, "property created", "property_id", property.ID, "owner_id", actor.UserID, "images", len(uploaded))

	resp := dto.NewPropertyResponse(property, true)
	return &resp, nil
}

// uploadImages pushes images one by one. On failure the images already stored
// stay in the store; they are logged for manual cleanup.
func (s *propertyService) uploadImages(ctx context.Context, images []storage.ImageUpload, primary *int) (datatypes.JSONSlice[models.PropertyImage], error) {
	out := make(datatypes.JSONSlice[models.PropertyImage], 0, len(images))
	if len(images) == 0 {
		return out, nil
	}
	if s.images == nil {
		return nil, apperrors.ErrImageUploadFailed.WithError(errors.New("image store is not configured"))
	}

	primaryIdx := 0
	if primary != nil {
		primaryIdx = *primary
	}

	for i, img := range images {
		stored, err := s.images.Upload(ctx, img)
		if err != nil {
			s.metrics.RecordImageUploadFailure()
			if len(out) > 0 {
				logger.CtxWithError(ctx, "image upload failed, earlier uploads not rolled back", err,
					"provider_ids", providerIDs(out))
			}
			if errors.Is(err, storage.ErrImageTooLarge) || errors.Is(err, storage.ErrUnsupportedImageType) {
				return nil, apperrors.FieldError("images", err.Error())
			}
			return nil, apperrors.ErrImageUploadFailed.WithError(err)
		}
		out = append(out, models.PropertyImage{
			URL:        stored.URL,
			ProviderID: stored.ProviderID,
			IsPrimary:  i == primaryIdx,
		})
	}
	return out, nil
}

func (s *propertyService) UpdateProperty(ctx context.Context, actor Actor, propertyID string, req *dto.UpdatePropertyRequest) (*dto.PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, mapRepoError(err, apperrors.ErrPropertyNotFound)
	}
	if property.OwnerID != actor.UserID {
		return nil, apperrors.ErrNotPropertyOwner
	}
	if err := s.validator.ValidateApp(req); err != nil {
		return nil, err
	}

	floor, total := property.Floor, property.TotalFloors
	if req.Floor != nil {
		floor = req.Floor
	}
	if req.TotalFloors != nil {
		total = req.TotalFloors
	}
	if err := checkFloors(floor, total); err != nil {
		return nil, err
	}

	if err := s.propertyRepo.Update(ctx, propertyID, req.ToUpdates()); err != nil {
		return nil, mapRepoError(err, apperrors.ErrPropertyNotFound)
	}

	updated, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, mapRepoError(err, apperrors.ErrPropertyNotFound)
	}
	resp := dto.NewPropertyResponse(updated, true)
	return &resp, nil
}

func (s *propertyService) DeleteProperty(ctx context.Context, actor Actor, propertyID string) error {
	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return mapRepoError(err, apperrors.ErrPropertyNotFound)
	}
	if property.OwnerID != actor.UserID && !actor.IsAdmin() {
		return apperrors.ErrNotPropertyOwner
	}

	if err := s.propertyRepo.Delete(ctx, propertyID); err != nil {
		return mapRepoError(err, apperrors.ErrPropertyNotFound)
	}
	logger.CtxInfo(ctx, "property deleted", "property_id", propertyID, "actor_id", actor.UserID)

	s.releaseImages(ctx, property.Images)
	return nil
}

// releaseImages deletes the listing photos in the background. Failures are
// only logged; the listing is already gone.
func (s *propertyService) releaseImages(ctx context.Context, images []models.PropertyImage) {
	ids := providerIDs(images)
	if len(ids) == 0 || s.images == nil {
		return
	}
	bg := context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(bg, imageReleaseTimeout)
		defer cancel()
		for _, id := range ids {
			if err := s.images.Delete(ctx, id); err != nil {
				logger.CtxWithError(ctx, "failed to release property image", err, "provider_id", id)
			}
		}
	}()
}

func checkFloors(floor, total *int) error {
	if floor != nil && total != nil && *floor > *total {
		return apperrors.FieldError("floor", "Must not exceed totalFloors")
	}
	return nil
}

func providerIDs(images []models.PropertyImage) []string {
	ids := make([]string, 0, len(images))
	for _, img := range images {
		if img.ProviderID != "" {
			ids = append(ids, img.ProviderID)
		}
	}
	return ids
}
