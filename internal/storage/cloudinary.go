package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryImageStore hosts images on Cloudinary; ProviderID is the public id.
type CloudinaryImageStore struct {
	cld          *cloudinary.Cloudinary
	folder       string
	maxSize      int64
	allowedTypes map[string]bool
}

func NewCloudinaryImageStore(cfg Config) (*CloudinaryImageStore, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloud name, api key and api secret are required for Cloudinary")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true

	allowed := make(map[string]bool, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		allowed[strings.ToLower(t)] = true
	}

	return &CloudinaryImageStore{
		cld:          cld,
		folder:       cfg.Folder,
		maxSize:      cfg.MaxSize,
		allowedTypes: allowed,
	}, nil
}

func (s *CloudinaryImageStore) Upload(ctx context.Context, img ImageUpload) (*StoredImage, error) {
	if err := CheckImage(img, s.maxSize, s.allowedTypes); err != nil {
		return nil, err
	}

	resp, err := s.cld.Upload.Upload(ctx, img.Reader, uploader.UploadParams{
		Folder: s.folder,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}

	return &StoredImage{URL: resp.SecureURL, ProviderID: resp.PublicID}, nil
}

func (s *CloudinaryImageStore) Delete(ctx context.Context, providerID string) error {
	if providerID == "" {
		return nil
	}
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: providerID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	// "not found" is fine: the image is already gone.
	if resp.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", resp.Error.Message)
	}
	return nil
}
