package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"rentify_backend/internal/imageprocessor"
)

var (
	ErrImageTooLarge        = errors.New("image exceeds maximum size")
	ErrUnsupportedImageType = errors.New("unsupported image type")
)

// ImageUpload is one image received from a client.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// StoredImage is what the image host hands back: a public URL and a reference for deletion.
type StoredImage struct {
	URL        string
	ProviderID string
}

// ImageStore hosts listing photos.
type ImageStore interface {
	Upload(ctx context.Context, img ImageUpload) (*StoredImage, error)
	// Delete releases an image. Unknown references are not an error.
	Delete(ctx context.Context, providerID string) error
}

// BlobImageStore puts images into a Storage under a generated key.
type BlobImageStore struct {
	blobs        Storage
	folder       string
	maxSize      int64
	allowedTypes map[string]bool
	processor    *imageprocessor.Processor
}

func NewBlobImageStore(blobs Storage, cfg Config) *BlobImageStore {
	allowed := make(map[string]bool, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		allowed[strings.ToLower(t)] = true
	}
	folder := strings.Trim(cfg.Folder, "/")
	if folder == "" {
		folder = "properties"
	}
	store := &BlobImageStore{
		blobs:        blobs,
		folder:       folder,
		maxSize:      cfg.MaxSize,
		allowedTypes: allowed,
	}
	if cfg.MaxDimension > 0 {
		store.processor = imageprocessor.NewProcessor(cfg.MaxDimension, 0)
	}
	return store
}

func (s *BlobImageStore) Upload(ctx context.Context, img ImageUpload) (*StoredImage, error) {
	if err := CheckImage(img, s.maxSize, s.allowedTypes); err != nil {
		return nil, err
	}

	body := img.Reader
	if s.processor != nil {
		fitted, err := s.fit(img.Reader)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(fitted)
	}

	key := path.Join(s.folder, uuid.NewString()+imageExt(img))
	if err := s.blobs.Save(ctx, key, body, img.ContentType); err != nil {
		return nil, err
	}

	url, err := s.blobs.GetURL(ctx, key)
	if err != nil {
		return nil, err
	}
	return &StoredImage{URL: url, ProviderID: key}, nil
}

// fit reads the whole image (bounded by maxSize) and downsizes it if needed.
func (s *BlobImageStore) fit(r io.Reader) ([]byte, error) {
	if s.maxSize > 0 {
		r = io.LimitReader(r, s.maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrImageTooLarge, s.maxSize)
	}
	fitted, _, err := s.processor.Fit(data)
	return fitted, err
}

func (s *BlobImageStore) Delete(ctx context.Context, providerID string) error {
	if providerID == "" {
		return nil
	}
	return s.blobs.Delete(ctx, providerID)
}

// CheckImage enforces size and MIME type limits.
func CheckImage(img ImageUpload, maxSize int64, allowed map[string]bool) error {
	if maxSize > 0 && img.Size > maxSize {
		return fmt.Errorf("%w: %d > %d bytes", ErrImageTooLarge, img.Size, maxSize)
	}
	contentType := strings.ToLower(img.ContentType)
	if len(allowed) == 0 {
		if !strings.HasPrefix(contentType, "image/") {
			return fmt.Errorf("%w: %s", ErrUnsupportedImageType, img.ContentType)
		}
		return nil
	}
	if !allowed[contentType] {
		return fmt.Errorf("%w: %s", ErrUnsupportedImageType, img.ContentType)
	}
	return nil
}

func imageExt(img ImageUpload) string {
	if ext := strings.ToLower(path.Ext(img.Filename)); ext != "" {
		return ext
	}
	switch strings.ToLower(img.ContentType) {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
