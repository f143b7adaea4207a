package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage is a flat blob store keyed by path.
type Storage interface {
	// Save stores a file at the given path
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error

	// Delete removes a file at the given path. Missing files are not an error.
	Delete(ctx context.Context, path string) error

	// Exists checks if a file exists at the given path
	Exists(ctx context.Context, path string) (bool, error)

	// GetURL returns a public URL for the file
	GetURL(ctx context.Context, path string) (string, error)
}

// Config holds storage configuration
type Config struct {
	Type       string // local, s3, cloudflare_r2, cloudinary
	BasePath   string // For local storage
	BaseURL    string // Public URL base
	Bucket     string // For S3/R2
	Region     string // For S3
	AccessKey  string // For S3/R2
	SecretKey  string // For S3/R2
	Endpoint   string // For R2 or custom S3
	PublicRead bool   // Make files public by default

	CloudName string // For Cloudinary
	APIKey    string
	APISecret string
	Folder    string // key prefix / Cloudinary folder

	MaxSize      int64    // per image, bytes; 0 = unlimited
	AllowedTypes []string // MIME types; empty = any image/*
	MaxDimension int      // px по большей стороне; 0 = без ресайза
}

// NewStorage creates a blob storage instance based on configuration
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg)
	case "s3", "cloudflare_r2":
		return NewObjectStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// NewImageStore builds the image store used for property photos.
func NewImageStore(cfg Config) (ImageStore, error) {
	if cfg.Type == "cloudinary" {
		return NewCloudinaryImageStore(cfg)
	}
	blobs, err := NewStorage(cfg)
	if err != nil {
		return nil, err
	}
	return NewBlobImageStore(blobs, cfg), nil
}
