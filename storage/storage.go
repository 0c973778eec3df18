package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
)

// ImageStore persists images uploaded with suggestion requests so a
// classification can be audited later. Writes are best-effort from the
// caller's point of view: a failed store never fails the request.
type ImageStore interface {
	// Put stores an image and returns the storage path
	Put(ctx context.Context, uploadID uuid.UUID, mimeType string, data io.Reader) (string, error)

	// Get retrieves an image by storage path
	Get(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes an image by storage path
	Delete(ctx context.Context, storagePath string) error
}

// StoreType represents the storage backend type
type StoreType string

const (
	StoreTypeLocal StoreType = "local"
	StoreTypeS3    StoreType = "s3"
)

// Config holds configuration for image storage
type Config struct {
	Type         StoreType
	LocalPath    string // For local storage
	S3Bucket     string // For S3 storage
	S3Region     string // For S3 storage
	AWSAccessKey string
	AWSSecretKey string
}

// New creates an image store from configuration
func New(cfg Config) (ImageStore, error) {
	switch cfg.Type {
	case StoreTypeLocal:
		return NewLocalStore(cfg.LocalPath)
	case StoreTypeS3:
		return NewS3Store(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// NewFromEnv creates an image store from environment variables
func NewFromEnv() (ImageStore, error) {
	storeType := os.Getenv("STORAGE_TYPE")
	if storeType == "" {
		storeType = "local" // Default to local for development
	}

	cfg := Config{
		Type: StoreType(storeType),
	}

	switch StoreType(storeType) {
	case StoreTypeLocal:
		localPath := os.Getenv("STORAGE_LOCAL_PATH")
		if localPath == "" {
			localPath = "./storage/uploads"
		}
		cfg.LocalPath = localPath
		return NewLocalStore(cfg.LocalPath)

	case StoreTypeS3:
		cfg.S3Bucket = os.Getenv("AWS_S3_BUCKET")
		cfg.S3Region = os.Getenv("AWS_REGION")
		if cfg.S3Region == "" {
			cfg.S3Region = "us-east-1" // Default region
		}
		cfg.AWSAccessKey = os.Getenv("AWS_ACCESS_KEY_ID")
		cfg.AWSSecretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")

		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET environment variable is required for S3 storage")
		}

		return NewS3Store(cfg)

	default:
		return nil, fmt.Errorf("unknown storage type: %s", storeType)
	}
}

// extensionFor maps the accepted upload MIME types to file extensions.
// Anything else is rejected before it reaches a backend.
func extensionFor(mimeType string) (string, error) {
	switch mimeType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/webp":
		return ".webp", nil
	case "image/gif":
		return ".gif", nil
	default:
		return "", fmt.Errorf("unsupported image type: %s", mimeType)
	}
}

// storagePathFor shards uploads by the ID's first two hex chars to keep
// directories small.
func storagePathFor(uploadID uuid.UUID, ext string) string {
	id := uploadID.String()
	return fmt.Sprintf("%s/%s%s", id[:2], id, ext)
}
