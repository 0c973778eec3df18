package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore writes uploaded images to the local filesystem
type LocalStore struct {
	basePath string
}

// NewLocalStore creates a local image store rooted at basePath
func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStore{basePath: basePath}, nil
}

// Put stores an image on the local filesystem
func (ls *LocalStore) Put(ctx context.Context, uploadID uuid.UUID, mimeType string, data io.Reader) (string, error) {
	ext, err := extensionFor(mimeType)
	if err != nil {
		return "", err
	}
	storagePath := storagePathFor(uploadID, ext)
	fullPath := filepath.Join(ls.basePath, storagePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, data); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return storagePath, nil
}

// Get retrieves an image from the local filesystem
func (ls *LocalStore) Get(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	fullPath := filepath.Join(ls.basePath, storagePath)
	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image not found: %s", storagePath)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Delete removes an image from the local filesystem
func (ls *LocalStore) Delete(ctx context.Context, storagePath string) error {
	fullPath := filepath.Join(ls.basePath, storagePath)
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
