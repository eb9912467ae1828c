package services

import (
	"fmt"
	"mime/multipart"

	"github.com/kartlink/kartlink-api/config"
)

// FileStorage abstracts where uploaded assets live. Paths are always stored
// relative to the storage root; URLs are derived, never persisted.
type FileStorage interface {
	// Save validates nothing; callers validate first. It stores the upload
	// under dir and returns the relative path.
	Save(fileHeader *multipart.FileHeader, dir string) (string, error)

	// URL derives a public URL for a stored path. Empty path yields "".
	URL(path string) string

	// Delete removes a stored file. Deleting an empty path is a no-op.
	Delete(path string) error
}

var fileStorageInstance FileStorage

// InitFileStorage initializes the configured storage backend.
func InitFileStorage(cfg *config.Config) (FileStorage, error) {
	switch cfg.StorageDriver {
	case "s3":
		storage, err := NewS3Storage(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		fileStorageInstance = storage
	case "local":
		fileStorageInstance = NewLocalStorage(cfg.StorageRoot, cfg.StorageBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	return fileStorageInstance, nil
}

// GetFileStorage returns the initialized storage instance
func GetFileStorage() FileStorage {
	return fileStorageInstance
}

// SetFileStorage sets the storage instance (primarily for testing)
func SetFileStorage(storage FileStorage) {
	fileStorageInstance = storage
}
