package services

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStorage stores uploads on the local filesystem under a public root and
// serves them through the static /storage route.
type LocalStorage struct {
	root    string
	baseURL string
}

// NewLocalStorage creates a local disk storage rooted at root.
func NewLocalStorage(root, baseURL string) *LocalStorage {
	return &LocalStorage{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Save stores the uploaded file under dir and returns its relative path.
func (s *LocalStorage) Save(fileHeader *multipart.FileHeader, dir string) (relPath string, err error) {
	targetDir := filepath.Join(s.root, dir)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	// Random filename to prevent collisions and path guessing
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	filename := uuid.NewString() + ext
	relPath = filepath.ToSlash(filepath.Join(dir, filename))
	fullPath := filepath.Join(targetDir, filename)

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			log.Printf("warning: failed to close source file: %v", closeErr)
		}
	}()

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close destination file: %w", closeErr)
		}
	}()

	if _, err := io.Copy(dst, src); err != nil {
		// Remove the partial file so a failed upload leaves no orphan behind
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return relPath, nil
}

// URL joins the public storage base with the relative path.
func (s *LocalStorage) URL(path string) string {
	if path == "" {
		return ""
	}
	return s.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Delete removes a stored file from disk.
func (s *LocalStorage) Delete(path string) error {
	if path == "" {
		return nil
	}
	fullPath := filepath.Join(s.root, filepath.FromSlash(path))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
