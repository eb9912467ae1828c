package services

import (
	"fmt"
	"mime/multipart"
	"sync"
)

// MockFileStorage is an in-memory FileStorage implementation for testing
type MockFileStorage struct {
	savedFiles map[string][]byte // map of relative path to file content
	mu         sync.RWMutex
}

// NewMockFileStorage creates a new mock storage
func NewMockFileStorage() *MockFileStorage {
	return &MockFileStorage{
		savedFiles: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global storage instance for testing
func (m *MockFileStorage) SetAsMockForTesting() {
	SetFileStorage(m)
}

// Save simulates storing an uploaded file
func (m *MockFileStorage) Save(fileHeader *multipart.FileHeader, dir string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content := make([]byte, fileHeader.Size)
	if _, err := file.Read(content); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	path := fmt.Sprintf("%s/mock_%s", dir, fileHeader.Filename)

	m.mu.Lock()
	m.savedFiles[path] = content
	m.mu.Unlock()

	return path, nil
}

// URL returns a deterministic mock URL
func (m *MockFileStorage) URL(path string) string {
	if path == "" {
		return ""
	}
	return "http://storage.test/" + path
}

// Delete removes a file from mock storage
func (m *MockFileStorage) Delete(path string) error {
	if path == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.savedFiles, path)
	m.mu.Unlock()

	return nil
}

// FileExists checks if a file exists in mock storage
func (m *MockFileStorage) FileExists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.savedFiles[path]
	return exists
}

// Files lists the paths currently held in mock storage
func (m *MockFileStorage) Files() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.savedFiles))
	for path := range m.savedFiles {
		paths = append(paths, path)
	}
	return paths
}

// Clear removes all files from mock storage
func (m *MockFileStorage) Clear() {
	m.mu.Lock()
	m.savedFiles = make(map[string][]byte)
	m.mu.Unlock()
}
