package storage

import (
	"context"
	"errors"
	"strings"
	"sync"

	analysisapp "github.com/wardrobe/backend/internal/application/analysis"
)

var _ analysisapp.ImageStorage = (*MemoryImageStorage)(nil)

// MemoryImageStorage keeps images in process memory. It is used when no
// bucket is configured and in tests.
type MemoryImageStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryImageStorage creates an empty storage serving URLs under baseURL
func NewMemoryImageStorage(baseURL string) *MemoryImageStorage {
	if baseURL == "" {
		baseURL = "memory://images"
	}
	return &MemoryImageStorage{
		BaseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string][]byte),
	}
}

func (s *MemoryImageStorage) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	return s.BaseURL + "/" + key, nil
}

func (s *MemoryImageStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Get returns a stored image
func (s *MemoryImageStorage) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}

func (s *MemoryImageStorage) Ping(context.Context) error {
	return nil
}
