// Package io provides a filesystem-backed loader source.
package io

import (
	"context"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"
)

// FileSource loads files directly from the local filesystem with
// caching. Concurrent requests for the same path share one read.
type FileSource struct {
	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewFileSource creates a new filesystem-based source.
func NewFileSource() *FileSource {
	return &FileSource{
		cache: make(map[string][]byte),
	}
}

// GetFileBytes reads the file content from the filesystem. Results are
// cached for the lifetime of the source.
func (s *FileSource) GetFileBytes(ctx context.Context, key string) ([]byte, error) {
	s.cacheMu.RLock()
	if cached, ok := s.cache[key]; ok {
		s.cacheMu.RUnlock()
		return cached, nil
	}
	s.cacheMu.RUnlock()

	result, err, _ := s.group.Do(key, func() (any, error) {
		s.cacheMu.RLock()
		if cached, ok := s.cache[key]; ok {
			s.cacheMu.RUnlock()
			return cached, nil
		}
		s.cacheMu.RUnlock()

		raw, err := os.ReadFile(key)
		if err != nil {
			return nil, err
		}

		s.cacheMu.Lock()
		s.cache[key] = raw
		s.cacheMu.Unlock()

		return raw, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}
