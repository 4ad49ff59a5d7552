package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps records in a mutex-guarded map. It is the default
// backend and the one the test suites run against.
type MemoryStore struct {
	mu            sync.Mutex
	maxValueBytes int
	records       map[string]string
}

func NewMemoryStore(maxValueBytes int) *MemoryStore {
	if maxValueBytes <= 0 {
		maxValueBytes = DefaultMaxValueBytes
	}
	return &MemoryStore{
		maxValueBytes: maxValueBytes,
		records:       make(map[string]string),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.records[key]
	return value, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	if len(value) > s.maxValueBytes {
		return ErrValueTooLarge
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = value
	return nil
}
