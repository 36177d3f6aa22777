package memory

import (
	"context"
	"fmt"
	"sync"

	storageif "github.com/kawabatas/prompt-deploy/internal/infra/storage"
)

// Store is a trivial in-process ObjectStore keeping objects in a map guarded
// by an RWMutex. Useful for tests and single-process experiments; it does not
// survive restarts.
type Store struct {
	mu      sync.RWMutex
	objects map[string]string
}

var _ storageif.ObjectStore = (*Store)(nil)

func New() *Store {
	return &Store{objects: make(map[string]string)}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.objects[key]
	if !ok {
		return "", fmt.Errorf("memory get %s: %w", key, storageif.ErrNotFound)
	}
	return content, nil
}

func (s *Store) Put(ctx context.Context, key, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = content
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return fmt.Errorf("memory delete %s: %w", key, storageif.ErrNotFound)
	}
	delete(s.objects, key)
	return nil
}

// Exists reports whether key currently holds an object. Test helper.
func (s *Store) Exists(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok
}
