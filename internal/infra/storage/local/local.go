package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	storageif "github.com/kawabatas/prompt-deploy/internal/infra/storage"
)

// Store implements storage.ObjectStore on a local directory, one file per
// key. Meant for offline development; the advisory lock protocol works the
// same way it does against GCS.
type Store struct {
	root string
}

var _ storageif.ObjectStore = (*Store)(nil)

func New(root string) *Store { return &Store{root: root} }

func (s *Store) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("local get %s: %w", key, storageif.ErrNotFound)
		}
		return "", fmt.Errorf("local get %s: %w", key, err)
	}
	return string(b), nil
}

func (s *Store) Put(ctx context.Context, key, content string) error {
	p := s.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("local put %s: %w", key, err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		return fmt.Errorf("local put %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("local delete %s: %w", key, storageif.ErrNotFound)
		}
		return fmt.Errorf("local delete %s: %w", key, err)
	}
	return nil
}
