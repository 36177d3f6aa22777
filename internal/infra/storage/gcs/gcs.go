package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	storageif "github.com/kawabatas/prompt-deploy/internal/infra/storage"
)

// Store implements storage.ObjectStore on a GCS bucket.
// クライアントはプロセス起動時に一度だけ生成し、各コンポーネントへ注入する。
type Store struct {
	client *storage.Client
	bucket string
}

var _ storageif.ObjectStore = (*Store)(nil)

func New(client *storage.Client, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	rc, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return "", fmt.Errorf("gcs get %s: %w", key, storageif.ErrNotFound)
		}
		return "", fmt.Errorf("gcs get %s: %w", key, err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("gcs read %s: %w", key, err)
	}
	return string(b), nil
}

func (s *Store) Put(ctx context.Context, key, content string) error {
	wc := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if _, err := io.WriteString(wc, content); err != nil {
		_ = wc.Close()
		return fmt.Errorf("gcs put %s: %w", key, err)
	}
	// Close まで書き込みは確定しない
	if err := wc.Close(); err != nil {
		return fmt.Errorf("gcs put %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Bucket(s.bucket).Object(key).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return fmt.Errorf("gcs delete %s: %w", key, storageif.ErrNotFound)
		}
		return fmt.Errorf("gcs delete %s: %w", key, err)
	}
	return nil
}
