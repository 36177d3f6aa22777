package memory

import (
	"context"
	"testing"

	storageif "github.com/kawabatas/prompt-deploy/internal/infra/storage"
	"github.com/stretchr/testify/assert"
)

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Get(ctx, "dev/a.txt")
	assert.ErrorIs(t, err, storageif.ErrNotFound)

	assert.NoError(t, s.Put(ctx, "dev/a.txt", "v1"))
	got, err := s.Get(ctx, "dev/a.txt")
	assert.NoError(t, err)
	assert.Equal(t, "v1", got)

	assert.NoError(t, s.Delete(ctx, "dev/a.txt"))
	assert.False(t, s.Exists("dev/a.txt"))
	assert.ErrorIs(t, s.Delete(ctx, "dev/a.txt"), storageif.ErrNotFound)
}
