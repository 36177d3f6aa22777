package locking

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/kawabatas/prompt-deploy/internal/domain/model"
	storageif "github.com/kawabatas/prompt-deploy/internal/infra/storage"
	"github.com/kawabatas/prompt-deploy/internal/infra/storage/memory"
	"github.com/kawabatas/prompt-deploy/internal/util/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lockKey = "dev/a.txt.lock"

func newManager(store storageif.ObjectStore) *Manager {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store, DefaultTimeout, logger)
}

func record(t *testing.T, store *memory.Store) model.LockRecord {
	t.Helper()
	raw, err := store.Get(context.Background(), lockKey)
	require.NoError(t, err)
	var rec model.LockRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	return rec
}

func TestAcquire_TwiceBySameOwner(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	restore := clock.Set(clock.Fixed(t0))
	defer restore()

	store := memory.New()
	m := newManager(store)
	ctx := context.Background()

	ok, _, err := m.Acquire(ctx, lockKey, "alice@host")
	require.NoError(t, err)
	assert.True(t, ok)

	// 同一オーナーの再取得はタイムスタンプを更新して成功する
	clock.Set(clock.Fixed(t0.Add(2 * time.Minute)))
	ok, _, err = m.Acquire(ctx, lockKey, "alice@host")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, t0.Add(2*time.Minute).UnixMilli(), record(t, store).AcquiredAtMillis)
}

func TestAcquire_ContentionAndExpiry(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	restore := clock.Set(clock.Fixed(t0))
	defer restore()

	store := memory.New()
	m := newManager(store)
	ctx := context.Background()

	ok, _, err := m.Acquire(ctx, lockKey, "alice@host")
	require.NoError(t, err)
	require.True(t, ok)

	clock.Set(clock.Fixed(t0.Add(3 * time.Minute)))
	ok, holder, err := m.Acquire(ctx, lockKey, "bob@host")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NotNil(t, holder)
	assert.Equal(t, "alice@host", holder.Owner)
	assert.Equal(t, 2*time.Minute, holder.Remaining)

	// タイムアウト経過後は前のオーナーに関係なく奪取できる
	clock.Set(clock.Fixed(t0.Add(5 * time.Minute)))
	ok, _, err = m.Acquire(ctx, lockKey, "bob@host")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "bob@host", record(t, store).Owner)
}

func TestRelease_WritesSentinelAndKeepsObject(t *testing.T) {
	store := memory.New()
	m := newManager(store)
	ctx := context.Background()

	ok, _, err := m.Acquire(ctx, lockKey, "alice@host")
	require.NoError(t, err)
	require.True(t, ok)

	m.Release(ctx, lockKey)

	// 解放後もオブジェクトは残り、内容はセンチネル
	assert.True(t, store.Exists(lockKey))
	rec := record(t, store)
	assert.False(t, rec.Held())

	// センチネルの上からは誰でも取得できる
	ok, _, err = m.Acquire(ctx, lockKey, "bob@host")
	require.NoError(t, err)
	assert.True(t, ok)
}

// errStore fails lock reads with a non-NotFound error.
type errStore struct {
	storageif.ObjectStore
}

func (errStore) Get(ctx context.Context, key string) (string, error) {
	return "", errors.New("connection reset")
}

func TestAcquire_FailsOnUnknownStoreError(t *testing.T) {
	m := newManager(errStore{memory.New()})

	ok, _, err := m.Acquire(context.Background(), lockKey, "alice@host")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestAcquire_GarbageRecordTreatedAsAbsent(t *testing.T) {
	store := memory.New()
	require.NoError(t, store.Put(context.Background(), lockKey, "not json"))

	m := newManager(store)
	ok, _, err := m.Acquire(context.Background(), lockKey, "alice@host")
	require.NoError(t, err)
	assert.True(t, ok)
}
