// Package locking implements the advisory mutual-exclusion primitive used by
// every mutating workflow. A lock is a small JSON object stored next to the
// artifact it guards; staleness is computed by the reader, and release
// overwrites the record with a sentinel instead of deleting it.
//
// Acquisition is a plain read-then-write with no compare-and-swap, so two
// operators can both observe "no lock" and both believe they hold it. This is
// best-effort coordination for trusted human operators, not robust mutual
// exclusion.
package locking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kawabatas/prompt-deploy/internal/domain/model"
	"github.com/kawabatas/prompt-deploy/internal/infra/storage"
	"github.com/kawabatas/prompt-deploy/internal/util/clock"
)

// DefaultTimeout is how old a lock record must be before a different owner
// may take it over. It must exceed the worst-case validation duration, since
// locks are held across validation runs.
const DefaultTimeout = 5 * time.Minute

// Contention describes a live lock held by someone else.
type Contention struct {
	Owner     string
	Remaining time.Duration
}

// Manager coordinates advisory locks on top of an ObjectStore.
type Manager struct {
	store   storage.ObjectStore
	timeout time.Duration
	logger  *slog.Logger
}

func New(store storage.ObjectStore, timeout time.Duration, logger *slog.Logger) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Manager{store: store, timeout: timeout, logger: logger}
}

// Acquire attempts to take the lock at lockKey for owner.
//
// It succeeds when no live record exists, when the existing record has aged
// past the timeout (regardless of prior owner), or when owner already holds
// it (the timestamp is refreshed, so re-acquisition within the timeout is
// idempotent). On contention it returns ok=false with the holder's identity
// and the remaining validity. Any store error other than "not found" while
// reading fails the acquisition: never acquire under uncertainty.
func (m *Manager) Acquire(ctx context.Context, lockKey, owner string) (bool, *Contention, error) {
	raw, err := m.store.Get(ctx, lockKey)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return false, nil, fmt.Errorf("read lock %s: %w", lockKey, err)
	}

	if err == nil {
		var rec model.LockRecord
		// 壊れたレコードや解放済みセンチネルは「ロックなし」として扱う
		if jsonErr := json.Unmarshal([]byte(raw), &rec); jsonErr == nil && rec.Held() {
			now := clock.Now()
			if !rec.Expired(now, m.timeout) && rec.Owner != owner {
				return false, &Contention{Owner: rec.Owner, Remaining: rec.Remaining(now, m.timeout)}, nil
			}
			if rec.Expired(now, m.timeout) {
				m.logger.Warn("taking over expired lock",
					slog.String("key", lockKey),
					slog.String("previous_owner", rec.Owner),
					slog.Duration("age", rec.Age(now)))
			}
		}
	}

	rec := model.LockRecord{Owner: owner, AcquiredAtMillis: clock.NowUnixMilli()}
	b, err := json.Marshal(rec)
	if err != nil {
		return false, nil, fmt.Errorf("encode lock record: %w", err)
	}
	if err := m.store.Put(ctx, lockKey, string(b)); err != nil {
		return false, nil, fmt.Errorf("write lock %s: %w", lockKey, err)
	}
	return true, nil, nil
}

// Release overwrites the lock with the sentinel record. The object is kept,
// not deleted. Failures are logged only: the wrapping operation has already
// reached its terminal state and must not be failed retroactively.
func (m *Manager) Release(ctx context.Context, lockKey string) {
	// 中断時でも解放は走らせたいので cancel を外す
	ctx = context.WithoutCancel(ctx)
	b, _ := json.Marshal(model.Sentinel())
	if err := m.store.Put(ctx, lockKey, string(b)); err != nil {
		m.logger.Warn("lock release failed; it will expire on its own",
			slog.String("key", lockKey), slog.Any("error", err))
	}
}
