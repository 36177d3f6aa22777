package usecase

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kawabatas/prompt-deploy/internal/domain/model"
	"github.com/kawabatas/prompt-deploy/internal/infra/locking"
	"github.com/kawabatas/prompt-deploy/internal/infra/storage/memory"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store   *memory.Store
	locks   *locking.Manager
	staging *Staging
	dir     string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	locks := locking.New(store, locking.DefaultTimeout, logger)
	dir := t.TempDir()
	staging := NewStaging(store, locks, dir, "tester@host", "true", logger)
	return &testEnv{store: store, locks: locks, staging: staging, dir: dir}
}

func (e *testEnv) logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stage writes a local staging entry directly, as if the operator had pulled
// and edited it.
func (e *testEnv) stage(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(e.staging.EntryPath(name), []byte(content), 0644))
}

// assertUnlocked verifies the lock object holds the release sentinel.
func (e *testEnv) assertUnlocked(t *testing.T, key string) {
	t.Helper()
	raw, err := e.store.Get(context.Background(), model.LockKey(key))
	require.NoError(t, err, "lock object should persist after release")
	var rec model.LockRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	require.False(t, rec.Held(), "lock should not be held at exit")
}

// assertNoBackupFiles verifies no transient .bak file remains in staging.
func (e *testEnv) assertNoBackupFiles(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(e.dir)
	require.NoError(t, err)
	for _, ent := range entries {
		require.False(t, strings.HasSuffix(ent.Name(), ".bak"),
			"backup file %s should have been removed", filepath.Join(e.dir, ent.Name()))
	}
}

// stubValidator reports a fixed validation result.
type stubValidator struct {
	err   error
	calls int
}

func (v *stubValidator) Validate(ctx context.Context, env model.Environment) error {
	v.calls++
	return v.err
}

// stubConfirmer answers the confirmation gate without a terminal.
type stubConfirmer struct {
	answer bool
	err    error
	asked  int
}

func (c *stubConfirmer) Confirm(prompt string) (bool, error) {
	c.asked++
	return c.answer, c.err
}
