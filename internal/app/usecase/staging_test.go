package usecase

import (
	"context"
	"os"
	"testing"

	"github.com/kawabatas/prompt-deploy/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPull_MaterializesRemoteContentLocally(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	key := model.ArtifactKey("a", model.EnvDev)
	require.NoError(t, e.store.Put(ctx, key, "v1"))

	require.NoError(t, e.staging.Pull(ctx, "a", model.EnvDev))

	b, err := os.ReadFile(e.staging.EntryPath("a"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(b))
	e.assertUnlocked(t, key)
}

func TestPull_ContentionTakesPriorityOverFetching(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	key := model.ArtifactKey("a", model.EnvDev)
	require.NoError(t, e.store.Put(ctx, key, "v1"))

	ok, _, err := e.locks.Acquire(ctx, model.LockKey(key), "someone-else@host")
	require.NoError(t, err)
	require.True(t, ok)

	err = e.staging.Pull(ctx, "a", model.EnvDev)
	var cerr *ContentionError
	require.ErrorAs(t, err, &cerr)

	_, statErr := os.Stat(e.staging.EntryPath("a"))
	assert.True(t, os.IsNotExist(statErr), "no staging entry on contention")
}

func TestPull_MissingRemoteIsAnError(t *testing.T) {
	e := newTestEnv(t)
	err := e.staging.Pull(context.Background(), "a", model.EnvDev)
	assert.ErrorContains(t, err, "does not exist")
}

func TestDiff_IdenticalContentReportsNoDifferences(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, e.store.Put(ctx, model.ArtifactKey("a", model.EnvDev), "line1\nline2\n"))
	e.stage(t, "a", "line1\nline2\n")

	diff, err := e.staging.Diff(ctx, "a", model.EnvDev)
	require.NoError(t, err)
	assert.Empty(t, diff)
}

func TestDiff_ReportsExactlyTheChangedLine(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, e.store.Put(ctx, model.ArtifactKey("a", model.EnvDev), "line1\nline2\nline3\n"))
	e.stage(t, "a", "line1\nline2 edited\nline3\n")

	diff, err := e.staging.Diff(ctx, "a", model.EnvDev)
	require.NoError(t, err)
	assert.Contains(t, diff, "-line2\n")
	assert.Contains(t, diff, "+line2 edited\n")
	assert.NotContains(t, diff, "-line1")
	assert.NotContains(t, diff, "-line3")
}

func TestDiff_RequiresAStagedEntry(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.staging.Diff(context.Background(), "a", model.EnvDev)
	assert.ErrorContains(t, err, "not staged")
}
