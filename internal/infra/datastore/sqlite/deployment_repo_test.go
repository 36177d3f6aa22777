package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/kawabatas/prompt-deploy/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeploymentRepo_RecordAndList(t *testing.T) {
	ctx := context.Background()
	db, err := OpenAndInit(ctx, filepath.Join(t.TempDir(), "journal.sqlite"))
	require.NoError(t, err)
	defer db.Close()

	repo := NewDeploymentRepo(db)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Record(ctx, model.Deployment{
		Artifact: "a", Environment: model.EnvDev, Action: "push",
		Outcome: model.OutcomeCommitted, Operator: "alice@host",
		StartedAt: now, FinishedAt: now.Add(3 * time.Second),
	}))
	require.NoError(t, repo.Record(ctx, model.Deployment{
		Artifact: "a", Environment: model.EnvProd, Action: "promote",
		Outcome: model.OutcomeRolledBackRestored, Operator: "alice@host",
		Message:   "validation failed",
		StartedAt: now.Add(time.Minute), FinishedAt: now.Add(2 * time.Minute),
	}))

	devRows, err := repo.List(ctx, model.EnvDev, 10)
	require.NoError(t, err)
	require.Len(t, devRows, 1)
	assert.Equal(t, "push", devRows[0].Action)
	assert.Equal(t, model.OutcomeCommitted, devRows[0].Outcome)

	prodRows, err := repo.List(ctx, model.EnvProd, 10)
	require.NoError(t, err)
	require.Len(t, prodRows, 1)
	assert.Equal(t, "validation failed", prodRows[0].Message)

	_, err = repo.List(ctx, model.EnvDev, 0)
	assert.Error(t, err)
}
